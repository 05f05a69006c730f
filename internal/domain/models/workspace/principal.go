package workspace

// Principal is the requesting identity, as extracted from a verified token.
type Principal struct {
	ID    string `json:"id"`
	OrgID string `json:"org_id"`
}
