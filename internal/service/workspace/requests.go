package workspace

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	models "scribe/internal/domain/models/workspace"
)

// CreateFolderRequest carries the fields of a folder creation.
type CreateFolderRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	ParentID    *string           `json:"parent_id,omitempty"`
	Visibility  models.Visibility `json:"visibility"`
	SharedWith  []string          `json:"shared_with"`
	AccessType  models.AccessType `json:"access_type"`
}

// Validate checks the request, applying defaults for zero values first.
func (r *CreateFolderRequest) Validate() error {
	if r.Visibility == "" {
		r.Visibility = models.VisibilityPrivate
	}
	if r.AccessType == "" {
		r.AccessType = models.AccessReadonly
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.Visibility, validation.In(models.VisibilityPrivate, models.VisibilityPublic)),
		validation.Field(&r.AccessType, validation.In(models.AccessReadonly, models.AccessReadwrite)),
	)
}

// UpdateFolderRequest is a partial update; nil fields are left unchanged.
type UpdateFolderRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Validate checks the provided fields.
func (r *UpdateFolderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.When(r.Name != nil, validation.Length(1, 255))),
		validation.Field(&r.Description, validation.When(r.Description != nil, validation.Length(0, 2000))),
	)
}

// ShareFolderRequest makes a folder org-visible. SharedWith may name
// principals, carry the "all" sentinel, or be empty (whole org).
type ShareFolderRequest struct {
	SharedWith []string          `json:"shared_with"`
	AccessType models.AccessType `json:"access_type"`
}

// Validate checks the request, defaulting access_type to readonly.
func (r *ShareFolderRequest) Validate() error {
	if r.AccessType == "" {
		r.AccessType = models.AccessReadonly
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.AccessType, validation.In(models.AccessReadonly, models.AccessReadwrite)),
	)
}
