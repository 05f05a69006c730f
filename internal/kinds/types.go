package kinds

// Kind describes one resource family. The lifecycle engine is instantiated
// once per kind; all engine code takes a Kind instead of branching on type
// names.
type Kind struct {
	// Name is the kind identifier used in routes and attachment rows
	// (e.g. "meeting", "document")
	Name string `yaml:"name" json:"name"`

	// DisplayName is the human-readable singular label
	DisplayName string `yaml:"display_name" json:"display_name"`

	// FolderTable / ResourceTable are the unprefixed backing table names
	FolderTable   string `yaml:"folder_table" json:"-"`
	ResourceTable string `yaml:"resource_table" json:"-"`

	// RecoveredFolderName is the display name of the per-owner system folder
	// that receives relocated resources
	RecoveredFolderName string `yaml:"recovered_folder_name" json:"recovered_folder_name"`
}

type registryFile struct {
	Kinds []Kind `yaml:"kinds"`
}
