package domain

// ConfigLoader loads render settings from a project directory.
type ConfigLoader interface {
	Load(projectPath string) (Config, error)
}

// ClientStore persists the client directory. Save rewrites the file in full.
type ClientStore interface {
	Load() (ClientDirectory, error)
	Save(dir ClientDirectory) error
}

// RevisionSource reports the revision of the directory holding the billing data.
type RevisionSource interface {
	CommitHash(path string) (string, error)
}

// Metadata is written into the document properties of the generated file.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// GenerateResult describes a generated document.
type GenerateResult struct {
	Path         string `json:"path"`
	Quote        Quote  `json:"quote"`
	Instructions int    `json:"instructions"`
	LogoSkipped  bool   `json:"logo_skipped"`
	Revision     string `json:"revision,omitempty"`
}
