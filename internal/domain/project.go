package domain

import (
	"time"

	"github.com/stagehand-sh/stagehand/internal/constants"
)

// Project represents one user project managed by stagehand.
type Project struct {
	// ID is the unique identifier for the project (UUID).
	ID string `json:"id"`

	// Name is the human-readable project name.
	Name string `json:"name"`

	// Path is the local working directory. It is a git repository once
	// the project has been scaffolded.
	Path string `json:"path"`

	// CreatedAt is when the project was registered.
	CreatedAt time.Time `json:"created_at"`
}

// Version represents one development iteration of a project, tracked
// through the development-flow state machine.
//
// DevStatus only changes via a state-machine-approved transition;
// direct writes are reserved for the abort recovery fallback.
type Version struct {
	// ID is the unique identifier for the version (UUID).
	ID string `json:"id"`

	// ProjectID links this version to its parent project.
	ProjectID string `json:"project_id"`

	// Branch is the git branch this version develops on.
	Branch string `json:"branch"`

	// DevStatus is the current development-flow state.
	DevStatus constants.VersionStatus `json:"dev_status"`

	// CreatedAt is when the version was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the version was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}
