package domain

import (
	"fmt"
	"strings"
	"time"
)

// Project groups the documents of one construction project.
type Project struct {
	// ID is the unique identifier for the project.
	ID string

	// Name is the human-readable project name.
	Name string

	// Code is the short job number used on drawings and transmittals.
	Code string

	// Location is the site address or description.
	Location string

	// Description is free-form notes.
	Description string

	// CreatedAt is when the project was created.
	CreatedAt time.Time

	// UpdatedAt is when the project was last updated.
	UpdatedAt time.Time
}

// DisplayName returns the project name prefixed with its code when set.
// A code already present in the name is not repeated.
func (p *Project) DisplayName() string {
	if p.Code != "" && !strings.Contains(p.Name, p.Code) {
		return fmt.Sprintf("%s - %s", p.Code, p.Name)
	}
	return p.Name
}

// Validate checks the fields required to persist a project.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProject)
	}
	if strings.ContainsAny(p.Code, " \t\n") {
		return fmt.Errorf("%w: code must not contain whitespace", ErrInvalidProject)
	}
	return nil
}
