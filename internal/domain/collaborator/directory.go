// Package collaborator consumes the identity directory: it resolves a
// responsible-party id to a named, active (or inactive) collaborator.
// The directory itself is owned by another subsystem; this package only reads.
package collaborator

import (
	"context"

	"stockbook/internal/core/id"
)

// Collaborator is the projection of a directory entry this core needs.
type Collaborator struct {
	ID     id.ID  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}

// Directory resolves responsible-party references.
type Directory interface {
	// Resolve returns the collaborator for the given id.
	// Returns a NOT_FOUND AppError when the id is unknown.
	Resolve(ctx context.Context, collaboratorID id.ID) (Collaborator, error)
}
