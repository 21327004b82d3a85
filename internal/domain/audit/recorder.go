// Package audit provides the audit trail recorder: an independent who/when/what
// log for every privileged mutation. It answers "why is this value X today"
// without touching inventory math, so it lives in its own store, separate from
// the stock ledger.
package audit

import (
	"context"
	"encoding/json"
	"time"

	appctx "stockbook/internal/core/context"
	"stockbook/internal/core/id"
)

// Action is the audited operation kind.
type Action string

const (
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionMovement      Action = "movement"
	ActionPriceOverride Action = "price_override"
	ActionReassign      Action = "category_reassign"
	ActionReconcile     Action = "reconcile"
)

// Entry is one append-only audit record. Before/After are full snapshots of
// the entity around the change; they are never rewritten.
type Entry struct {
	ID         id.ID           `db:"id" json:"id"`
	ActorID    string          `db:"actor_id" json:"actorId"`
	ActorName  string          `db:"actor_name" json:"actorName,omitempty"`
	EntityType string          `db:"entity_type" json:"entityType"`
	EntityID   id.ID           `db:"entity_id" json:"entityId"`
	Action     Action          `db:"action" json:"action"`
	Before     json.RawMessage `db:"before_state" json:"before,omitempty"`
	After      json.RawMessage `db:"after_state" json:"after,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// Recorder appends to and reads from the audit store.
type Recorder interface {
	// RecordChange appends one entry. Implementations fill ID and CreatedAt
	// when unset and must never mutate existing entries.
	RecordChange(ctx context.Context, entry Entry) error

	// History returns the most recent entries for an entity, newest first.
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

// NewEntry builds an entry attributed to the context actor, marshalling the
// before/after snapshots.
func NewEntry(ctx context.Context, entityType string, entityID id.ID, action Action, before, after any) (Entry, error) {
	entry := Entry{
		ID:         id.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		CreatedAt:  time.Now().UTC(),
	}

	if actor := appctx.GetActor(ctx); actor != nil {
		entry.ActorID = actor.ID
		entry.ActorName = actor.Name
	}

	if before != nil {
		b, err := json.Marshal(before)
		if err != nil {
			return entry, err
		}
		entry.Before = b
	}
	if after != nil {
		a, err := json.Marshal(after)
		if err != nil {
			return entry, err
		}
		entry.After = a
	}

	return entry, nil
}
