// Package reconcile provides the financial reconciliation guard: a generic
// diff/delete/upsert of a parent's child records that refuses to touch
// settled children. The same algorithm serves any child collection kept in
// sync with a caller-supplied desired set (payment installments, line items).
package reconcile

import (
	"context"
	"fmt"
	"sort"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain/audit"
	"stockbook/pkg/logger"
)

// Child is a reconcilable child record. EqualTo must compare business
// content only, so an unchanged locked child in the desired set is not
// mistaken for an overwrite attempt.
type Child[C any] interface {
	ChildID() string
	EqualTo(other C) bool
}

// Predicate reports whether a child is locked against mutation.
type Predicate[C any] func(child C) bool

// Store persists one parent's child collection.
type Store[C any] interface {
	// ListByParent returns all persisted children of the parent.
	ListByParent(ctx context.Context, parentID id.ID) ([]C, error)

	// Delete removes the given children of the parent.
	Delete(ctx context.Context, parentID id.ID, childIDs []string) error

	// Upsert inserts or replaces the given children of the parent.
	Upsert(ctx context.Context, parentID id.ID, children []C) error
}

// Result reports what a reconciliation did.
type Result struct {
	// Upserted and Deleted list the child IDs that were written.
	Upserted []string `json:"upserted"`
	Deleted  []string `json:"deleted"`

	// SkippedLocked lists locked children left untouched: omitted from the
	// desired set, or present in it with unchanged content.
	SkippedLocked []string `json:"skippedLocked"`
}

// Guard reconciles a parent's persisted children against a desired set.
type Guard[C Child[C]] struct {
	entityType string
	store      Store[C]
	locked     Predicate[C]
	recorder   audit.Recorder
	txManager  tx.Manager
}

// NewGuard creates a reconciliation guard for one child entity type.
func NewGuard[C Child[C]](
	entityType string,
	store Store[C],
	locked Predicate[C],
	recorder audit.Recorder,
	txManager tx.Manager,
) *Guard[C] {
	return &Guard[C]{
		entityType: entityType,
		store:      store,
		locked:     locked,
		recorder:   recorder,
		txManager:  txManager,
	}
}

// Reconcile diffs the persisted children against desired and applies the
// difference: children present only in the persisted set are deleted,
// children in the desired set are upserted. Locked children are excluded
// from both; a desired change to a locked child fails the whole operation
// with RECONCILIATION_CONFLICT.
//
// The locked check and the writes run in one transaction, so a child cannot
// become settled between check and mutation.
func (g *Guard[C]) Reconcile(ctx context.Context, parentID id.ID, desired []C) (Result, error) {
	if err := validateDesired(desired); err != nil {
		return Result{}, err
	}

	var result Result
	err := g.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		persisted, err := g.store.ListByParent(ctx, parentID)
		if err != nil {
			return err
		}

		plan, conflicts := diff(persisted, desired, g.locked)
		if len(conflicts) > 0 {
			return apperror.NewReconciliationConflict(parentID.String(), conflicts)
		}

		if len(plan.toDelete) > 0 {
			if err := g.store.Delete(ctx, parentID, plan.toDelete); err != nil {
				return fmt.Errorf("delete children: %w", err)
			}
		}
		if len(plan.toUpsert) > 0 {
			if err := g.store.Upsert(ctx, parentID, plan.toUpsert); err != nil {
				return fmt.Errorf("upsert children: %w", err)
			}
		}

		entry, err := audit.NewEntry(ctx, g.entityType, parentID, audit.ActionReconcile, persisted, desired)
		if err != nil {
			return fmt.Errorf("build audit entry: %w", err)
		}
		if err := g.recorder.RecordChange(ctx, entry); err != nil {
			return fmt.Errorf("record audit entry: %w", err)
		}

		result = Result{
			Upserted:      childIDs(plan.toUpsert),
			Deleted:       plan.toDelete,
			SkippedLocked: plan.skippedLocked,
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.Info(ctx, "children reconciled",
		"entity_type", g.entityType,
		"parent_id", parentID,
		"upserted", len(result.Upserted),
		"deleted", len(result.Deleted),
		"skipped_locked", len(result.SkippedLocked),
	)

	return result, nil
}

type plan[C any] struct {
	toDelete      []string
	toUpsert      []C
	skippedLocked []string
}

// diff computes the write plan. Returned conflicts are the locked child IDs
// whose desired content differs from the persisted one.
func diff[C Child[C]](persisted, desired []C, locked Predicate[C]) (plan[C], []string) {
	existing := make(map[string]C, len(persisted))
	for _, c := range persisted {
		existing[c.ChildID()] = c
	}
	wanted := make(map[string]C, len(desired))
	for _, c := range desired {
		wanted[c.ChildID()] = c
	}

	var p plan[C]
	var conflicts []string

	for _, c := range persisted {
		childID := c.ChildID()
		want, inDesired := wanted[childID]

		if !locked(c) {
			if !inDesired {
				p.toDelete = append(p.toDelete, childID)
			}
			continue
		}

		switch {
		case !inDesired:
			// Omission never deletes a settled child; keep it and report.
			p.skippedLocked = append(p.skippedLocked, childID)
		case c.EqualTo(want):
			p.skippedLocked = append(p.skippedLocked, childID)
		default:
			conflicts = append(conflicts, childID)
		}
	}

	for _, c := range desired {
		prev, exists := existing[c.ChildID()]
		if exists && locked(prev) {
			continue
		}
		if exists && c.EqualTo(prev) {
			continue
		}
		p.toUpsert = append(p.toUpsert, c)
	}

	sort.Strings(p.toDelete)
	sort.Strings(p.skippedLocked)
	sort.Strings(conflicts)
	sort.Slice(p.toUpsert, func(i, j int) bool { return p.toUpsert[i].ChildID() < p.toUpsert[j].ChildID() })

	return p, conflicts
}

func validateDesired[C Child[C]](desired []C) error {
	seen := make(map[string]struct{}, len(desired))
	for _, c := range desired {
		childID := c.ChildID()
		if childID == "" {
			return apperror.NewFieldValidation("children", "child id is required")
		}
		if _, dup := seen[childID]; dup {
			return apperror.NewFieldValidation("children", fmt.Sprintf("duplicate child id %q", childID))
		}
		seen[childID] = struct{}{}
	}
	return nil
}

func childIDs[C Child[C]](children []C) []string {
	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.ChildID())
	}
	return ids
}
