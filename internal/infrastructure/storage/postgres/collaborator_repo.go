package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/domain/collaborator"
)

const collaboratorsTable = "collaborators"

// CollaboratorRepo implements collaborator.Directory against the local
// collaborators table kept in sync from the identity system.
type CollaboratorRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewCollaboratorRepo creates a new collaborator directory repository.
func NewCollaboratorRepo(txManager *TxManager) *CollaboratorRepo {
	return &CollaboratorRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Resolve looks up a collaborator by ID.
func (r *CollaboratorRepo) Resolve(ctx context.Context, collaboratorID id.ID) (collaborator.Collaborator, error) {
	q := r.builder.Select("id", "name", "active").
		From(collaboratorsTable).
		Where(squirrel.Eq{"id": collaboratorID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return collaborator.Collaborator{}, fmt.Errorf("build query: %w", err)
	}

	var c collaborator.Collaborator
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return collaborator.Collaborator{}, apperror.NewNotFound("collaborator", collaboratorID.String())
		}
		return collaborator.Collaborator{}, fmt.Errorf("get collaborator: %w", err)
	}

	return c, nil
}

// Ensure interface compliance.
var _ collaborator.Directory = (*CollaboratorRepo)(nil)
