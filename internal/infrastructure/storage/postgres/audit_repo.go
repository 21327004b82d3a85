package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"stockbook/internal/core/id"
	"stockbook/internal/domain/audit"
)

const auditTable = "audit_log"

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditRepo implements audit.Recorder. Before/after snapshots above the
// threshold are stored zstd-compressed; small ones stay as plain JSONB so
// they remain queryable.
type AuditRepo struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditRepo creates a new audit repository.
func NewAuditRepo(txManager *TxManager) (*AuditRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditRepo{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// RecordChange appends one audit entry. Rows are write-once; there is no
// update path in this repository.
func (r *AuditRepo) RecordChange(ctx context.Context, entry audit.Entry) error {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	algo := CompressionNone
	before := []byte(entry.Before)
	after := []byte(entry.After)
	var beforeCompressed, afterCompressed []byte

	if len(before)+len(after) > r.compressThreshold {
		algo = CompressionZstd
		if len(before) > 0 {
			beforeCompressed = r.encoder.EncodeAll(before, nil)
			before = nil
		}
		if len(after) > 0 {
			afterCompressed = r.encoder.EncodeAll(after, nil)
			after = nil
		}
	}

	sql := `
		INSERT INTO audit_log (
			id, actor_id, actor_name, entity_type, entity_id, action,
			before_state, after_state,
			before_compressed, after_compressed, compression_algo,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	querier := r.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		entry.ID, entry.ActorID, entry.ActorName,
		entry.EntityType, entry.EntityID, entry.Action,
		before, after,
		beforeCompressed, afterCompressed, algo,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

// History retrieves audit history for an entity, newest first.
func (r *AuditRepo) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	sql := `
		SELECT id, actor_id, actor_name, entity_type, entity_id, action,
			   before_state, after_state,
			   before_compressed, after_compressed, compression_algo,
			   created_at
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var beforeCompressed, afterCompressed []byte
		var algo CompressionAlgo

		err := rows.Scan(
			&e.ID, &e.ActorID, &e.ActorName, &e.EntityType, &e.EntityID, &e.Action,
			&e.Before, &e.After,
			&beforeCompressed, &afterCompressed, &algo,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if algo == CompressionZstd {
			if len(beforeCompressed) > 0 {
				if e.Before, err = r.decoder.DecodeAll(beforeCompressed, nil); err != nil {
					return nil, fmt.Errorf("decompress before state: %w", err)
				}
			}
			if len(afterCompressed) > 0 {
				if e.After, err = r.decoder.DecodeAll(afterCompressed, nil); err != nil {
					return nil, fmt.Errorf("decompress after state: %w", err)
				}
			}
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Ensure interface compliance.
var _ audit.Recorder = (*AuditRepo)(nil)
