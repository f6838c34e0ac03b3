package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/persistence"
)

// EvidenceHistoryRepository stores audit entries.
type EvidenceHistoryRepository interface {
	Create(ctx context.Context, entry *domain.EvidenceHistory) error
	ListByEvidence(ctx context.Context, evidenceID string) ([]domain.EvidenceHistory, error)
}

type evidenceHistoryRepository struct {
	db persistence.DB
}

// NewEvidenceHistoryRepository builds repository.
func NewEvidenceHistoryRepository(db persistence.DB) EvidenceHistoryRepository {
	return &evidenceHistoryRepository{db: db}
}

func (r *evidenceHistoryRepository) Create(ctx context.Context, entry *domain.EvidenceHistory) error {
	const query = `
        INSERT INTO evidence_history (id, evidence_id, action, changed_by, reason, changes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`

	changes := entry.Changes
	if changes == nil {
		changes = map[string]domain.FieldChange{}
	}
	payload, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("encode history changes: %w", err)
	}

	return r.db.QueryRow(ctx, query,
		entry.ID,
		entry.EvidenceID,
		entry.Action,
		entry.ChangedBy,
		entry.Reason,
		payload,
	).Scan(&entry.CreatedAt)
}

func (r *evidenceHistoryRepository) ListByEvidence(ctx context.Context, evidenceID string) ([]domain.EvidenceHistory, error) {
	const query = `
        SELECT id, evidence_id, action, changed_by, reason, changes, created_at
        FROM evidence_history WHERE evidence_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, evidenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.EvidenceHistory{}
	for rows.Next() {
		var (
			entry   domain.EvidenceHistory
			payload []byte
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.EvidenceID,
			&entry.Action,
			&entry.ChangedBy,
			&entry.Reason,
			&payload,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &entry.Changes); err != nil {
				return nil, fmt.Errorf("decode history changes: %w", err)
			}
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
