package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/domain"
	"github.com/e-ashyoviy-dalillar/evidence-service/internal/persistence"
)

// EvidenceRepository encapsulates evidence persistence.
type EvidenceRepository interface {
	Create(ctx context.Context, ev *domain.Evidence) error
	Update(ctx context.Context, ev *domain.Evidence) error
	GetByID(ctx context.Context, id string) (*domain.Evidence, error)
	List(ctx context.Context, filter domain.EvidenceFilter) ([]domain.Evidence, error)
	Count(ctx context.Context, filter domain.EvidenceFilter) (int, error)
	ListExpiring(ctx context.Context, from, to time.Time, ownerScope *string) ([]domain.Evidence, error)
}

type evidenceRepository struct {
	db persistence.DB
}

// NewEvidenceRepository instantiates repository.
func NewEvidenceRepository(db persistence.DB) EvidenceRepository {
	return &evidenceRepository{db: db}
}

const evidenceColumns = `id, name, case_number, description, location, category, expiry_date, status,
               image_urls, account_file_url, entered_by, investigator_id, completion_reason, completed_at,
               removal_reason, removed_at, removed_by, created_at, updated_at`

func (r *evidenceRepository) Create(ctx context.Context, ev *domain.Evidence) error {
	const query = `
        INSERT INTO evidence (id, name, case_number, description, location, category, expiry_date, status,
            image_urls, account_file_url, entered_by, investigator_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		ev.ID,
		ev.Name,
		ev.CaseNumber,
		ev.Description,
		ev.Location,
		ev.Category,
		ev.ExpiryDate,
		ev.Status,
		imageURLs(ev.ImageURLs),
		ev.AccountFileURL,
		ev.EnteredBy,
		ev.InvestigatorID,
	).Scan(&ev.CreatedAt, &ev.UpdatedAt)
}

func (r *evidenceRepository) Update(ctx context.Context, ev *domain.Evidence) error {
	const query = `
        UPDATE evidence SET name=$1, case_number=$2, description=$3, location=$4, category=$5, expiry_date=$6,
            status=$7, image_urls=$8, account_file_url=$9, investigator_id=$10, completion_reason=$11,
            completed_at=$12, removal_reason=$13, removed_at=$14, removed_by=$15, updated_at=NOW()
        WHERE id=$16
        RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		ev.Name,
		ev.CaseNumber,
		ev.Description,
		ev.Location,
		ev.Category,
		ev.ExpiryDate,
		ev.Status,
		imageURLs(ev.ImageURLs),
		ev.AccountFileURL,
		ev.InvestigatorID,
		ev.CompletionReason,
		ev.CompletedAt,
		ev.RemovalReason,
		ev.RemovedAt,
		ev.RemovedBy,
		ev.ID,
	).Scan(&ev.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEvidenceNotFound
	}
	return err
}

func (r *evidenceRepository) GetByID(ctx context.Context, id string) (*domain.Evidence, error) {
	query := `SELECT ` + evidenceColumns + ` FROM evidence WHERE id=$1`
	ev, err := scanEvidence(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEvidenceNotFound
	}
	return ev, err
}

func (r *evidenceRepository) List(ctx context.Context, filter domain.EvidenceFilter) ([]domain.Evidence, error) {
	where, args := evidenceWhere(filter)
	query := `SELECT ` + evidenceColumns + ` FROM evidence WHERE ` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvidenceRows(rows)
}

func (r *evidenceRepository) Count(ctx context.Context, filter domain.EvidenceFilter) (int, error) {
	where, args := evidenceWhere(filter)
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM evidence WHERE `+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// ListExpiring returns active dated items with from < expiry <= to, soonest first.
func (r *evidenceRepository) ListExpiring(ctx context.Context, from, to time.Time, ownerScope *string) ([]domain.Evidence, error) {
	status := domain.EvidenceStatusActive
	category := domain.CategorySpecificDate
	where, args := evidenceWhere(domain.EvidenceFilter{
		Status:     &status,
		Category:   &category,
		OwnerScope: ownerScope,
	})
	args = append(args, from, to)
	query := fmt.Sprintf(`SELECT %s FROM evidence WHERE %s AND expiry_date > $%d AND expiry_date <= $%d ORDER BY expiry_date ASC`,
		evidenceColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvidenceRows(rows)
}

// likeEscaper makes the search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func evidenceWhere(filter domain.EvidenceFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.InvestigatorID != nil {
		args = append(args, *filter.InvestigatorID)
		clauses = append(clauses, fmt.Sprintf("investigator_id=$%d", len(args)))
	}
	if filter.EnteredBy != nil {
		args = append(args, *filter.EnteredBy)
		clauses = append(clauses, fmt.Sprintf("entered_by=$%d", len(args)))
	}
	if filter.OwnerScope != nil {
		args = append(args, *filter.OwnerScope)
		clauses = append(clauses, fmt.Sprintf("(entered_by=$%d OR entered_by='')", len(args)))
	}
	if filter.Expiry != nil {
		clauses = append(clauses, expiryClause(*filter.Expiry, filter.Now, &args))
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(term))+"%")
		p := fmt.Sprintf("$%d ESCAPE '\\'", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(name) LIKE %[1]s OR LOWER(case_number) LIKE %[1]s OR LOWER(description) LIKE %[1]s OR LOWER(location) LIKE %[1]s OR LOWER(entered_by) LIKE %[1]s)", p))
	}

	return strings.Join(clauses, " AND "), args
}

// expiryClause mirrors domain.Classify in SQL so paging stays exact.
// ceil(d) <= N holds exactly when d <= N, so the window edge is now+N days.
func expiryClause(state domain.ExpiryState, now time.Time, args *[]any) string {
	soonEdge := now.Add(domain.ExpiringSoonWindowDays * 24 * time.Hour)
	switch state {
	case domain.ExpiryLifetime:
		return "(category='LIFETIME' OR expiry_date IS NULL)"
	case domain.ExpiryExpired:
		*args = append(*args, now)
		return fmt.Sprintf("(category='SPECIFIC_DATE' AND expiry_date < $%d)", len(*args))
	case domain.ExpiryExpiringSoon:
		*args = append(*args, now, soonEdge)
		return fmt.Sprintf("(category='SPECIFIC_DATE' AND expiry_date >= $%d AND expiry_date <= $%d)", len(*args)-1, len(*args))
	default:
		*args = append(*args, soonEdge)
		return fmt.Sprintf("(category='SPECIFIC_DATE' AND expiry_date > $%d)", len(*args))
	}
}

func imageURLs(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return urls
}

func scanEvidence(row pgx.Row) (*domain.Evidence, error) {
	var ev domain.Evidence
	if err := row.Scan(
		&ev.ID,
		&ev.Name,
		&ev.CaseNumber,
		&ev.Description,
		&ev.Location,
		&ev.Category,
		&ev.ExpiryDate,
		&ev.Status,
		&ev.ImageURLs,
		&ev.AccountFileURL,
		&ev.EnteredBy,
		&ev.InvestigatorID,
		&ev.CompletionReason,
		&ev.CompletedAt,
		&ev.RemovalReason,
		&ev.RemovedAt,
		&ev.RemovedBy,
		&ev.CreatedAt,
		&ev.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ev, nil
}

func scanEvidenceRows(rows pgx.Rows) ([]domain.Evidence, error) {
	result := []domain.Evidence{}
	for rows.Next() {
		ev, err := scanEvidence(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ev)
	}
	return result, rows.Err()
}
