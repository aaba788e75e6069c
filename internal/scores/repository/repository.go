package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"score_portal_backend/internal/scores/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("score not found")

// Sort fields accepted by List.
const (
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
	SortByScore     = "score"
	SortByType      = "type"
)

// ListParams filters and pages a List call.
type ListParams struct {
	Type      *domain.EntityType
	SortBy    string
	SortOrder string
	Offset    int
	Limit     int
}

// SnapshotFilter narrows a Snapshot read.
type SnapshotFilter struct {
	Type *domain.EntityType
}

// Ranking orders, matching idx_scores_type_score and idx_scores_type_created_at.
const (
	orderTop    = `score DESC, created_at ASC, id ASC`
	orderLatest = `created_at DESC, id ASC`
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const scoreColumns = `id, type, score, notes, factors, detail, created_by, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, record domain.ScoreRecord) (domain.ScoreRecord, error) {
	factors, detail, err := encodePayload(record)
	if err != nil {
		return domain.ScoreRecord{}, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO scores (type, score, notes, factors, detail, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+scoreColumns,
		string(record.Type), record.Score, record.Notes, factors, detail, record.CreatedBy,
	)
	return scanRecord(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.ScoreRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+scoreColumns+` FROM scores WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ScoreRecord{}, ErrNotFound
	}
	return rec, err
}

// Update replaces the mutable fields of an existing record. The type and
// creator never change.
func (r *Repository) Update(ctx context.Context, record domain.ScoreRecord) (domain.ScoreRecord, error) {
	factors, detail, err := encodePayload(record)
	if err != nil {
		return domain.ScoreRecord{}, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE scores
		SET score = $2, notes = $3, factors = $4, detail = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+scoreColumns,
		record.ID, record.Score, record.Notes, factors, detail,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ScoreRecord{}, ErrNotFound
	}
	return rec, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM scores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.ScoreRecord, int, error) {
	whereClause, args, argIdx := buildListWhere(params.Type)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM scores `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count scores: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM scores
		%s
		ORDER BY %s %s, id ASC
		LIMIT $%d OFFSET $%d
	`, scoreColumns, whereClause, mapSortColumn(params.SortBy), mapSortOrder(params.SortOrder), argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	items, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Snapshot returns every record matching filter, oldest first.
func (r *Repository) Snapshot(ctx context.Context, filter SnapshotFilter) ([]domain.ScoreRecord, error) {
	whereClause, args, _ := buildListWhere(filter.Type)
	return r.query(ctx, `SELECT `+scoreColumns+` FROM scores `+whereClause+` ORDER BY created_at ASC, id ASC`, args...)
}

// Top returns at most n records by score descending; ties go to the earlier
// createdAt, then the lower id. A nil type ranks across all types.
func (r *Repository) Top(ctx context.Context, entityType *domain.EntityType, n int) ([]domain.ScoreRecord, error) {
	query, args := rankingQuery(entityType, orderTop, n)
	return r.query(ctx, query, args...)
}

// Latest returns at most n records, newest first.
func (r *Repository) Latest(ctx context.Context, entityType *domain.EntityType, n int) ([]domain.ScoreRecord, error) {
	query, args := rankingQuery(entityType, orderLatest, n)
	return r.query(ctx, query, args...)
}

func rankingQuery(entityType *domain.EntityType, orderBy string, n int) (string, []interface{}) {
	whereClause, args, argIdx := buildListWhere(entityType)
	query := fmt.Sprintf(`SELECT %s FROM scores %s ORDER BY %s LIMIT $%d`, scoreColumns, whereClause, orderBy, argIdx)
	return query, append(args, max(n, 0))
}

func (r *Repository) query(ctx context.Context, query string, args ...interface{}) ([]domain.ScoreRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.ScoreRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

func buildListWhere(entityType *domain.EntityType) (string, []interface{}, int) {
	var clauses []string
	var args []interface{}
	argIdx := 1

	if entityType != nil {
		clauses = append(clauses, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, string(*entityType))
		argIdx++
	}

	if len(clauses) == 0 {
		return "", args, argIdx
	}
	return "WHERE " + strings.Join(clauses, " AND "), args, argIdx
}

func mapSortColumn(sortBy string) string {
	switch sortBy {
	case SortByScore:
		return "score"
	case SortByUpdatedAt:
		return "updated_at"
	case SortByType:
		return "type"
	default:
		return "created_at"
	}
}

func mapSortOrder(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}

func encodePayload(record domain.ScoreRecord) ([]byte, []byte, error) {
	factors := record.Factors
	if factors == nil {
		factors = []domain.Factor{}
	}
	factorsJSON, err := json.Marshal(factors)
	if err != nil {
		return nil, nil, fmt.Errorf("encode factors: %w", err)
	}
	detailJSON, err := domain.EncodeDetail(record.Detail)
	if err != nil {
		return nil, nil, err
	}
	return factorsJSON, detailJSON, nil
}

func scanRecord(row pgx.Row) (domain.ScoreRecord, error) {
	var (
		rec         domain.ScoreRecord
		entityType  string
		factorsJSON []byte
		detailJSON  []byte
	)
	if err := row.Scan(
		&rec.ID, &entityType, &rec.Score, &rec.Notes, &factorsJSON, &detailJSON,
		&rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return domain.ScoreRecord{}, err
	}
	return decodeRecord(rec, entityType, factorsJSON, detailJSON)
}

func decodeRecord(rec domain.ScoreRecord, entityType string, factorsJSON, detailJSON []byte) (domain.ScoreRecord, error) {
	rec.Type = domain.EntityType(entityType)
	if len(factorsJSON) > 0 {
		if err := json.Unmarshal(factorsJSON, &rec.Factors); err != nil {
			return domain.ScoreRecord{}, fmt.Errorf("decode factors of score %s: %w", rec.ID, err)
		}
	}
	if rec.Factors == nil {
		rec.Factors = []domain.Factor{}
	}

	detail, err := domain.DecodeDetail(rec.Type, detailJSON)
	if err != nil {
		return domain.ScoreRecord{}, fmt.Errorf("score %s: %w", rec.ID, err)
	}
	rec.Detail = detail
	return rec, nil
}
