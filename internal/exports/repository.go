package exports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrExportNotFound = errors.New("report export not found")

// Export is one generated report file stored in object storage.
type Export struct {
	ID        uuid.UUID
	Report    Report
	FileKey   string
	RowCount  int
	SizeBytes int64
	CreatedBy uuid.UUID
	CreatedAt time.Time
}

// Store persists export metadata.
type Store interface {
	Create(ctx context.Context, export Export) (Export, error)
	GetByID(ctx context.Context, id uuid.UUID) (Export, error)
	ListByCreator(ctx context.Context, createdBy uuid.UUID, limit int) ([]Export, error)
}

// Repository provides data access for report exports.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const exportColumns = `id, report, file_key, row_count, size_bytes, created_by, created_at`

// Create records a finished export.
func (r *Repository) Create(ctx context.Context, export Export) (Export, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO report_exports (report, file_key, row_count, size_bytes, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+exportColumns,
		string(export.Report), export.FileKey, export.RowCount, export.SizeBytes, export.CreatedBy,
	)
	return scanExport(row)
}

// GetByID returns a single export.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Export, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+exportColumns+` FROM report_exports WHERE id = $1`, id)
	export, err := scanExport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Export{}, ErrExportNotFound
	}
	return export, err
}

// ListByCreator returns the newest exports of one user.
func (r *Repository) ListByCreator(ctx context.Context, createdBy uuid.UUID, limit int) ([]Export, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+exportColumns+`
		FROM report_exports
		WHERE created_by = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2
	`, createdBy, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exports := make([]Export, 0)
	for rows.Next() {
		export, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		exports = append(exports, export)
	}
	return exports, rows.Err()
}

func scanExport(row pgx.Row) (Export, error) {
	var (
		export Export
		report string
	)
	if err := row.Scan(&export.ID, &report, &export.FileKey, &export.RowCount, &export.SizeBytes, &export.CreatedBy, &export.CreatedAt); err != nil {
		return Export{}, err
	}
	export.Report = Report(report)
	return export, nil
}

var _ Store = (*Repository)(nil)
