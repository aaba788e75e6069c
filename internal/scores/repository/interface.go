package repository

import (
	"context"

	"score_portal_backend/internal/scores/domain"

	"github.com/google/uuid"
)

// ScoreReader provides read access to score records.
type ScoreReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.ScoreRecord, error)
	List(ctx context.Context, params ListParams) ([]domain.ScoreRecord, int, error)
}

// ScoreWriter persists score records. Records arrive with their score already
// computed; the writer stores them as given.
type ScoreWriter interface {
	Create(ctx context.Context, record domain.ScoreRecord) (domain.ScoreRecord, error)
	Update(ctx context.Context, record domain.ScoreRecord) (domain.ScoreRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SnapshotReader returns the record sets analytics run over.
type SnapshotReader interface {
	Snapshot(ctx context.Context, filter SnapshotFilter) ([]domain.ScoreRecord, error)
}

// RankingReader returns the ordered record slices behind the leaderboard and
// recent views. A nil type covers every entity type.
type RankingReader interface {
	Top(ctx context.Context, entityType *domain.EntityType, n int) ([]domain.ScoreRecord, error)
	Latest(ctx context.Context, entityType *domain.EntityType, n int) ([]domain.ScoreRecord, error)
}

// ScoreRepository is the full persistence contract of the scores module.
type ScoreRepository interface {
	ScoreReader
	ScoreWriter
	SnapshotReader
	RankingReader
}

// Compile-time check that Repository implements ScoreRepository.
var _ ScoreRepository = (*Repository)(nil)
