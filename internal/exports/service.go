package exports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"score_portal_backend/internal/adapters/storage"
	"score_portal_backend/internal/scores/analytics"
	"score_portal_backend/internal/scores/domain"
	scoresvc "score_portal_backend/internal/scores/service"
	"score_portal_backend/internal/scores/statistics"
	"score_portal_backend/internal/scores/transport"
	"score_portal_backend/platform/apperr"
	"score_portal_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	csvContentType = "text/csv; charset=utf-8"
	listLimit      = 50
)

// ReportSource produces the reports that can be exported.
type ReportSource interface {
	Statistics(ctx context.Context) (statistics.Summary, error)
	Leaderboard(ctx context.Context, req transport.RankingRequest) ([]transport.ScoreResponse, error)
	LeadConversion(ctx context.Context, req transport.AnalyticsRequest) (analytics.LeadConversionReport, error)
	PropertyAnalytics(ctx context.Context, req transport.AnalyticsRequest) (analytics.PropertyReport, error)
	Snapshot(ctx context.Context, typeFilter string) ([]domain.ScoreRecord, error)
}

// CreateExportRequest selects the report to export and its parameters.
type CreateExportRequest struct {
	Report  string `json:"report" validate:"required,oneof=summary leaderboard lead-conversion property scores"`
	Type    string `json:"type" validate:"omitempty,oneof=Lead Property Agent"`
	Limit   int    `json:"limit" validate:"omitempty,min=1,max=100"`
	OrderBy string `json:"orderBy" validate:"omitempty,oneof=firstSeen score count"`
}

// ExportResponse describes a stored export and, when requested, where to fetch it.
type ExportResponse struct {
	ID        uuid.UUID             `json:"id"`
	Report    Report                `json:"report"`
	FileKey   string                `json:"fileKey"`
	Rows      int                   `json:"rows"`
	SizeBytes int64                 `json:"sizeBytes"`
	CreatedAt time.Time             `json:"createdAt"`
	Download  *storage.PresignedURL `json:"download,omitempty"`
}

// Service renders reports to CSV and stores them in object storage.
type Service struct {
	reports ReportSource
	storage storage.StorageService
	repo    Store
	bucket  string
	log     *logger.Logger
	now     func() time.Time
}

// NewService creates the export service. A nil storage disables exports.
func NewService(reports ReportSource, store storage.StorageService, repo Store, bucket string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		reports: reports,
		storage: store,
		repo:    repo,
		bucket:  bucket,
		log:     log,
		now:     time.Now,
	}
}

// Create renders the requested report, uploads it and records the export.
func (s *Service) Create(ctx context.Context, req CreateExportRequest, actorID uuid.UUID) (ExportResponse, error) {
	if err := s.enabled(); err != nil {
		return ExportResponse{}, err
	}

	report := Report(req.Report)
	table, err := s.render(ctx, report, req)
	if err != nil {
		return ExportResponse{}, err
	}

	data, err := table.CSV()
	if err != nil {
		return ExportResponse{}, fmt.Errorf("encode %s export: %w", report, err)
	}

	folder := path.Join(string(report), s.now().UTC().Format("2006-01"))
	fileKey, err := s.storage.UploadFile(ctx, s.bucket, folder, string(report)+".csv", csvContentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ExportResponse{}, apperr.Wrap(apperr.KindUnavailable, "failed to store export", err)
	}

	created, err := s.repo.Create(ctx, Export{
		Report:    report,
		FileKey:   fileKey,
		RowCount:  len(table.Rows),
		SizeBytes: int64(len(data)),
		CreatedBy: actorID,
	})
	if err != nil {
		if delErr := s.storage.DeleteObject(ctx, s.bucket, fileKey); delErr != nil {
			s.log.Error("failed to remove orphaned export", "fileKey", fileKey, "error", delErr)
		}
		return ExportResponse{}, err
	}

	s.log.WithContext(ctx).Info("report exported", "report", string(report), "exportId", created.ID.String(), "rows", created.RowCount)
	return s.withDownload(ctx, created)
}

// List returns the newest exports created by actorID.
func (s *Service) List(ctx context.Context, actorID uuid.UUID) ([]ExportResponse, error) {
	exports, err := s.repo.ListByCreator(ctx, actorID, listLimit)
	if err != nil {
		return nil, err
	}
	resp := make([]ExportResponse, 0, len(exports))
	for _, e := range exports {
		resp = append(resp, toResponse(e))
	}
	return resp, nil
}

// Download issues a fresh presigned URL for an export owned by actorID.
func (s *Service) Download(ctx context.Context, id, actorID uuid.UUID) (ExportResponse, error) {
	if err := s.enabled(); err != nil {
		return ExportResponse{}, err
	}

	export, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExportNotFound) {
			return ExportResponse{}, apperr.NotFound("export not found")
		}
		return ExportResponse{}, err
	}
	if export.CreatedBy != actorID {
		return ExportResponse{}, apperr.NotFound("export not found")
	}
	return s.withDownload(ctx, export)
}

func (s *Service) render(ctx context.Context, report Report, req CreateExportRequest) (Table, error) {
	analyticsReq := transport.AnalyticsRequest{OrderBy: req.OrderBy}

	switch report {
	case ReportSummary:
		summary, err := s.reports.Statistics(ctx)
		if err != nil {
			return Table{}, err
		}
		return SummaryTable(summary), nil
	case ReportLeaderboard:
		top, err := s.reports.Leaderboard(ctx, transport.RankingRequest{Type: req.Type, Limit: req.Limit})
		if err != nil {
			return Table{}, err
		}
		return ScoresTable(top), nil
	case ReportLeadConversion:
		conversion, err := s.reports.LeadConversion(ctx, analyticsReq)
		if err != nil {
			return Table{}, err
		}
		return LeadConversionTable(conversion), nil
	case ReportProperty:
		property, err := s.reports.PropertyAnalytics(ctx, analyticsReq)
		if err != nil {
			return Table{}, err
		}
		return PropertyTable(property), nil
	case ReportScores:
		records, err := s.reports.Snapshot(ctx, req.Type)
		if err != nil {
			return Table{}, err
		}
		responses := make([]transport.ScoreResponse, 0, len(records))
		for _, rec := range records {
			responses = append(responses, scoresvc.ToScoreResponse(rec))
		}
		return ScoresTable(responses), nil
	}
	return Table{}, apperr.Validation(fmt.Sprintf("unknown report %q", report))
}

func (s *Service) withDownload(ctx context.Context, export Export) (ExportResponse, error) {
	url, err := s.storage.GenerateDownloadURL(ctx, s.bucket, export.FileKey)
	if err != nil {
		return ExportResponse{}, apperr.Wrap(apperr.KindUnavailable, "failed to sign download url", err)
	}
	resp := toResponse(export)
	resp.Download = url
	return resp, nil
}

func (s *Service) enabled() error {
	if s.storage == nil {
		return apperr.Unavailable("report exports are not configured")
	}
	return nil
}

func toResponse(e Export) ExportResponse {
	return ExportResponse{
		ID:        e.ID,
		Report:    e.Report,
		FileKey:   e.FileKey,
		Rows:      e.RowCount,
		SizeBytes: e.SizeBytes,
		CreatedAt: e.CreatedAt,
	}
}
