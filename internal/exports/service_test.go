package exports

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"score_portal_backend/internal/adapters/storage"
	"score_portal_backend/internal/scores/analytics"
	"score_portal_backend/internal/scores/domain"
	"score_portal_backend/internal/scores/statistics"
	"score_portal_backend/internal/scores/transport"
	"score_portal_backend/platform/apperr"

	"github.com/google/uuid"
)

type stubReports struct {
	snapshotType string
	err          error
}

func (s *stubReports) Statistics(context.Context) (statistics.Summary, error) {
	return statistics.Summary{Totals: statistics.Totals{Records: 1, AverageScore: 77}}, s.err
}

func (s *stubReports) Leaderboard(context.Context, transport.RankingRequest) ([]transport.ScoreResponse, error) {
	return []transport.ScoreResponse{{ID: uuid.New(), Type: domain.TypeLead, Score: 90}}, s.err
}

func (s *stubReports) LeadConversion(context.Context, transport.AnalyticsRequest) (analytics.LeadConversionReport, error) {
	return analytics.LeadConversionReport{}, s.err
}

func (s *stubReports) PropertyAnalytics(context.Context, transport.AnalyticsRequest) (analytics.PropertyReport, error) {
	return analytics.PropertyReport{}, s.err
}

func (s *stubReports) Snapshot(_ context.Context, typeFilter string) ([]domain.ScoreRecord, error) {
	s.snapshotType = typeFilter
	return []domain.ScoreRecord{
		{ID: uuid.New(), Type: domain.TypeLead, Score: 40, Detail: domain.LeadDetail{Name: "A"}},
		{ID: uuid.New(), Type: domain.TypeLead, Score: 60, Detail: domain.LeadDetail{Name: "B"}},
	}, s.err
}

type memoryStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (m *memoryStorage) UploadFile(_ context.Context, bucket, folder, fileName, _ string, reader io.Reader, _ int64) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	key := storage.ObjectKey(folder, fileName)
	m.mu.Lock()
	m.objects[bucket+"/"+key] = data
	m.mu.Unlock()
	return key, nil
}

func (m *memoryStorage) GenerateDownloadURL(_ context.Context, bucket, fileKey string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://storage.local/" + bucket + "/" + fileKey, FileKey: fileKey}, nil
}

func (m *memoryStorage) DeleteObject(_ context.Context, bucket, fileKey string) error {
	m.mu.Lock()
	delete(m.objects, bucket+"/"+fileKey)
	m.mu.Unlock()
	return nil
}

func (m *memoryStorage) EnsureBucketExists(context.Context, string) error { return nil }

func (m *memoryStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

type memoryStore struct {
	exports   map[uuid.UUID]Export
	createErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{exports: make(map[uuid.UUID]Export)}
}

func (s *memoryStore) Create(_ context.Context, e Export) (Export, error) {
	if s.createErr != nil {
		return Export{}, s.createErr
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	s.exports[e.ID] = e
	return e, nil
}

func (s *memoryStore) GetByID(_ context.Context, id uuid.UUID) (Export, error) {
	e, ok := s.exports[id]
	if !ok {
		return Export{}, ErrExportNotFound
	}
	return e, nil
}

func (s *memoryStore) ListByCreator(_ context.Context, createdBy uuid.UUID, limit int) ([]Export, error) {
	out := make([]Export, 0)
	for _, e := range s.exports {
		if e.CreatedBy == createdBy && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestService() (*Service, *stubReports, *memoryStorage, *memoryStore) {
	reports := &stubReports{}
	objects := newMemoryStorage()
	store := newMemoryStore()
	svc := NewService(reports, objects, store, "report-exports", nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) }
	return svc, reports, objects, store
}

func TestCreateExportUploadsCSV(t *testing.T) {
	svc, reports, objects, _ := newTestService()
	actor := uuid.New()

	resp, err := svc.Create(context.Background(), CreateExportRequest{Report: "scores", Type: "Lead"}, actor)
	if err != nil {
		t.Fatalf("create export: %v", err)
	}

	if reports.snapshotType != "Lead" {
		t.Fatalf("expected type filter to reach the snapshot, got %q", reports.snapshotType)
	}
	if resp.Rows != 2 || resp.Report != ReportScores {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !strings.HasPrefix(resp.FileKey, "scores/2026-03/scores_") {
		t.Fatalf("unexpected file key %q", resp.FileKey)
	}
	if resp.Download == nil || !strings.Contains(resp.Download.URL, resp.FileKey) {
		t.Fatalf("expected a download url, got %+v", resp.Download)
	}

	data := objects.objects["report-exports/"+resp.FileKey]
	if int64(len(data)) != resp.SizeBytes {
		t.Fatalf("expected %d stored bytes, got %d", resp.SizeBytes, len(data))
	}
	if !strings.HasPrefix(string(data), "rank,id,type,score,subject") {
		t.Fatalf("unexpected csv content %q", data)
	}
}

func TestCreateExportEveryReport(t *testing.T) {
	for _, report := range []Report{ReportSummary, ReportLeaderboard, ReportLeadConversion, ReportProperty, ReportScores} {
		t.Run(string(report), func(t *testing.T) {
			svc, _, _, _ := newTestService()
			if _, err := svc.Create(context.Background(), CreateExportRequest{Report: string(report)}, uuid.New()); err != nil {
				t.Fatalf("create %s export: %v", report, err)
			}
		})
	}
}

func TestCreateExportFailures(t *testing.T) {
	t.Run("storage disabled", func(t *testing.T) {
		svc := NewService(&stubReports{}, nil, newMemoryStore(), "report-exports", nil)
		_, err := svc.Create(context.Background(), CreateExportRequest{Report: "summary"}, uuid.New())
		if !apperr.Is(err, apperr.KindUnavailable) {
			t.Fatalf("expected unavailable, got %v", err)
		}
	})

	t.Run("unknown report", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.Create(context.Background(), CreateExportRequest{Report: "pdf"}, uuid.New())
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("report error", func(t *testing.T) {
		svc, reports, objects, _ := newTestService()
		reports.err = errors.New("pg: down")
		if _, err := svc.Create(context.Background(), CreateExportRequest{Report: "summary"}, uuid.New()); err == nil {
			t.Fatal("expected error")
		}
		if objects.count() != 0 {
			t.Fatal("expected nothing uploaded")
		}
	})

	t.Run("upload error", func(t *testing.T) {
		svc, _, objects, _ := newTestService()
		objects.uploadErr = errors.New("minio: timeout")
		_, err := svc.Create(context.Background(), CreateExportRequest{Report: "summary"}, uuid.New())
		if !apperr.Is(err, apperr.KindUnavailable) {
			t.Fatalf("expected unavailable, got %v", err)
		}
	})

	t.Run("metadata error removes object", func(t *testing.T) {
		svc, _, objects, store := newTestService()
		store.createErr = errors.New("pg: down")
		if _, err := svc.Create(context.Background(), CreateExportRequest{Report: "summary"}, uuid.New()); err == nil {
			t.Fatal("expected error")
		}
		if objects.count() != 0 {
			t.Fatalf("expected orphaned object to be removed, %d left", objects.count())
		}
	})
}

func TestDownloadAndList(t *testing.T) {
	svc, _, _, _ := newTestService()
	owner := uuid.New()

	created, err := svc.Create(context.Background(), CreateExportRequest{Report: "leaderboard", Limit: 5}, owner)
	if err != nil {
		t.Fatalf("create export: %v", err)
	}

	got, err := svc.Download(context.Background(), created.ID, owner)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if got.Download == nil || got.FileKey != created.FileKey {
		t.Fatalf("unexpected download %+v", got)
	}

	if _, err := svc.Download(context.Background(), created.ID, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected other users to get not found, got %v", err)
	}
	if _, err := svc.Download(context.Background(), uuid.New(), owner); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	list, err := svc.List(context.Background(), owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID || list[0].Download != nil {
		t.Fatalf("unexpected list %+v", list)
	}
}
