package inquiry

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rollerstone-site/internal/config"
	"rollerstone-site/internal/pricing"
	"rollerstone-site/internal/storage"

	"go.uber.org/zap"
)

type memRepo struct {
	mu        sync.Mutex
	inquiries map[int64]storage.Inquiry
	nextID    int64
	saveErr   error
}

func newMemRepo() *memRepo {
	return &memRepo{inquiries: make(map[int64]storage.Inquiry)}
}

func (r *memRepo) SaveInquiry(_ context.Context, inq storage.Inquiry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return 0, r.saveErr
	}
	r.nextID++
	inq.ID = r.nextID
	r.inquiries[inq.ID] = inq
	return inq.ID, nil
}

func (r *memRepo) GetInquiry(_ context.Context, id int64) (*storage.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inq, ok := r.inquiries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &inq, nil
}

func (r *memRepo) ListInquiries(_ context.Context) ([]storage.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []storage.Inquiry
	for id := int64(1); id <= r.nextID; id++ {
		if inq, ok := r.inquiries[id]; ok {
			out = append(out, inq)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateInquiryStatus(_ context.Context, id int64, status storage.InquiryStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inq, ok := r.inquiries[id]
	if !ok {
		return storage.ErrNotFound
	}
	inq.Status = status
	r.inquiries[id] = inq
	return nil
}

func (r *memRepo) GetInquiryStatistics(_ context.Context) (*storage.InquiryStatistics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &storage.InquiryStatistics{StatusCounts: make(map[string]int)}
	for _, inq := range r.inquiries {
		stats.Total.Count++
		stats.Total.Amount = stats.Total.Amount.Add(inq.Total)
		stats.StatusCounts[string(inq.Status)]++
	}
	return stats, nil
}

type countingLimiter struct {
	counts map[string]int64
	err    error
}

func (l *countingLimiter) Allow(_ context.Context, key string, limit int64, _ time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.counts[key]++
	return l.counts[key] <= limit, nil
}

type recordingNotifier struct {
	mu  sync.Mutex
	ids []int64
}

func (n *recordingNotifier) NotifyInquiry(_ context.Context, inq storage.Inquiry) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, inq.ID)
	return errors.New("notification failures are only logged")
}

func newTestService(repo Repository, limiter RateLimiter, notifier *recordingNotifier) *Service {
	cfg := config.InquiryConfig{RateLimit: 2, RateWindow: time.Hour}
	svc := NewService(repo, limiter, notifier, pricing.NewQuoter(pricing.NewDefaultPricing(), 16), cfg, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func validRequest() Request {
	return Request{AreaInput: "20", Name: " 山田 太郎 ", Contact: "090 1234 5678", ClientIP: "203.0.113.9"}
}

func TestSubmit(t *testing.T) {
	repo := newMemRepo()
	notifier := &recordingNotifier{}
	svc := newTestService(repo, nil, notifier)

	inq, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	svc.Wait()

	if inq.ID != 1 || inq.Name != "山田 太郎" || inq.Contact != "090-1234-5678" || inq.Status != storage.StatusNew {
		t.Errorf("unexpected inquiry: %+v", inq)
	}
	if inq.UnitPrice.IntPart() != 10500 || inq.Tax.IntPart() != 21000 || inq.Total.IntPart() != 231000 || inq.MinimumApplied {
		t.Errorf("unexpected pricing: unit=%s tax=%s total=%s", inq.UnitPrice, inq.Tax, inq.Total)
	}
	if len(notifier.ids) != 1 || notifier.ids[0] != 1 {
		t.Errorf("notified %v, want [1]", notifier.ids)
	}
}

func TestSubmit_MinimumFloor(t *testing.T) {
	svc := newTestService(newMemRepo(), nil, &recordingNotifier{})

	req := validRequest()
	req.AreaInput = "abc"
	inq, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	svc.Wait()

	if !inq.MinimumApplied || inq.SubtotalFinal.IntPart() != 115900 || inq.Total.IntPart() != 127490 {
		t.Errorf("unexpected pricing: %+v", inq)
	}
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"missing name", func(r *Request) { r.Name = "  " }, ErrInvalidName},
		{"bad phone", func(r *Request) { r.Contact = "12345" }, ErrInvalidContact},
		{"long message", func(r *Request) { r.Message = string(bytes.Repeat([]byte("a"), maxMessageLength+1)) }, ErrInvalidMessage},
		{"area above the cap", func(r *Request) { r.AreaInput = "1000001" }, ErrInvalidArea},
		{"area near the float limit", func(r *Request) { r.AreaInput = "1e308" }, ErrInvalidArea},
		{"negative area above the cap", func(r *Request) { r.AreaInput = "-2e6" }, ErrInvalidArea},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newMemRepo(), nil, &recordingNotifier{})
			req := validRequest()
			tt.mutate(&req)
			if _, err := svc.Submit(context.Background(), req); !errors.Is(err, tt.wantErr) {
				t.Errorf("Submit error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmit_LargestArea(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, nil, &recordingNotifier{})

	req := validRequest()
	req.AreaInput = "1000000"
	inq, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	svc.Wait()

	// Must fit NUMERIC(12,0).
	if inq.Total.IntPart() != 10120000000 || len(inq.Total.String()) > 12 {
		t.Errorf("unexpected total %s", inq.Total)
	}
}

func TestSubmit_RateLimited(t *testing.T) {
	limiter := &countingLimiter{counts: make(map[string]int64)}
	svc := newTestService(newMemRepo(), limiter, &recordingNotifier{})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Submit(ctx, validRequest()); err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
	}
	if _, err := svc.Submit(ctx, validRequest()); !errors.Is(err, ErrRateLimited) {
		t.Errorf("third Submit error = %v, want ErrRateLimited", err)
	}
	svc.Wait()

	if limiter.counts["ratelimit:inquiry:203.0.113.9"] != 3 {
		t.Errorf("unexpected limiter keys: %v", limiter.counts)
	}
}

func TestSubmit_LimiterFailureAllows(t *testing.T) {
	limiter := &countingLimiter{err: errors.New("redis down")}
	svc := newTestService(newMemRepo(), limiter, &recordingNotifier{})

	if _, err := svc.Submit(context.Background(), validRequest()); err != nil {
		t.Errorf("Submit failed: %v", err)
	}
	svc.Wait()
}

func TestSubmit_SaveError(t *testing.T) {
	repo := newMemRepo()
	repo.saveErr = errors.New("connection reset")
	notifier := &recordingNotifier{}
	svc := newTestService(repo, nil, notifier)

	if _, err := svc.Submit(context.Background(), validRequest()); err == nil {
		t.Fatal("expected error, got nil")
	}
	svc.Wait()
	if len(notifier.ids) != 0 {
		t.Error("failed inquiries must not be notified")
	}
}

func TestStorageDisabled(t *testing.T) {
	svc := newTestService(nil, nil, &recordingNotifier{})
	ctx := context.Background()

	if svc.Enabled() {
		t.Error("service without repository should be disabled")
	}
	if _, err := svc.Submit(ctx, validRequest()); !errors.Is(err, ErrStorageDisabled) {
		t.Errorf("Submit error = %v", err)
	}
	if _, err := svc.Get(ctx, 1); !errors.Is(err, ErrStorageDisabled) {
		t.Errorf("Get error = %v", err)
	}
	if _, err := svc.Stats(ctx); !errors.Is(err, ErrStorageDisabled) {
		t.Errorf("Stats error = %v", err)
	}
	if _, err := svc.ExportAll(ctx, &bytes.Buffer{}); !errors.Is(err, ErrStorageDisabled) {
		t.Errorf("ExportAll error = %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, nil, &recordingNotifier{})
	ctx := context.Background()

	inq, err := svc.Submit(ctx, validRequest())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	svc.Wait()

	if err := svc.UpdateStatus(ctx, inq.ID, storage.StatusContacted); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	got, err := svc.Get(ctx, inq.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != storage.StatusContacted {
		t.Errorf("status = %q, want contacted", got.Status)
	}

	if err := svc.UpdateStatus(ctx, inq.ID, "paid"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("UpdateStatus error = %v, want ErrInvalidStatus", err)
	}
	if err := svc.UpdateStatus(ctx, 99, storage.StatusClosed); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus error = %v, want ErrNotFound", err)
	}
}

func TestStatsAndExport(t *testing.T) {
	svc := newTestService(newMemRepo(), nil, &recordingNotifier{})
	ctx := context.Background()

	for _, area := range []string{"20", "5"} {
		req := validRequest()
		req.AreaInput = area
		if _, err := svc.Submit(ctx, req); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	svc.Wait()

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total.Count != 2 || stats.Total.Amount.IntPart() != 231000+127490 {
		t.Errorf("unexpected stats: %+v", stats.Total)
	}

	var buf bytes.Buffer
	n, err := svc.ExportAll(ctx, &buf)
	if err != nil {
		t.Fatalf("ExportAll failed: %v", err)
	}
	if n != 2 || buf.Len() == 0 {
		t.Errorf("exported %d rows, %d bytes", n, buf.Len())
	}
}
