package inquiry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"rollerstone-site/internal/config"
	"rollerstone-site/internal/notify"
	"rollerstone-site/internal/pricing"
	"rollerstone-site/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrNotFound        = storage.ErrNotFound
	ErrRateLimited     = errors.New("too many inquiries, try again later")
	ErrInvalidContact  = errors.New("invalid phone number")
	ErrInvalidName     = errors.New("name is required")
	ErrInvalidMessage  = errors.New("message is too long")
	ErrInvalidStatus   = errors.New("unknown inquiry status")
	ErrInvalidArea     = errors.New("area is out of range")
	ErrStorageDisabled = errors.New("inquiry storage is not configured")
)

const (
	maxNameLength    = 100
	maxMessageLength = 2000
	notifyTimeout    = 30 * time.Second
)

type Repository interface {
	SaveInquiry(ctx context.Context, inq storage.Inquiry) (int64, error)
	GetInquiry(ctx context.Context, id int64) (*storage.Inquiry, error)
	ListInquiries(ctx context.Context) ([]storage.Inquiry, error)
	UpdateInquiryStatus(ctx context.Context, id int64, status storage.InquiryStatus) error
	GetInquiryStatistics(ctx context.Context) (*storage.InquiryStatistics, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error)
}

type Request struct {
	AreaInput string `json:"area"`
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Message   string `json:"message"`
	ClientIP  string `json:"-"`
}

type Service struct {
	repo     Repository
	limiter  RateLimiter
	notifier notify.Notifier
	quoter   *pricing.Quoter
	cfg      config.InquiryConfig
	logger   *zap.Logger
	now      func() time.Time
	wg       sync.WaitGroup
}

// NewService wires the intake. repo and limiter may be nil when their
// backends are not configured; notifier defaults to notify.Nop.
func NewService(repo Repository, limiter RateLimiter, notifier notify.Notifier, quoter *pricing.Quoter, cfg config.InquiryConfig, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		repo:     repo,
		limiter:  limiter,
		notifier: notifier,
		quoter:   quoter,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Enabled reports whether inquiries can be stored.
func (s *Service) Enabled() bool {
	return s.repo != nil
}

// Submit validates, prices and stores an inquiry, then notifies the admins
// in the background.
func (s *Service) Submit(ctx context.Context, req Request) (*storage.Inquiry, error) {
	const operation = "inquiry.Submit"

	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, ErrInvalidName
	}
	message := strings.TrimSpace(req.Message)
	if utf8.RuneCountInString(message) > maxMessageLength {
		return nil, ErrInvalidMessage
	}
	contact, err := NormalizePhone(req.Contact)
	if err != nil {
		return nil, err
	}
	// Amounts are stored as NUMERIC(12,0).
	if !s.quoter.Config().InRange(pricing.ParseArea(req.AreaInput)) {
		return nil, ErrInvalidArea
	}

	if s.repo == nil {
		return nil, ErrStorageDisabled
	}

	if err := s.checkRateLimit(ctx, req.ClientIP); err != nil {
		return nil, err
	}

	result, _ := s.quoter.Quote(req.AreaInput)
	inq := storage.Inquiry{
		AreaInput:      req.AreaInput,
		Area:           result.Area,
		UnitPrice:      decimal.NewFromInt(result.UnitPrice),
		SubtotalFinal:  yen(result.SubtotalFinal),
		Tax:            yen(result.Tax),
		Total:          yen(result.Total),
		MinimumApplied: result.MinimumApplied,
		Name:           name,
		Contact:        contact,
		Message:        message,
		Status:         storage.StatusNew,
		CreatedAt:      s.now().UTC(),
	}

	id, err := s.repo.SaveInquiry(ctx, inq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	inq.ID = id

	s.logger.Info("Inquiry received",
		zap.Int64("inquiry_id", id),
		zap.Float64("area", inq.Area),
		zap.String("total", inq.Total.String()),
		zap.Bool("minimum_applied", inq.MinimumApplied))

	s.notifyAsync(inq)
	return &inq, nil
}

func (s *Service) checkRateLimit(ctx context.Context, clientIP string) error {
	if s.limiter == nil || clientIP == "" {
		return nil
	}

	allowed, err := s.limiter.Allow(ctx, "ratelimit:inquiry:"+clientIP, s.cfg.RateLimit, s.cfg.RateWindow)
	if err != nil {
		// Fail open when Redis is unavailable.
		s.logger.Warn("Rate limit check failed", zap.String("client_ip", clientIP), zap.Error(err))
		return nil
	}
	if !allowed {
		s.logger.Info("Inquiry rate limited", zap.String("client_ip", clientIP))
		return ErrRateLimited
	}
	return nil
}

func (s *Service) notifyAsync(inq storage.Inquiry) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifier.NotifyInquiry(ctx, inq); err != nil {
			s.logger.Error("Inquiry notification failed",
				zap.Int64("inquiry_id", inq.ID),
				zap.Error(err))
		}
	}()
}

// Wait blocks until pending notifications finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) Get(ctx context.Context, id int64) (*storage.Inquiry, error) {
	if s.repo == nil {
		return nil, ErrStorageDisabled
	}
	return s.repo.GetInquiry(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status storage.InquiryStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if s.repo == nil {
		return ErrStorageDisabled
	}
	if err := s.repo.UpdateInquiryStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.Info("Inquiry status updated",
		zap.Int64("inquiry_id", id),
		zap.String("status", string(status)))
	return nil
}

func (s *Service) Stats(ctx context.Context) (*storage.InquiryStatistics, error) {
	if s.repo == nil {
		return nil, ErrStorageDisabled
	}
	return s.repo.GetInquiryStatistics(ctx)
}

// ExportAll writes every inquiry to w as an xlsx workbook.
func (s *Service) ExportAll(ctx context.Context, w io.Writer) (int, error) {
	if s.repo == nil {
		return 0, ErrStorageDisabled
	}
	inquiries, err := s.repo.ListInquiries(ctx)
	if err != nil {
		return 0, err
	}
	if err := storage.WriteInquiriesXLSX(w, inquiries); err != nil {
		return 0, err
	}
	return len(inquiries), nil
}

func yen(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(0)
}
