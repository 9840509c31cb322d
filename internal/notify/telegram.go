package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rollerstone-site/internal/pricing"
	"rollerstone-site/internal/storage"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier reports new inquiries to the shop's admins.
type Notifier interface {
	NotifyInquiry(ctx context.Context, inq storage.Inquiry) error
}

// Nop drops every notification. Used when no bot token is configured.
type Nop struct{}

func (Nop) NotifyInquiry(context.Context, storage.Inquiry) error { return nil }

// Sender is the part of tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	sender     Sender
	recipients []int64
	maxRetries uint64
	logger     *zap.Logger
}

func NewTelegram(token string, recipients []int64, logger *zap.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify.NewTelegram: %w", err)
	}
	logger.Info("Telegram notifier authorized", zap.String("bot", api.Self.UserName))
	return NewTelegramWithSender(api, recipients, logger), nil
}

func NewTelegramWithSender(sender Sender, recipients []int64, logger *zap.Logger) *Telegram {
	return &Telegram{
		sender:     sender,
		recipients: recipients,
		maxRetries: 3,
		logger:     logger,
	}
}

// NotifyInquiry sends the inquiry summary to every recipient. Each send is
// retried with exponential backoff; the first failure is returned after all
// recipients were tried.
func (t *Telegram) NotifyInquiry(ctx context.Context, inq storage.Inquiry) error {
	text := FormatInquiry(inq)

	var firstErr error
	for _, chatID := range t.recipients {
		if chatID == 0 {
			t.logger.Warn("Skipping notification to zero chat ID")
			continue
		}

		msg := tgbotapi.NewMessage(chatID, text)
		policy := backoff.WithContext(
			backoff.WithMaxRetries(newRetryPolicy(), t.maxRetries), ctx)

		err := backoff.RetryNotify(
			func() error {
				_, err := t.sender.Send(msg)
				return err
			},
			policy,
			func(err error, d time.Duration) {
				t.logger.Warn("Telegram send failed, retrying...",
					zap.Int64("chat_id", chatID),
					zap.Error(err),
					zap.Duration("next_attempt_in", d))
			},
		)
		if err != nil {
			t.logger.Error("Failed to send inquiry notification",
				zap.Int64("chat_id", chatID),
				zap.Int64("inquiry_id", inq.ID),
				zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("notify chat %d: %w", chatID, err)
			}
		}
	}
	return firstErr
}

func newRetryPolicy() *backoff.ExponentialBackOff {
	p := backoff.NewExponentialBackOff()
	p.InitialInterval = 200 * time.Millisecond
	p.MaxInterval = 2 * time.Second
	p.MaxElapsedTime = 10 * time.Second
	return p
}

// FormatInquiry renders the admin message for an inquiry.
func FormatInquiry(inq storage.Inquiry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📩 新規お問い合わせ #%d\n", inq.ID)
	fmt.Fprintf(&b, "お名前: %s\n", inq.Name)
	fmt.Fprintf(&b, "電話番号: %s\n", inq.Contact)
	fmt.Fprintf(&b, "面積: %s㎡\n", strings.TrimSpace(inq.AreaInput))
	fmt.Fprintf(&b, "単価: %s/㎡\n", pricing.FormatYen(inq.UnitPrice.InexactFloat64()))
	fmt.Fprintf(&b, "合計: %s (税込)\n", pricing.FormatYen(inq.Total.InexactFloat64()))
	if inq.MinimumApplied {
		b.WriteString("※最低施工料金適用\n")
	}
	if inq.Message != "" {
		fmt.Fprintf(&b, "メッセージ: %s\n", inq.Message)
	}
	fmt.Fprintf(&b, "受付: %s", inq.CreatedAt.Format("2006-01-02 15:04"))
	return b.String()
}
