package messenger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"attendbot/services/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const pollTimeoutSeconds = 60

// TelegramBot nhận tin nhắn bằng long polling và gửi trả lời
var _ Sender = (*TelegramBot)(nil)

type TelegramBot struct {
	api            *tgbotapi.BotAPI
	logger         logger.Logger
	handlerTimeout time.Duration
}

type TelegramOptions struct {
	Token          string
	Debug          bool
	Logger         logger.Logger
	HandlerTimeout time.Duration
}

func NewTelegramBot(opts TelegramOptions) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(opts.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	api.Debug = opts.Debug
	l := opts.Logger
	if l == nil {
		l = logger.NopLogger{}
	}
	timeout := opts.HandlerTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	l.Info("Authorized on telegram account %s", api.Self.UserName)
	return &TelegramBot{api: api, logger: l, handlerTimeout: timeout}, nil
}

func (b *TelegramBot) Send(_ context.Context, chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// Run đọc update cho tới khi ctx bị hủy; mỗi update xử lý trong goroutine riêng
func (b *TelegramBot) Run(ctx context.Context, handle Handler) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case raw, ok := <-updates:
			if !ok {
				return nil
			}
			upd, ok := FromTelegram(raw)
			if !ok {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.dispatch(ctx, upd, handle)
			}()
		}
	}
}

func (b *TelegramBot) dispatch(ctx context.Context, upd Update, handle Handler) {
	ctx, cancel := context.WithTimeout(ctx, b.handlerTimeout)
	defer cancel()

	reply := handle(ctx, upd)
	if reply == "" {
		return
	}
	if err := b.Send(ctx, upd.ChatID, reply); err != nil {
		b.logger.Error("send reply chat=%d: %v", upd.ChatID, err)
	}
}

// FromTelegram chuyển update của Telegram sang Update; bỏ qua update không phải tin nhắn văn bản
func FromTelegram(raw tgbotapi.Update) (Update, bool) {
	msg := raw.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || strings.TrimSpace(msg.Text) == "" {
		return Update{}, false
	}
	name := strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
	if name == "" {
		name = msg.From.UserName
	}
	return Update{
		UserID:   msg.From.ID,
		UserName: name,
		Text:     msg.Text,
		SentAt:   time.Unix(int64(msg.Date), 0),
		ChatID:   msg.Chat.ID,
	}, true
}
