package controllers

import (
	"context"

	"attendbot/commands"
	"attendbot/errors"
	"attendbot/messenger"
	"attendbot/services/logger"
)

// BotController nhận tin nhắn chat, phân loại và chạy command tương ứng
type BotController struct {
	classifier *commands.Classifier
	deps       commands.Deps
	logger     logger.Logger
}

func NewBotController(classifier *commands.Classifier, deps commands.Deps, l logger.Logger) *BotController {
	if l == nil {
		l = logger.NopLogger{}
	}
	return &BotController{classifier: classifier, deps: deps, logger: l}
}

// Handle trả về câu trả lời; tin nhắn không nhận ra thì bot im lặng
func (b *BotController) Handle(ctx context.Context, upd messenger.Update) string {
	intent := b.classifier.Classify(upd.Text)
	cmd := commands.New(intent, b.deps, upd)
	if cmd == nil {
		return ""
	}

	reply, err := cmd.Execute(ctx)
	if err != nil {
		if errors.CodeOf(err) == errors.ErrCodeStoreUnavailable || !errors.IsAppError(err) {
			b.logger.Error("%s user=%d: %v", intent.Kind, upd.UserID, err)
		} else {
			b.logger.Info("%s user=%d rejected: %v", intent.Kind, upd.UserID, err)
		}
	}
	return reply
}
