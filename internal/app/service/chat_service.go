package service

import (
	"context"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/pkg/logger"
)

const msgChatFailed = "Có lỗi xảy ra, vui lòng thử lại sau."

// TranscriptArchiver keeps a copy of a transcript before it is cleared
type TranscriptArchiver interface {
	Archive(ctx context.Context, messages []model.ChatMessage) (string, error)
}

// ChatService runs the chatbot widget: it records both sides of every
// exchange, errors included, in the persistent transcript.
type ChatService interface {
	History(ctx context.Context) ([]model.ChatMessage, error)
	Send(ctx context.Context, text string) (*model.ChatMessage, error)
	Clear(ctx context.Context) error
}

type chatService struct {
	repo     repository.ChatRepository
	ai       AIService
	archiver TranscriptArchiver
}

// NewChatService creates the chat service. archiver may be nil.
func NewChatService(repo repository.ChatRepository, ai AIService, archiver TranscriptArchiver) ChatService {
	return &chatService{
		repo:     repo,
		ai:       ai,
		archiver: archiver,
	}
}

func (s *chatService) History(ctx context.Context) ([]model.ChatMessage, error) {
	return s.repo.Load(ctx)
}

// Send records the user message, asks the assistant and records the reply.
// On failure the error text is recorded as the bot's message and returned
// alongside the error.
func (s *chatService) Send(ctx context.Context, text string) (*model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Required("message", "Please enter a message")
	}

	if err := s.repo.Append(ctx, model.ChatMessage{From: model.FromUser, Message: text}); err != nil {
		return nil, err
	}

	reply, err := s.ai.Reply(ctx, text)
	if err != nil {
		info := apperrors.UserMessage(err, msgChatFailed)
		msg := model.ChatMessage{From: model.FromBot, Message: info.Message}
		if appendErr := s.repo.Append(ctx, msg); appendErr != nil {
			logger.Warn("Failed to record chat error in transcript", map[string]interface{}{
				"error": appendErr.Error(),
			})
		}
		return &msg, err
	}

	msg := model.ChatMessage{From: model.FromBot, Message: reply}
	if err := s.repo.Append(ctx, msg); err != nil {
		return &msg, err
	}

	logger.Info("Chat reply recorded", map[string]interface{}{
		"question_length": len(text),
		"reply_length":    len(reply),
	})
	return &msg, nil
}

// Clear archives the transcript when an archiver is set, then deletes it.
// A failed archive does not block the clear.
func (s *chatService) Clear(ctx context.Context) error {
	if s.archiver != nil {
		messages, err := s.repo.Load(ctx)
		if err == nil && len(messages) > 0 {
			key, err := s.archiver.Archive(ctx, messages)
			if err != nil {
				logger.Warn("Transcript archive failed", map[string]interface{}{
					"error": err.Error(),
				})
			} else {
				logger.Info("Transcript archived", map[string]interface{}{
					"key":      key,
					"messages": len(messages),
				})
			}
		}
	}
	return s.repo.Clear(ctx)
}
