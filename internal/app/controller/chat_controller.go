package controller

import (
	"context"
	"sync"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/ui"
)

const msgChatClearFailed = "Could not clear the conversation"

// ChatController is the chatbot widget. The transcript survives page loads
// and is only emptied by Clear.
type ChatController struct {
	chatService service.ChatService
	notices     *ui.NoticeBoard

	mu         sync.Mutex
	transcript []model.ChatMessage
	typing     bool
}

func NewChatController(chatService service.ChatService, notices *ui.NoticeBoard) *ChatController {
	return &ChatController{
		chatService: chatService,
		notices:     notices,
	}
}

// Open restores the saved transcript
func (ctrl *ChatController) Open(ctx context.Context) ([]model.ChatMessage, error) {
	messages, err := ctrl.chatService.History(ctx)
	if err != nil {
		ctrl.notices.Error(err, "")
		return nil, err
	}
	ctrl.mu.Lock()
	ctrl.transcript = messages
	ctrl.mu.Unlock()
	return messages, nil
}

// Send posts a message and waits for the reply. A failed reply is still
// shown, as a bot message carrying the error text.
func (ctrl *ChatController) Send(ctx context.Context, text string) (*model.ChatMessage, error) {
	ctrl.mu.Lock()
	if ctrl.typing {
		ctrl.mu.Unlock()
		return nil, apperrors.ErrControlBusy
	}
	ctrl.typing = true
	ctrl.mu.Unlock()

	defer func() {
		ctrl.mu.Lock()
		ctrl.typing = false
		ctrl.mu.Unlock()
	}()

	reply, err := ctrl.chatService.Send(ctx, text)
	if reply == nil {
		if err != nil && apperrors.IsValidation(err) {
			ctrl.notices.Error(err, "")
		}
		return nil, err
	}

	if _, loadErr := ctrl.Open(ctx); loadErr != nil {
		return reply, loadErr
	}
	return reply, err
}

// Typing reports whether a reply is pending
func (ctrl *ChatController) Typing() bool {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.typing
}

func (ctrl *ChatController) Transcript() []model.ChatMessage {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	out := make([]model.ChatMessage, len(ctrl.transcript))
	copy(out, ctrl.transcript)
	return out
}

// Clear empties the saved transcript
func (ctrl *ChatController) Clear(ctx context.Context) error {
	if err := ctrl.chatService.Clear(ctx); err != nil {
		ctrl.notices.Error(err, msgChatClearFailed)
		return err
	}
	ctrl.mu.Lock()
	ctrl.transcript = nil
	ctrl.mu.Unlock()
	return nil
}
