package services

import (
	"context"
	"encoding/json"

	"github.com/creatorhub/apply-api/internal/models"
	"github.com/creatorhub/apply-api/pkg/telegram"
)

// MessageSender is the slice of the Telegram client the application
// service needs; mocked in tests.
type MessageSender interface {
	SendMessage(ctx context.Context, recipient any, text string) (json.RawMessage, error)
	SendPhoto(ctx context.Context, recipient any, caption string, photo *telegram.Photo) (json.RawMessage, error)
}

// Notifier delivers best-effort submission events to the funnel bot.
type Notifier interface {
	Notify(ctx context.Context, chatID, firstName, phone, email string) error
}

// ApplicationServiceInterface defines the application submission flow.
type ApplicationServiceInterface interface {
	Submit(ctx context.Context, form *models.ApplicationForm, photo *models.Attachment) (*models.SubmitResponse, error)
}
