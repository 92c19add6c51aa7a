package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/creatorhub/apply-api/pkg/errors"

	"github.com/creatorhub/apply-api/internal/models"
	"github.com/creatorhub/apply-api/internal/validation"
	"github.com/creatorhub/apply-api/pkg/logger"
	"github.com/creatorhub/apply-api/pkg/metrics"
	"github.com/creatorhub/apply-api/pkg/telegram"
	"go.uber.org/zap"
)

// ApplicationService handles creator application submissions:
// validate, format, deliver to the admin chat, then notify the funnel
// bot.
type ApplicationService struct {
	sender    MessageSender
	notifier  Notifier
	target    *telegram.ChatTarget
	validator *validation.Validator
}

// NewApplicationService creates a new application service instance
func NewApplicationService(sender MessageSender, notifier Notifier, target *telegram.ChatTarget) *ApplicationService {
	return &ApplicationService{
		sender:    sender,
		notifier:  notifier,
		target:    target,
		validator: validation.New(),
	}
}

// Submit runs one application through the full flow. A validation
// failure is reported in the response without any network activity; a
// delivery failure is returned as an error; a funnel failure is
// logged and absorbed.
func (s *ApplicationService) Submit(ctx context.Context, form *models.ApplicationForm, photo *models.Attachment) (*models.SubmitResponse, error) {
	form.Normalize()

	if errs := s.validator.Check(form, photo); len(errs) > 0 {
		metrics.ApplicationSubmissions.WithLabelValues("invalid").Inc()
		return &models.SubmitResponse{OK: false, Errors: errs}, nil
	}

	caption := BuildCaption(form)

	if err := s.deliver(ctx, caption, photo); err != nil {
		metrics.ApplicationSubmissions.WithLabelValues("error").Inc()
		logger.Error("Failed to deliver application",
			zap.Error(err),
			zap.String("chat_target", s.target.String()))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrDelivery, err)
	}

	// Best-effort: the submitter's response is already decided
	if err := s.notifier.Notify(ctx, form.FunnelChatID, form.FirstName, form.Phone, form.Email); err != nil {
		logger.Warn("Funnel webhook failed", zap.Error(err))
	}

	metrics.ApplicationSubmissions.WithLabelValues("success").Inc()
	return &models.SubmitResponse{OK: true}, nil
}

// deliver sends the message (with photo when attached) to the current
// chat target. When Telegram reports that the group was upgraded to a
// supergroup, the send is retried once against the new id; on success
// the target is updated for all future deliveries. Migration is
// one-shot per process lifetime, a group only upgrades once.
func (s *ApplicationService) deliver(ctx context.Context, caption string, photo *models.Attachment) error {
	send := func(recipient any) error {
		var err error
		if photo != nil && photo.Filename != "" {
			_, err = s.sender.SendPhoto(ctx, recipient, caption, &telegram.Photo{
				Reader:      photo.Reader,
				Filename:    photo.Filename,
				ContentType: photo.ContentType,
			})
		} else {
			_, err = s.sender.SendMessage(ctx, recipient, caption)
		}
		return err
	}

	err := send(s.target.Recipient())

	var migrated *telegram.ChatMigratedError
	if errors.As(err, &migrated) {
		logger.Info("Chat migrated, retrying delivery",
			zap.Int64("new_chat_id", migrated.NewChatID))
		if err = send(migrated.NewChatID); err == nil {
			s.target.Migrate(migrated.NewChatID)
			metrics.ChatMigrations.Inc()
			logger.Info("Chat target updated after migration",
				zap.Int64("chat_id", migrated.NewChatID))
		}
	}

	return err
}
