package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/creatorhub/apply-api/internal/models"
	apperrors "github.com/creatorhub/apply-api/pkg/errors"
	"github.com/creatorhub/apply-api/pkg/telegram"
)

func testForm() *models.ApplicationForm {
	return &models.ApplicationForm{
		FirstName: "Ali",
		Phone:     "+998901234567",
		Email:     "ali@example.com",
		About:     "I make short cooking videos and want to grow.",
	}
}

func testTarget(t *testing.T) *telegram.ChatTarget {
	t.Helper()
	target, err := telegram.NewChatTarget("@creatorhub_apps")
	require.NoError(t, err)
	return target
}

func TestSubmit_TextOnly(t *testing.T) {
	sender := new(MockMessageSender)
	notifier := new(MockNotifier)
	svc := NewApplicationService(sender, notifier, testTarget(t))

	sender.On("SendMessage", mock.Anything, "@creatorhub_apps", mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "Full name: <b>Ali</b>")
	})).Return(json.RawMessage(`{}`), nil).Once()
	notifier.On("Notify", mock.Anything, "", "Ali", "+998901234567", "ali@example.com").Return(nil).Once()

	resp, err := svc.Submit(context.Background(), testForm(), nil)

	require.NoError(t, err)
	assert.True(t, resp.OK)
	sender.AssertExpectations(t)
	sender.AssertNotCalled(t, "SendPhoto", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertExpectations(t)
}

func TestSubmit_WithPhoto(t *testing.T) {
	sender := new(MockMessageSender)
	notifier := new(MockNotifier)
	svc := NewApplicationService(sender, notifier, testTarget(t))

	sender.On("SendPhoto", mock.Anything, "@creatorhub_apps", mock.Anything,
		mock.MatchedBy(func(p *telegram.Photo) bool {
			return p.Filename == "selfie.jpg" && p.ContentType == "image/jpeg"
		})).Return(json.RawMessage(`{}`), nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	photo := &models.Attachment{
		Reader:      strings.NewReader("jpeg-bytes"),
		Filename:    "selfie.jpg",
		ContentType: "image/jpeg",
		Size:        10,
	}
	resp, err := svc.Submit(context.Background(), testForm(), photo)

	require.NoError(t, err)
	assert.True(t, resp.OK)
	sender.AssertExpectations(t)
	sender.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_ValidationFailureSkipsNetwork(t *testing.T) {
	sender := new(MockMessageSender)
	notifier := new(MockNotifier)
	svc := NewApplicationService(sender, notifier, testTarget(t))

	form := testForm()
	form.Email = "not-an-email"
	form.About = "short"

	resp, err := svc.Submit(context.Background(), form, nil)

	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Errors, "email")
	assert.Contains(t, resp.Errors, "about")
	sender.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
	sender.AssertNotCalled(t, "SendPhoto", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_DeliveryFailure(t *testing.T) {
	sender := new(MockMessageSender)
	notifier := new(MockNotifier)
	svc := NewApplicationService(sender, notifier, testTarget(t))

	sendErr := errors.New("connection refused")
	sender.On("SendMessage", mock.Anything, "@creatorhub_apps", mock.Anything).Return(nil, sendErr).Once()

	resp, err := svc.Submit(context.Background(), testForm(), nil)

	require.ErrorIs(t, err, sendErr)
	assert.ErrorIs(t, err, apperrors.ErrDelivery)
	assert.Nil(t, resp)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_ChatMigrationRetriesOnce(t *testing.T) {
	sender := new(MockMessageSender)
	notifier := new(MockNotifier)
	target := testTarget(t)
	svc := NewApplicationService(sender, notifier, target)

	newChatID := int64(-1009876543210)
	sender.On("SendMessage", mock.Anything, "@creatorhub_apps", mock.Anything).
		Return(nil, &telegram.ChatMigratedError{NewChatID: newChatID}).Once()
	sender.On("SendMessage", mock.Anything, newChatID, mock.Anything).
		Return(json.RawMessage(`{}`), nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Submit(context.Background(), testForm(), nil)

	require.NoError(t, err)
	assert.True(t, resp.OK)
	sender.AssertExpectations(t)

	// Later submissions go straight to the new id
	assert.Equal(t, newChatID, target.Recipient())
	sender.On("SendMessage", mock.Anything, newChatID, mock.Anything).
		Return(json.RawMessage(`{}`), nil).Once()

	resp, err = svc.Submit(context.Background(), testForm(), nil)
	require.NoError(t, err)
	assert.True(t, resp.OK)
	sender.AssertExpectations(t)
}

func TestSubmit_ChatMigrationRetryFails(t *testing.T) {
	sender := new(MockMessageSender)
	notifier := new(MockNotifier)
	target := testTarget(t)
	svc := NewApplicationService(sender, notifier, target)

	newChatID := int64(-1009876543210)
	retryErr := errors.New("still failing")
	sender.On("SendMessage", mock.Anything, "@creatorhub_apps", mock.Anything).
		Return(nil, &telegram.ChatMigratedError{NewChatID: newChatID}).Once()
	sender.On("SendMessage", mock.Anything, newChatID, mock.Anything).
		Return(nil, retryErr).Once()

	resp, err := svc.Submit(context.Background(), testForm(), nil)

	require.ErrorIs(t, err, retryErr)
	assert.Nil(t, resp)
	// The target only moves on a successful retry
	assert.Equal(t, "@creatorhub_apps", target.Recipient())
	sender.AssertExpectations(t)
}

func TestSubmit_FunnelFailureIsAbsorbed(t *testing.T) {
	sender := new(MockMessageSender)
	notifier := new(MockNotifier)
	svc := NewApplicationService(sender, notifier, testTarget(t))

	sender.On("SendMessage", mock.Anything, "@creatorhub_apps", mock.Anything).
		Return(json.RawMessage(`{}`), nil).Once()
	notifier.On("Notify", mock.Anything, "777", "Ali", "+998901234567", "ali@example.com").
		Return(errors.New("funnel down")).Once()

	form := testForm()
	form.FunnelChatID = "777"
	resp, err := svc.Submit(context.Background(), form, nil)

	require.NoError(t, err)
	assert.True(t, resp.OK)
	notifier.AssertExpectations(t)
}

func TestSubmit_NormalizesBeforeValidation(t *testing.T) {
	sender := new(MockMessageSender)
	notifier := new(MockNotifier)
	svc := NewApplicationService(sender, notifier, testTarget(t))

	sender.On("SendMessage", mock.Anything, "@creatorhub_apps", mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "Full name: <b>Ali</b>")
	})).Return(json.RawMessage(`{}`), nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything, "Ali", mock.Anything, mock.Anything).Return(nil)

	form := testForm()
	form.FirstName = "  Ali  "
	form.Email = " ali@example.com "

	resp, err := svc.Submit(context.Background(), form, nil)

	require.NoError(t, err)
	assert.True(t, resp.OK)
	sender.AssertExpectations(t)
}
