package services

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/creatorhub/apply-api/pkg/telegram"
)

type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) SendMessage(ctx context.Context, recipient any, text string) (json.RawMessage, error) {
	args := m.Called(ctx, recipient, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockMessageSender) SendPhoto(ctx context.Context, recipient any, caption string, photo *telegram.Photo) (json.RawMessage, error) {
	args := m.Called(ctx, recipient, caption, photo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, chatID, firstName, phone, email string) error {
	args := m.Called(ctx, chatID, firstName, phone, email)
	return args.Error(0)
}
