package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ChatTarget is the destination chat for deliveries: either a public
// @handle or a numeric id. It is shared by all requests in the
// process; Migrate permanently switches it to a new numeric id after
// a group-to-supergroup upgrade. The value is guarded so concurrent
// submissions see a consistent target.
type ChatTarget struct {
	mu     sync.RWMutex
	handle string // "@groupusername", empty when numeric
	id     int64
}

// NewChatTarget parses a configured chat identifier: a leading "@"
// means a public handle, anything else must be a numeric id.
func NewChatTarget(raw string) (*ChatTarget, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "@") {
		return &ChatTarget{handle: s}, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("chat id must be an @handle or numeric: %q", raw)
	}
	return &ChatTarget{id: id}, nil
}

// Recipient returns the chat_id value as the Bot API expects it: the
// @handle string, or the numeric id.
func (t *ChatTarget) Recipient() any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.handle != "" {
		return t.handle
	}
	return t.id
}

// Migrate switches the target to the supergroup id reported by the
// platform. Idempotent; a concurrent duplicate write stores the same
// value.
func (t *ChatTarget) Migrate(newID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handle = ""
	t.id = newID
}

// String renders the current target for logs.
func (t *ChatTarget) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.handle != "" {
		return t.handle
	}
	return strconv.FormatInt(t.id, 10)
}
