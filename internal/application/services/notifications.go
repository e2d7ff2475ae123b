package services

import (
	"sync"
	"time"

	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	"github.com/fahmidurshanto/custom-cms/pkg/utils"
)

// maxNotifications bounds the toast stack; the oldest are dropped first.
const maxNotifications = 5

// Notification is a dismissible message shown above every page.
type Notification struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifications is a session's toast stack. Safe for concurrent use.
type Notifications struct {
	items []Notification
	mu    sync.Mutex
}

func NewNotifications() *Notifications {
	return &Notifications{}
}

// Push appends a notification and returns it.
func (n *Notifications) Push(level, message string) Notification {
	note := Notification{
		ID:        utils.NewID(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, note)
	if len(n.items) > maxNotifications {
		n.items = n.items[len(n.items)-maxNotifications:]
	}
	return note
}

func (n *Notifications) Success(message string) Notification {
	return n.Push(constants.NotificationSuccess, message)
}

func (n *Notifications) Error(message string) Notification {
	return n.Push(constants.NotificationError, message)
}

// Dismiss removes a notification; false when it was already gone.
func (n *Notifications) Dismiss(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, note := range n.items {
		if note.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the current notifications, oldest first.
func (n *Notifications) List() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.items))
	copy(out, n.items)
	return out
}
