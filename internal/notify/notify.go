// Package notify implements the dashboard's single transient status region.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Severity of a status message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// DefaultTTL is how long a message stays visible unless dismissed.
const DefaultTTL = 5 * time.Second

const currentKey = "status"

var alertClasses = map[Severity]string{
	SeveritySuccess: "alert-success",
	SeverityDanger:  "alert-danger",
	SeverityWarning: "alert-warning",
	SeverityInfo:    "alert-info",
}

var icons = map[Severity]string{
	SeveritySuccess: "fas fa-check-circle",
	SeverityDanger:  "fas fa-exclamation-triangle",
	SeverityWarning: "fas fa-exclamation-circle",
	SeverityInfo:    "fas fa-info-circle",
}

// ParseSeverity maps a string to a Severity; unknown values become info.
func ParseSeverity(s string) Severity {
	sev := Severity(s)
	if _, ok := alertClasses[sev]; ok {
		return sev
	}
	return SeverityInfo
}

// AlertClass returns the visual class for the severity.
func (s Severity) AlertClass() string {
	if c, ok := alertClasses[s]; ok {
		return c
	}
	return alertClasses[SeverityInfo]
}

// Icon returns the icon class for the severity.
func (s Severity) Icon() string {
	if i, ok := icons[s]; ok {
		return i
	}
	return icons[SeverityInfo]
}

// Message is a single status message.
type Message struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Text      string    `json:"text"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AlertClass returns the message's visual class.
func (m Message) AlertClass() string { return m.Severity.AlertClass() }

// Icon returns the message's icon class.
func (m Message) Icon() string { return m.Severity.Icon() }

// Board holds at most one live message. Showing a message replaces the
// previous one; there is no queue.
type Board struct {
	mu    sync.Mutex
	items *cache.Cache
	ttl   time.Duration
	now   func() time.Time

	onShow func(Severity)
}

// NewBoard creates a board whose messages expire after ttl.
func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Board{
		items: cache.New(ttl, 2*ttl),
		ttl:   ttl,
		now:   time.Now,
	}
}

// OnShow registers a hook called for every shown message.
func (b *Board) OnShow(fn func(Severity)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onShow = fn
}

// Show replaces the current message and returns the new one.
func (b *Board) Show(sev Severity, text string) Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	msg := Message{
		ID:        uuid.NewString(),
		Severity:  ParseSeverity(string(sev)),
		Text:      text,
		IssuedAt:  now,
		ExpiresAt: now.Add(b.ttl),
	}
	b.items.Set(currentKey, msg, b.ttl)

	if b.onShow != nil {
		b.onShow(msg.Severity)
	}
	return msg
}

// Current returns the live message, if any.
func (b *Board) Current() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.items.Get(currentKey)
	if !ok {
		return Message{}, false
	}
	return v.(Message), true
}

// Dismiss removes the message with the given id. A stale id (the message
// was already replaced or expired) is a no-op and returns false.
func (b *Board) Dismiss(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.items.Get(currentKey)
	if !ok || v.(Message).ID != id {
		return false
	}
	b.items.Delete(currentKey)
	return true
}
