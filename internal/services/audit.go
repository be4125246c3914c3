package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// AuditEntry is one recorded business event.
type AuditEntry struct {
	Time   time.Time `json:"time"`
	Action string    `json:"action"`
	Actor  string    `json:"actor"`
	Detail string    `json:"detail"`
}

// AuditLog records business events (signups, logins, endorsements, report
// mutations) as structured log lines and keeps a bounded in-memory ring of
// recent entries for the admin dashboard.
type AuditLog struct {
	log zerolog.Logger

	mu      sync.Mutex
	entries []AuditEntry
	max     int
}

func NewAuditLog(log zerolog.Logger) *AuditLog {
	return &AuditLog{
		log: log.With().Bool("audit", true).Logger(),
		max: 100,
	}
}

// Record logs the event and appends it to the ring.
func (a *AuditLog) Record(_ context.Context, action, actor, detail string) {
	a.log.Info().
		Str("action", action).
		Str("actor", actor).
		Str("detail", detail).
		Msg("audit_event")

	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, AuditEntry{
		Time:   time.Now(),
		Action: action,
		Actor:  actor,
		Detail: detail,
	})
	if len(a.entries) > a.max {
		a.entries = a.entries[len(a.entries)-a.max:]
	}
}

// Recent returns the recorded entries, newest last.
func (a *AuditLog) Recent() []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]AuditEntry, len(a.entries))
	copy(out, a.entries)
	return out
}
