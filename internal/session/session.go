// Package session stores plans between requests so the web editor can save
// work and pick it up later, possibly from another replica.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/haschdl/casa-finan/internal/config"
)

// ErrNotFound reports that no session exists under the requested ID.
var ErrNotFound = errors.New("session not found")

// Session is one saved plan.
type Session struct {
	ID        string      `json:"id"`
	Plan      config.Plan `json:"plan"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Store persists sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}
