package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/grievance-redressal/student-portal/internal/core/domain"
)

const defaultSessionTTL = 30 * 24 * time.Hour

// SessionRepository is durable session storage backed by Redis.
// Key format: session:<sid>:token / session:<sid>:user for the credential and
// the serialized profile, session:<sid>:theme / session:<sid>:accent for the
// UI preferences. The four keys are written independently; there is no
// transactional coupling between them.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository creates a SessionRepository wrapping the given client.
// If ttl <= 0, defaultSessionTTL is used.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) SaveToken(ctx context.Context, sid, token string) error {
	if err := r.client.Set(ctx, r.key(sid, "token"), token, r.ttl).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (r *SessionRepository) SaveProfile(ctx context.Context, sid string, profile *domain.StudentProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := r.client.Set(ctx, r.key(sid, "user"), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Token returns "" when the session holds no credential.
func (r *SessionRepository) Token(ctx context.Context, sid string) (string, error) {
	token, err := r.client.Get(ctx, r.key(sid, "token")).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

// Profile returns nil when no profile is cached for the session.
func (r *SessionRepository) Profile(ctx context.Context, sid string) (*domain.StudentProfile, error) {
	raw, err := r.client.Get(ctx, r.key(sid, "user")).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var profile domain.StudentProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &profile, nil
}

// Clear removes the credential and cached profile. Preference keys survive a
// logout, matching how the portal keeps the chosen theme across sessions.
func (r *SessionRepository) Clear(ctx context.Context, sid string) error {
	if err := r.client.Del(ctx, r.key(sid, "token"), r.key(sid, "user")).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Preferences(ctx context.Context, sid string) (domain.Preferences, error) {
	prefs := domain.DefaultPreferences()

	theme, err := r.client.Get(ctx, r.key(sid, "theme")).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return prefs, fmt.Errorf("read theme: %w", err)
	}
	if theme != "" {
		prefs.Theme = theme
	}

	accent, err := r.client.Get(ctx, r.key(sid, "accent")).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return prefs, fmt.Errorf("read accent: %w", err)
	}
	if accent != "" {
		prefs.Accent = accent
	}

	return prefs, nil
}

func (r *SessionRepository) SavePreferences(ctx context.Context, sid string, prefs domain.Preferences) error {
	if err := r.client.Set(ctx, r.key(sid, "theme"), prefs.Theme, r.ttl).Err(); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	if err := r.client.Set(ctx, r.key(sid, "accent"), prefs.Accent, r.ttl).Err(); err != nil {
		return fmt.Errorf("save accent: %w", err)
	}
	return nil
}

func (r *SessionRepository) key(sid, field string) string {
	return fmt.Sprintf("session:%s:%s", sid, field)
}
