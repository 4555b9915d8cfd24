package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftRepository holds unsent chat drafts and small per-user UI preferences
// (theme, install-prompt snooze). It lives in Redis rather than the primary
// database: drafts are scratch state with a bounded lifetime, not documents.
type DraftRepository interface {
	SaveDraft(ctx context.Context, uid, conversationID, text string) error
	LoadDraft(ctx context.Context, uid, conversationID string) (string, error)
	SavePreference(ctx context.Context, uid, key, value string) error
	LoadPreference(ctx context.Context, uid, key string) (string, error)
}

type redisDraftRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDraftRepository(rdb *redis.Client, ttl time.Duration) DraftRepository {
	return &redisDraftRepository{rdb: rdb, ttl: ttl}
}

func draftKey(uid, conversationID string) string {
	return fmt.Sprintf("draft:%s:%s", uid, conversationID)
}

func prefKey(uid, key string) string {
	return fmt.Sprintf("pref:%s:%s", uid, key)
}

// SaveDraft with empty text clears the stored draft instead of storing "".
func (r *redisDraftRepository) SaveDraft(ctx context.Context, uid, conversationID, text string) error {
	key := draftKey(uid, conversationID)
	if text == "" {
		return r.rdb.Del(ctx, key).Err()
	}
	return r.rdb.Set(ctx, key, text, r.ttl).Err()
}

func (r *redisDraftRepository) LoadDraft(ctx context.Context, uid, conversationID string) (string, error) {
	val, err := r.rdb.Get(ctx, draftKey(uid, conversationID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *redisDraftRepository) SavePreference(ctx context.Context, uid, key, value string) error {
	k := prefKey(uid, key)
	if value == "" {
		return r.rdb.Del(ctx, k).Err()
	}
	return r.rdb.Set(ctx, k, value, 0).Err()
}

func (r *redisDraftRepository) LoadPreference(ctx context.Context, uid, key string) (string, error) {
	val, err := r.rdb.Get(ctx, prefKey(uid, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
