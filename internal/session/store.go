package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mei-storefront/internal/apperr"
	"mei-storefront/internal/auth"
	"mei-storefront/internal/logger"
	"mei-storefront/internal/storage"

	"go.uber.org/zap"
)

type Store struct {
	kv  storage.KV
	now func() time.Time
}

func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

func absent() error {
	return apperr.Wrap(apperr.Auth("please sign in"), ErrAbsent)
}

// Load reads the session back. Anything short of a complete, unexpired
// identity is reported as ErrAbsent (kind AUTH), read failures included.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "session"), zap.String("method", "Load"))

	userID, err := s.read(ctx, KeyUserID)
	if err != nil {
		log.Warn("failed to read user id", zap.Error(err))
		return nil, absent()
	}
	rawToken, err := s.read(ctx, KeyToken)
	if err != nil {
		log.Warn("failed to read token", zap.Error(err))
		return nil, absent()
	}

	userID = strings.TrimSpace(userID)
	token := auth.NormalizeToken(rawToken)
	if blank(userID) || blank(token) {
		return nil, absent()
	}
	if auth.Expired(token, s.now()) {
		log.Info("stored token expired", zap.String("user_id", userID))
		return nil, absent()
	}

	sess := &Session{UserID: userID, Token: token}

	blob, err := s.read(ctx, KeyProfile)
	if err != nil {
		log.Warn("failed to read profile", zap.Error(err))
		return sess, nil
	}
	if blob != "" {
		if err := json.Unmarshal([]byte(blob), &sess.Profile); err != nil {
			log.Warn("discarding unreadable profile", zap.Error(err))
			sess.Profile = Profile{}
		}
	}
	return sess, nil
}

// Save writes all three keys in one batch; nothing is written if the profile
// cannot be encoded or the batch fails.
func (s *Store) Save(ctx context.Context, sess Session) error {
	log := logger.FromCtx(ctx).With(zap.String("layer", "session"), zap.String("method", "Save"))

	sess.UserID = strings.TrimSpace(sess.UserID)
	sess.Token = auth.NormalizeToken(sess.Token)
	if sess.UserID == "" || sess.Token == "" {
		return apperr.Wrap(apperr.Auth("login response missing identity"), ErrIncomplete)
	}

	blob, err := json.Marshal(sess.Profile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	err = s.kv.SetMany(ctx, map[string]string{
		KeyUserID:  sess.UserID,
		KeyToken:   sess.Token,
		KeyProfile: string(blob),
	})
	if err != nil {
		log.Error("failed to persist session", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	log.Info("session saved", zap.String("user_id", sess.UserID))
	return nil
}

// Clear removes every session key. Safe to call without a session.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, allKeys...); err != nil {
		logger.FromCtx(ctx).Error("failed to clear session", zap.String("layer", "session"), zap.Error(err))
		return err
	}
	return nil
}

// UpdateProfile rewrites only the cached profile.
func (s *Store) UpdateProfile(ctx context.Context, p Profile) error {
	blob, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	if err := s.kv.Set(ctx, KeyProfile, string(blob)); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

func (s *Store) read(ctx context.Context, key string) (string, error) {
	v, _, err := s.kv.Get(ctx, key)
	return v, err
}
