package user

import (
	"context"
	"fmt"
	"strings"

	"mei-storefront/internal/apperr"
	"mei-storefront/internal/logger"
	"mei-storefront/internal/session"
	"mei-storefront/internal/validate"

	"go.uber.org/zap"
)

// SessionStore is the part of session.Store the account flows need.
type SessionStore interface {
	Save(ctx context.Context, sess session.Session) error
	Clear(ctx context.Context) error
	UpdateProfile(ctx context.Context, p session.Profile) error
}

type Service interface {
	Login(ctx context.Context, email, password string) (*session.Session, error)
	Register(ctx context.Context, in RegisterInput) error
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, sess *session.Session, u ProfileUpdate) (*session.Profile, error)
	ChangePassword(ctx context.Context, sess *session.Session, in PasswordChange) error
}

type service struct {
	repo     Repository
	sessions SessionStore
}

func NewService(repo Repository, sessions SessionStore) Service {
	return &service{repo: repo, sessions: sessions}
}

func requireSession(sess *session.Session) error {
	if !sess.Valid() {
		return apperr.Wrap(apperr.Auth("please sign in again"), session.ErrAbsent)
	}
	return nil
}

// Login authenticates and persists the session. The password is never
// stored.
func (s *service) Login(ctx context.Context, email, password string) (*session.Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	creds := Credentials{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: strings.TrimSpace(password),
	}
	if err := validate.Struct(creds); err != nil {
		return nil, err
	}

	res, err := s.repo.Login(ctx, creds)
	if apperr.IsKind(err, apperr.KindAuth) {
		log.Info("login rejected", zap.String("email", creds.Email))
		return nil, apperr.Wrap(apperr.Auth(ErrInvalidCredentials.Error()), ErrInvalidCredentials)
	}
	if err != nil {
		log.Error("login request failed", zap.Error(err))
		return nil, err
	}

	if strings.TrimSpace(res.Token) == "" || res.ID == "" {
		log.Error("login response missing identity", zap.Bool("has_token", res.Token != ""), zap.Bool("has_id", res.ID != ""))
		return nil, apperr.Wrap(apperr.Auth("invalid account data from server"), ErrIncompleteLogin)
	}

	sess := session.Session{
		UserID:  string(res.ID),
		Token:   res.Token,
		Profile: profileFrom(res.Account, creds.Email),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	log.Info("login succeeded", zap.String("user_id", sess.UserID))
	return &sess, nil
}

func (s *service) Register(ctx context.Context, in RegisterInput) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	in = in.normalized()
	if err := validate.Struct(in); err != nil {
		return err
	}

	err := s.repo.Register(ctx, RegisterPayload{
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: in.Password,
	})
	if apperr.IsKind(err, apperr.KindConflict) {
		return fmt.Errorf("%w: %w", ErrEmailExists, err)
	}
	if err != nil {
		log.Error("failed to register", zap.String("email", in.Email), zap.Error(err))
		return err
	}

	log.Info("register completed", zap.String("email", in.Email))
	return nil
}

func (s *service) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// UpdateProfile sends the non-empty fields of u and refreshes the cached
// profile. A failed cache write is logged; the server update stands.
func (s *service) UpdateProfile(ctx context.Context, sess *session.Session, u ProfileUpdate) (*session.Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProfile"),
	)

	if err := requireSession(sess); err != nil {
		return nil, err
	}

	u = ProfileUpdate{
		FullName: strings.TrimSpace(u.FullName),
		Email:    strings.ToLower(strings.TrimSpace(u.Email)),
		Phone:    strings.TrimSpace(u.Phone),
		Avatar:   strings.TrimSpace(u.Avatar),
	}
	if u == (ProfileUpdate{}) {
		return nil, apperr.Wrap(apperr.Validation("nothing to update", nil), ErrNothingToUpdate)
	}
	if err := validate.Struct(u); err != nil {
		return nil, err
	}

	acc, err := s.repo.Update(ctx, sess.Token, sess.UserID, UpdateRequest{
		FullName: u.FullName,
		Email:    u.Email,
		Phone:    u.Phone,
		Avatar:   u.Avatar,
	})
	if err != nil {
		log.Error("failed to update profile", zap.Error(err))
		return nil, err
	}

	p := merge(sess.Profile, u)
	if acc != nil && acc.ID != "" {
		p = profileFrom(*acc, p.Email)
	}
	if err := s.sessions.UpdateProfile(ctx, p); err != nil {
		log.Warn("profile updated but cache write failed", zap.Error(err))
	}
	sess.Profile = p
	return &p, nil
}

// ChangePassword verifies the current password with the backend by signing
// in again, then sets the new one.
func (s *service) ChangePassword(ctx context.Context, sess *session.Session, in PasswordChange) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ChangePassword"),
	)

	in.Current = strings.TrimSpace(in.Current)
	in.New = strings.TrimSpace(in.New)
	in.Confirm = strings.TrimSpace(in.Confirm)
	if err := validate.Struct(in); err != nil {
		return err
	}

	if err := requireSession(sess); err != nil {
		return err
	}
	if sess.Profile.Email == "" {
		return apperr.Wrap(apperr.Auth("please sign in again"), session.ErrIncomplete)
	}

	_, err := s.repo.Login(ctx, Credentials{Email: sess.Profile.Email, Password: in.Current})
	if apperr.IsKind(err, apperr.KindAuth) {
		return apperr.Wrap(apperr.Validation(ErrWrongPassword.Error(), map[string]string{"current": "is incorrect"}), ErrWrongPassword)
	}
	if err != nil {
		log.Error("failed to verify current password", zap.Error(err))
		return err
	}

	if _, err := s.repo.Update(ctx, sess.Token, sess.UserID, UpdateRequest{Password: in.New}); err != nil {
		log.Error("failed to update password", zap.Error(err))
		return err
	}

	log.Info("password changed", zap.String("user_id", sess.UserID))
	return nil
}
