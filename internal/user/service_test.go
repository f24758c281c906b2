package user

import (
	"context"
	"errors"
	"testing"

	"mei-storefront/internal/apperr"
	"mei-storefront/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Login(ctx context.Context, c Credentials) (*LoginResult, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LoginResult), args.Error(1)
}

func (m *MockRepository) Register(ctx context.Context, p RegisterPayload) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) Update(ctx context.Context, token, userID string, req UpdateRequest) (*Account, error) {
	args := m.Called(ctx, token, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Save(ctx context.Context, sess session.Session) error {
	return m.Called(ctx, sess).Error(0)
}

func (m *MockSessionStore) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSessionStore) UpdateProfile(ctx context.Context, p session.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	creds := Credentials{Email: "mei@example.com", Password: "secret1"}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		store := new(MockSessionStore)
		repo.On("Login", ctx, creds).Return(&LoginResult{
			Account: Account{ID: "42", FullName: "Mei Tran"},
			Token:   `"jwt"`,
		}, nil).Once()
		store.On("Save", ctx, session.Session{
			UserID: "42",
			Token:  `"jwt"`,
			Profile: session.Profile{
				Name:  "Mei Tran",
				Email: "mei@example.com",
				Role:  "customer",
			},
		}).Return(nil).Once()

		sess, err := NewService(repo, store).Login(ctx, "  Mei@Example.com ", " secret1 ")

		require.NoError(t, err)
		assert.Equal(t, "42", sess.UserID)
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("Missing fields", func(t *testing.T) {
		repo := new(MockRepository)

		_, err := NewService(repo, new(MockSessionStore)).Login(ctx, "", "")

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, apperr.KindValidation, ae.Kind)
		assert.Contains(t, ae.Details, "email")
		assert.Contains(t, ae.Details, "password")
		repo.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("Wrong credentials", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Login", ctx, creds).Return(nil, apperr.FromStatus(401, "")).Once()

		_, err := NewService(repo, new(MockSessionStore)).Login(ctx, creds.Email, creds.Password)

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.True(t, apperr.IsKind(err, apperr.KindAuth))
	})

	t.Run("Response without token", func(t *testing.T) {
		repo := new(MockRepository)
		store := new(MockSessionStore)
		repo.On("Login", ctx, creds).Return(&LoginResult{Account: Account{ID: "42"}}, nil).Once()

		_, err := NewService(repo, store).Login(ctx, creds.Email, creds.Password)

		assert.ErrorIs(t, err, ErrIncompleteLogin)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	valid := RegisterInput{
		FullName: " Mei Tran ",
		Email:    "MEI@example.com",
		Phone:    "0901",
		Password: "secret1",
		Confirm:  "secret1",
	}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Register", ctx, RegisterPayload{
			FullName: "Mei Tran",
			Email:    "mei@example.com",
			Phone:    "0901",
			Password: "secret1",
		}).Return(nil).Once()

		require.NoError(t, NewService(repo, nil).Register(ctx, valid))
		repo.AssertExpectations(t)
	})

	t.Run("Confirm mismatch", func(t *testing.T) {
		in := valid
		in.Confirm = "secret2"

		err := NewService(new(MockRepository), nil).Register(ctx, in)

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "does not match", ae.Details["confirm"])
	})

	t.Run("Short password", func(t *testing.T) {
		in := valid
		in.Password, in.Confirm = "abc", "abc"

		err := NewService(new(MockRepository), nil).Register(ctx, in)

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Contains(t, ae.Details, "password")
	})

	t.Run("Email taken", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Register", ctx, mock.Anything).Return(apperr.FromStatus(409, "email exists")).Once()

		err := NewService(repo, nil).Register(ctx, valid)

		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestService_Logout(t *testing.T) {
	store := new(MockSessionStore)
	store.On("Clear", mock.Anything).Return(nil).Once()

	require.NoError(t, NewService(new(MockRepository), store).Logout(context.Background()))
	store.AssertExpectations(t)
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	newSession := func() *session.Session {
		return &session.Session{UserID: "42", Token: "tok", Profile: session.Profile{Name: "Mei", Email: "mei@example.com", Role: "customer"}}
	}

	t.Run("Success without body", func(t *testing.T) {
		repo := new(MockRepository)
		store := new(MockSessionStore)
		repo.On("Update", ctx, "tok", "42", UpdateRequest{Phone: "0909"}).Return(&Account{}, nil).Once()
		want := session.Profile{Name: "Mei", Email: "mei@example.com", Phone: "0909", Role: "customer"}
		store.On("UpdateProfile", ctx, want).Return(nil).Once()

		sess := newSession()
		p, err := NewService(repo, store).UpdateProfile(ctx, sess, ProfileUpdate{Phone: " 0909 "})

		require.NoError(t, err)
		assert.Equal(t, want, *p)
		assert.Equal(t, want, sess.Profile)
	})

	t.Run("Server account wins", func(t *testing.T) {
		repo := new(MockRepository)
		store := new(MockSessionStore)
		repo.On("Update", ctx, "tok", "42", UpdateRequest{FullName: "Mei T."}).
			Return(&Account{ID: "42", FullName: "Mei T.", Email: "mei@example.com", Role: "admin"}, nil).Once()
		store.On("UpdateProfile", ctx, mock.Anything).Return(errors.New("disk full")).Once()

		p, err := NewService(repo, store).UpdateProfile(ctx, newSession(), ProfileUpdate{FullName: "Mei T."})

		require.NoError(t, err)
		assert.Equal(t, "admin", p.Role)
	})

	t.Run("Nothing to update", func(t *testing.T) {
		_, err := NewService(new(MockRepository), nil).UpdateProfile(ctx, newSession(), ProfileUpdate{FullName: "  "})
		assert.ErrorIs(t, err, ErrNothingToUpdate)
	})

	t.Run("Invalid email", func(t *testing.T) {
		_, err := NewService(new(MockRepository), nil).UpdateProfile(ctx, newSession(), ProfileUpdate{Email: "nope"})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("No session", func(t *testing.T) {
		_, err := NewService(new(MockRepository), nil).UpdateProfile(ctx, nil, ProfileUpdate{Phone: "1"})
		assert.True(t, apperr.IsKind(err, apperr.KindAuth))
	})
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	sess := &session.Session{UserID: "42", Token: "tok", Profile: session.Profile{Email: "mei@example.com"}}
	in := PasswordChange{Current: "secret1", New: "secret2", Confirm: "secret2"}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Login", ctx, Credentials{Email: "mei@example.com", Password: "secret1"}).
			Return(&LoginResult{Token: "fresh", Account: Account{ID: "42"}}, nil).Once()
		repo.On("Update", ctx, "tok", "42", UpdateRequest{Password: "secret2"}).Return(&Account{}, nil).Once()

		require.NoError(t, NewService(repo, nil).ChangePassword(ctx, sess, in))
		repo.AssertExpectations(t)
	})

	t.Run("Local checks", func(t *testing.T) {
		tests := []struct {
			name  string
			in    PasswordChange
			field string
		}{
			{name: "Missing current", in: PasswordChange{New: "secret2", Confirm: "secret2"}, field: "current"},
			{name: "Too short", in: PasswordChange{Current: "secret1", New: "abc", Confirm: "abc"}, field: "new"},
			{name: "Same as current", in: PasswordChange{Current: "secret1", New: "secret1", Confirm: "secret1"}, field: "new"},
			{name: "Confirm mismatch", in: PasswordChange{Current: "secret1", New: "secret2", Confirm: "secret3"}, field: "confirm"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := new(MockRepository)

				err := NewService(repo, nil).ChangePassword(ctx, sess, tt.in)

				var ae *apperr.Error
				require.ErrorAs(t, err, &ae)
				assert.Equal(t, apperr.KindValidation, ae.Kind)
				assert.Contains(t, ae.Details, tt.field)
				repo.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Wrong current password", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Login", ctx, mock.Anything).Return(nil, apperr.FromStatus(401, "")).Once()

		err := NewService(repo, nil).ChangePassword(ctx, sess, in)

		assert.ErrorIs(t, err, ErrWrongPassword)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
