package wishlist

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

func (m *MockRepository) Toggle(ctx context.Context, token string, productID int64) error {
	return m.Called(ctx, token, productID).Error(0)
}

var sess = &session.Session{UserID: "42", Token: "tok"}

func TestWishlist_Toggle(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Toggle", ctx, "tok", int64(7)).Return(nil).Twice()
		w := New(repo)

		liked, err := w.Toggle(ctx, sess, 7)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.True(t, w.Liked(7))

		liked, err = w.Toggle(ctx, sess, 7)
		require.NoError(t, err)
		assert.False(t, liked)
	})

	t.Run("Failure restores flag", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Toggle", ctx, "tok", int64(7)).Return(apperr.Network(errors.New("offline"))).Once()
		w := New(repo)

		liked, err := w.Toggle(ctx, sess, 7)

		assert.True(t, apperr.IsKind(err, apperr.KindNetwork))
		assert.False(t, liked)
		assert.False(t, w.Liked(7))
	})

	t.Run("In flight", func(t *testing.T) {
		repo := new(MockRepository)
		started := make(chan struct{})
		release := make(chan struct{})
		repo.On("Toggle", ctx, "tok", int64(7)).Return(nil).Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Once()
		w := New(repo)

		done := make(chan error)
		go func() {
			_, err := w.Toggle(ctx, sess, 7)
			done <- err
		}()
		<-started

		_, err := w.Toggle(ctx, sess, 7)
		assert.ErrorIs(t, err, ErrInFlight)
		assert.True(t, w.Liked(7))

		close(release)
		require.NoError(t, <-done)
		repo.AssertNumberOfCalls(t, "Toggle", 1)
	})

	t.Run("No session", func(t *testing.T) {
		repo := new(MockRepository)

		_, err := New(repo).Toggle(ctx, &session.Session{}, 7)

		assert.True(t, apperr.IsKind(err, apperr.KindAuth))
		repo.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything, mock.Anything)
	})
}
