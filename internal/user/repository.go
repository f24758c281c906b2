package user

import (
	"context"
	"net/http"
	"net/url"

	"mei-storefront/internal/transport"
)

type Repository interface {
	Login(ctx context.Context, c Credentials) (*LoginResult, error)
	Register(ctx context.Context, p RegisterPayload) error
	Update(ctx context.Context, token, userID string, req UpdateRequest) (*Account, error)
}

type repository struct {
	client transport.Doer
}

func NewRepository(client transport.Doer) Repository {
	return &repository{client: client}
}

func (r *repository) Login(ctx context.Context, c Credentials) (*LoginResult, error) {
	var res LoginResult
	if err := r.client.Do(ctx, http.MethodPost, "/auth/login", nil, c, "", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *repository) Register(ctx context.Context, p RegisterPayload) error {
	return r.client.Do(ctx, http.MethodPost, "/users", nil, p, "", nil)
}

// Update returns a zero Account when the backend answers without a body.
func (r *repository) Update(ctx context.Context, token, userID string, req UpdateRequest) (*Account, error) {
	var a Account
	if err := r.client.Do(ctx, http.MethodPut, "/users/"+url.PathEscape(userID), nil, req, token, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
