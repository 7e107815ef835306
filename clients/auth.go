package clients

import (
	"context"
	"net/http"

	"github.com/jevinjosh/event-management/entity"
)

type AuthResponse struct {
	Token string
	User  entity.User
}

type apiUser struct {
	entity.User
	MongoID string `json:"_id"`
}

func (u apiUser) normalize() entity.User {
	user := u.User
	if u.MongoID != "" {
		user.ID = u.MongoID
	}
	return user
}

type authResponse struct {
	Token string  `json:"token"`
	User  apiUser `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var res authResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &res)
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{Token: res.Token, User: res.User.normalize()}, nil
}

func (c *Client) Register(ctx context.Context, input entity.RegisterInput) (AuthResponse, error) {
	var res authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", input, &res); err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{Token: res.Token, User: res.User.normalize()}, nil
}
