package api

import (
	"context"
	"net/http"
	"net/url"

	"olympics-storefront/internal/models"
)

// loginResponse is the login payload. The API may add a bearer token under
// either name depending on its version.
type loginResponse struct {
	models.User
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var user loginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/register",
		query: url.Values{
			"email":    {req.Email},
			"nom":      {req.LastName},
			"prenom":   {req.FirstName},
			"password": {req.Password},
		},
	}, &user)
	if err != nil {
		return nil, err
	}

	if !user.User.Valid() {
		return nil, &ContractError{Resource: "register", Field: "id"}
	}

	return &user.User, nil
}

// Login exchanges credentials for the user's identity. Rejected credentials
// come back as an *Error with status 401 (or 403 for a disabled account); a
// 2xx answer without an id is a *ContractError.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	if email == "" || password == "" {
		return nil, models.ErrInvalidInput
	}

	var resp loginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		query: url.Values{
			"email":    {email},
			"password": {password},
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	if !resp.User.Valid() {
		return nil, &ContractError{Resource: "login", Field: "id"}
	}

	token := resp.AccessToken
	if token == "" {
		token = resp.Token
	}

	return &models.AuthResult{User: resp.User, Token: token}, nil
}
