package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// Client calls the account service REST API. It holds no authentication
// state of its own; pass the Session each call should act under.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// RegisterParams is the payload for self-service registration. The server
// always assigns the USER role.
type RegisterParams struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CreateUserParams is the payload for administrative account creation.
type CreateUserParams struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
	IsActive  *bool  `json:"isActive,omitempty"`
}

// UpdateUserParams is a sparse patch; nil fields are omitted from the
// request body and keep their stored values.
type UpdateUserParams struct {
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Role      *Role   `json:"role,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

type authPayload struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

type messagePayload struct {
	Message string `json:"message"`
}

// Register creates a USER account and establishes sess with the returned
// credential.
func (c *Client) Register(ctx context.Context, sess *Session, params RegisterParams) (*User, error) {
	var out authPayload
	if err := c.do(ctx, nil, http.MethodPost, "/auth/register", params, &out); err != nil {
		return nil, err
	}
	if err := sess.Establish(out.AccessToken, out.User); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Login authenticates and establishes sess with a fresh credential.
func (c *Client) Login(ctx context.Context, sess *Session, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	var out authPayload
	if err := c.do(ctx, nil, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	if err := sess.Establish(out.AccessToken, out.User); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout clears the session. The server holds no revocation state; the
// credential simply stops being attached.
func (c *Client) Logout(sess *Session) error {
	return sess.Clear()
}

// Profile fetches the projection of the session's own account.
func (c *Client) Profile(ctx context.Context, sess *Session) (*User, error) {
	var out User
	if err := c.do(ctx, sess, http.MethodGet, "/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUsers(ctx context.Context, sess *Session) ([]*User, error) {
	var out []*User
	if err := c.do(ctx, sess, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, sess *Session, id string) (*User, error) {
	var out User
	if err := c.do(ctx, sess, http.MethodGet, "/users/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, sess *Session, params CreateUserParams) (*User, error) {
	var out User
	if err := c.do(ctx, sess, http.MethodPost, "/users", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, sess *Session, id string, params UpdateUserParams) (*User, error) {
	var out User
	if err := c.do(ctx, sess, http.MethodPut, "/users/"+id, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account and returns the server's confirmation
// message.
func (c *Client) DeleteUser(ctx context.Context, sess *Session, id string) (string, error) {
	var out messagePayload
	if err := c.do(ctx, sess, http.MethodDelete, "/users/"+id, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// do performs one request, attaching the session's bearer token when the
// session is established, and decodes either the success payload or the
// error envelope.
func (c *Client) do(ctx context.Context, sess *Session, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
			msg = envelope.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
