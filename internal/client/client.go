package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/geocoder89/cinemate/internal/auth"
	"github.com/geocoder89/cinemate/internal/domain/movie"
	"github.com/goccy/go-json"
)

// ErrUnauthorized means the stored session is gone and the user has to log
// in again.
var ErrUnauthorized = errors.New("session expired, please log in again")

type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

func New(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Signup(ctx context.Context, email, password string) (auth.Session, error) {
	return c.authenticate(ctx, "/auth/signup", email, password)
}

func (c *Client) Login(ctx context.Context, email, password string) (auth.Session, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

func (c *Client) Logout() error {
	return c.tokens.Clear()
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (auth.Session, error) {
	var s auth.Session
	if err := c.do(ctx, http.MethodPost, path, false, credentials{Email: email, Password: password}, &s); err != nil {
		return auth.Session{}, err
	}
	if err := c.tokens.Save(s.Token); err != nil {
		return auth.Session{}, fmt.Errorf("save token: %w", err)
	}
	return s, nil
}

func (c *Client) ListMovies(ctx context.Context) ([]movie.Movie, error) {
	var out []movie.Movie
	if err := c.do(ctx, http.MethodGet, "/movies", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateMovie(ctx context.Context, req movie.CreateRequest) (movie.Movie, error) {
	var out movie.Movie
	err := c.do(ctx, http.MethodPost, "/movies", true, req, &out)
	return out, err
}

func (c *Client) UpdateMovie(ctx context.Context, id string, req movie.UpdateRequest) (movie.Movie, error) {
	var out movie.Movie
	err := c.do(ctx, http.MethodPut, "/movies/"+url.PathEscape(id), true, req, &out)
	return out, err
}

func (c *Client) DeleteMovie(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/movies/"+url.PathEscape(id), true, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if authed {
		token, err := c.tokens.Load()
		if err != nil {
			return fmt.Errorf("load token: %w", err)
		}
		if token == "" {
			return ErrUnauthorized
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("could not reach the server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if err := c.tokens.Clear(); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		if authed {
			return ErrUnauthorized
		}
	}

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&env)

	return &APIError{
		Status:  resp.StatusCode,
		Code:    env.Error.Code,
		Message: env.Error.Message,
	}
}
