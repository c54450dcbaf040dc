// Package client is the Go SDK for the notes API. It keeps the session
// cookie in a jar so browser-style auth works without manual token
// plumbing.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/Vampire-js/techfiesta/internal/dto"
	pkgapp "github.com/Vampire-js/techfiesta/pkg/app"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// Envelope codes the client maps to typed errors.
const (
	codeSuccess          = 0
	codeNotAuthenticated = 20000001
	codeInvalidToken     = 20000002
	codeDocumentNotFound = 30000001
)

var (
	// ErrUnavailable means the server could not be reached at all.
	ErrUnavailable = errors.New("server unavailable")
	// ErrSessionExpired means the token is missing, invalid or expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrNotFound means the document does not exist for this user.
	ErrNotFound = errors.New("document not found")
)

// APIError carries any envelope error not covered by a typed sentinel.
type APIError struct {
	Code    int
	Message string
	Details []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// Config client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Lang selects the server's response language, e.g. "en" or "zh-cn".
	Lang string
}

// Client talks to one server on behalf of one user session.
type Client struct {
	baseURL string
	lang    string
	http    *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "cookie jar")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		lang:    cfg.Lang,
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Status  bool            `json:"status"`
	Message interface{}     `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details []string        `json:"details"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.lang != "" {
		req.Header.Set("lang", c.lang)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	var env envelope
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Wrap(ErrUnavailable, "decode response: "+err.Error())
	}

	if err := c.envelopeError(&env); err != nil {
		return err
	}

	if out != nil && len(env.Data) > 0 {
		if err := sonic.Unmarshal(env.Data, out); err != nil {
			return errors.Wrap(err, "decode data")
		}
	}
	return nil
}

// envelopeError maps the response code to a typed error.
func (c *Client) envelopeError(env *envelope) error {
	switch env.Code {
	case codeSuccess:
		return nil
	case codeNotAuthenticated, codeInvalidToken:
		return ErrSessionExpired
	case codeDocumentNotFound:
		return ErrNotFound
	}
	msg, _ := env.Message.(string)
	return &APIError{Code: env.Code, Message: msg, Details: env.Details}
}

// Register creates an account and starts a session.
func (c *Client) Register(ctx context.Context, email, username, password string) (*dto.User, error) {
	out := &dto.User{}
	err := c.do(ctx, http.MethodPost, "/api/user/register", nil, &dto.UserRegisterRequest{
		Email: email, Username: username, Password: password,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Login authenticates by email or username. The session cookie lands in
// the jar, later calls ride on it.
func (c *Client) Login(ctx context.Context, credentials, password string) (*dto.User, error) {
	out := &dto.User{}
	err := c.do(ctx, http.MethodPost, "/api/user/login", nil, &dto.UserLoginRequest{
		Credentials: credentials, Password: password,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Logout drops the server-side session cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/user/logout", nil, nil, nil)
}

// Check verifies the current session is still accepted.
func (c *Client) Check(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/user/check", nil, nil, nil)
}

// UserInfo fetches the authenticated profile.
func (c *Client) UserInfo(ctx context.Context) (*dto.User, error) {
	out := &dto.User{}
	if err := c.do(ctx, http.MethodGet, "/api/user/info", nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDocuments fetches the whole collection for tree construction.
func (c *Client) ListDocuments(ctx context.Context) ([]*dto.Document, error) {
	var out []*dto.Document
	if err := c.do(ctx, http.MethodGet, "/api/documents", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDocument fetches one document with content.
func (c *Client) GetDocument(ctx context.Context, id string) (*dto.Document, error) {
	out := &dto.Document{}
	q := url.Values{"id": {id}}
	if err := c.do(ctx, http.MethodGet, "/api/document", q, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDocument inserts a folder or note.
func (c *Client) CreateDocument(ctx context.Context, req *dto.DocumentCreateRequest) (*dto.Document, error) {
	out := &dto.Document{}
	if err := c.do(ctx, http.MethodPost, "/api/document", nil, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveContent replaces a note's content wholesale.
func (c *Client) SaveContent(ctx context.Context, id, content string) (*dto.Document, error) {
	out := &dto.Document{}
	err := c.do(ctx, http.MethodPost, "/api/document/content", nil, &dto.DocumentUpdateRequest{
		ID: id, Content: content,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RenameDocument changes the display name.
func (c *Client) RenameDocument(ctx context.Context, id, name string) (*dto.Document, error) {
	out := &dto.Document{}
	err := c.do(ctx, http.MethodPost, "/api/document/rename", nil, &dto.DocumentRenameRequest{
		ID: id, Name: name,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MoveDocument reparents a document.
func (c *Client) MoveDocument(ctx context.Context, id, parentID string, sort int64) (*dto.Document, error) {
	out := &dto.Document{}
	err := c.do(ctx, http.MethodPost, "/api/document/move", nil, &dto.DocumentMoveRequest{
		ID: id, ParentID: parentID, Sort: sort,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteDocument removes a document and, for folders, its subtree.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	q := url.Values{"id": {id}}
	return c.do(ctx, http.MethodDelete, "/api/document", q, nil, nil)
}

// ServerVersion fetches the server build metadata.
func (c *Client) ServerVersion(ctx context.Context) (*pkgapp.VersionInfo, error) {
	out := &pkgapp.VersionInfo{}
	if err := c.do(ctx, http.MethodGet, "/api/version", nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
