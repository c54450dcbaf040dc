package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vampire-js/techfiesta/pkg/app"

	"github.com/bytedance/sonic"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return srv, c
}

func writeEnvelope(w http.ResponseWriter, res *app.Res) {
	w.Header().Set("Content-Type", "application/json")
	raw, _ := sonic.Marshal(res)
	w.Write(raw)
}

func TestClientMapsEnvelopeCodes(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		wantErr error
	}{
		{"missing token", 20000001, ErrSessionExpired},
		{"expired token", 20000002, ErrSessionExpired},
		{"missing document", 30000001, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, &app.Res{Code: tt.code})
			})

			_, err := c.GetDocument(context.Background(), "any")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestClientAPIError(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, &app.Res{Code: 30000004, Message: "A folder cannot be moved into its own subtree"})
	})

	_, err := c.MoveDocument(context.Background(), "a", "b", 0)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %v", err)
	}
	if apiErr.Code != 30000004 {
		t.Errorf("unexpected code %d", apiErr.Code)
	}
}

func TestClientUnavailable(t *testing.T) {
	srv, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := c.ListDocuments(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("want ErrUnavailable, got %v", err)
	}
}

func TestClientSessionCookieFlow(t *testing.T) {
	var sawCookie bool
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user/login":
			http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "tok-123", Path: "/"})
			writeEnvelope(w, &app.Res{Code: 0, Status: true, Data: json.RawMessage(`{"uid":1,"username":"alice"}`)})
		case "/api/documents":
			if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value == "tok-123" {
				sawCookie = true
				writeEnvelope(w, &app.Res{Code: 0, Status: true, Data: json.RawMessage(`[]`)})
				return
			}
			writeEnvelope(w, &app.Res{Code: 20000001})
		default:
			writeEnvelope(w, &app.Res{Code: 10000002})
		}
	})

	ctx := context.Background()
	user, err := c.Login(ctx, "alice", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("unexpected user %+v", user)
	}

	if _, err := c.ListDocuments(ctx); err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if !sawCookie {
		t.Error("session cookie should ride on subsequent requests")
	}
}
