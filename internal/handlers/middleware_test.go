package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnhub/internal/models"
	"learnhub/internal/service"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "well formed", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "padded token", header: "Bearer   abc  ", want: "abc"},
		{name: "empty header", header: "", want: ""},
		{name: "wrong scheme", header: "Token abc", want: ""},
		{name: "lowercase scheme", header: "bearer abc", want: ""},
		{name: "scheme only", header: "Bearer ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractBearerToken(tt.header); got != tt.want {
				t.Errorf("extractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestAuthenticateMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		authHeader  string
		parseFn     func(token string) (service.Identity, error)
		wantCode    int
		wantMessage string
	}{
		{
			name:        "no header",
			authHeader:  "",
			wantCode:    http.StatusUnauthorized,
			wantMessage: errNoToken,
		},
		{
			name:        "wrong scheme",
			authHeader:  "Token abc",
			wantCode:    http.StatusUnauthorized,
			wantMessage: errNoToken,
		},
		{
			name:       "rejected token",
			authHeader: "Bearer bad.token",
			parseFn: func(string) (service.Identity, error) {
				return service.Identity{}, errors.New("invalid or expired token")
			},
			wantCode:    http.StatusUnauthorized,
			wantMessage: errInvalidToken,
		},
		{
			name:       "accepted token",
			authHeader: "Bearer good.token",
			parseFn:    okParseToken(7, "alice"),
			wantCode:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profileCalled := false
			auth := &mockAuth{
				ParseTokenFn: tt.parseFn,
				GetProfileFn: func(userID int) (*models.User, error) {
					profileCalled = true
					if userID != 7 {
						t.Fatalf("identity not propagated, got user id %d", userID)
					}
					return &models.User{ID: userID, Username: "alice"}, nil
				},
			}
			router := newTestRouter(auth, &mockCourses{})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d (body %s)", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantMessage != "" {
				if resp := decodeEnvelope(t, w); resp.Message != tt.wantMessage {
					t.Errorf("expected message %q, got %q", tt.wantMessage, resp.Message)
				}
				if profileCalled {
					t.Error("handler ran despite failed authentication")
				}
			} else if !profileCalled {
				t.Error("handler did not run on valid token")
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newTestRouter(&mockAuth{}, &mockCourses{})

	t.Run("generates one when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if w.Header().Get(requestIDHeader) == "" {
			t.Error("expected a generated request id header")
		}
	})

	t.Run("echoes a client-supplied one", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(requestIDHeader, "client-id-1")
		router.ServeHTTP(w, req)

		if got := w.Header().Get(requestIDHeader); got != "client-id-1" {
			t.Errorf("expected request id to round-trip, got %q", got)
		}
	})
}
