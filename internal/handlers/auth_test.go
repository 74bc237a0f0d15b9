package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/shopweve/internal/config"
	"github.com/example/shopweve/internal/middleware"
	"github.com/example/shopweve/internal/models"
	"github.com/example/shopweve/internal/store"
	"github.com/example/shopweve/internal/token"
)

// memoryUserStore keeps users in maps. Lookups return copies so handler
// mutations only land on Save, mirroring the database-backed store.
type memoryUserStore struct {
	byID map[uuid.UUID]models.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{byID: make(map[uuid.UUID]models.User)}
}

func (s *memoryUserStore) FindByPhone(phone string) (*models.User, error) {
	for _, u := range s.byID {
		if u.Phone == phone {
			copied := u
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *memoryUserStore) FindByID(id uuid.UUID) (*models.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := u
	return &copied, nil
}

func (s *memoryUserStore) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.byID[user.ID] = *user
	return nil
}

func (s *memoryUserStore) Save(user *models.User) error {
	s.byID[user.ID] = *user
	return nil
}

func (s *memoryUserStore) stored(t *testing.T, phone string) models.User {
	t.Helper()
	for _, u := range s.byID {
		if u.Phone == phone {
			return u
		}
	}
	t.Fatalf("no stored user with phone %s", phone)
	return models.User{}
}

type authTestEnv struct {
	app    *fiber.App
	users  *memoryUserStore
	tokens *token.Manager
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()

	cfg := &config.Config{Environment: "development"}
	users := newMemoryUserStore()
	tokens := token.NewManager("a-secret", "r-secret", time.Hour, 24*time.Hour)
	handler := NewAuthHandler(users, tokens, cfg)

	app := fiber.New()
	auth := app.Group("/api/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/refresh-token", handler.Refresh)
	auth.Post("/logout", handler.Logout)

	return &authTestEnv{app: app, users: users, tokens: tokens}
}

func (e *authTestEnv) post(t *testing.T, path string, body any, mutate func(*http.Request)) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}

	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func cookieValue(resp *http.Response, name string) (string, bool) {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func TestLoginRegistersNewUser(t *testing.T) {
	env := newAuthTestEnv(t)

	resp, payload := env.post(t, "/api/auth/login", fiber.Map{
		"phoneNumber": "9999900001",
		"name":        "Asha",
	}, nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	stored := env.users.stored(t, "9999900001")
	if stored.LoginCount != 1 {
		t.Errorf("LoginCount = %d, want 1", stored.LoginCount)
	}
	if stored.Role != models.RoleUser || stored.Status != models.UserStatusActive {
		t.Errorf("role/status = %s/%s", stored.Role, stored.Status)
	}
	if stored.AccessToken == nil || stored.RefreshToken == nil {
		t.Error("session tokens not persisted")
	}

	tokens, ok := payload["tokens"].(map[string]any)
	if !ok {
		t.Fatalf("response has no tokens object: %v", payload)
	}
	if tokens["accessToken"] == "" || tokens["refreshToken"] == "" {
		t.Error("token pair missing from response")
	}

	if _, ok := cookieValue(resp, middleware.AccessCookieName); !ok {
		t.Error("access cookie not set")
	}
	if _, ok := cookieValue(resp, middleware.RefreshCookieName); !ok {
		t.Error("refresh cookie not set")
	}
}

func TestLoginUnknownWithoutName(t *testing.T) {
	env := newAuthTestEnv(t)

	resp, _ := env.post(t, "/api/auth/login", fiber.Map{"phoneNumber": "9999900001"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if len(env.users.byID) != 0 {
		t.Error("user was created without a name")
	}
}

func TestLoginMissingPhone(t *testing.T) {
	env := newAuthTestEnv(t)

	resp, _ := env.post(t, "/api/auth/login", fiber.Map{"name": "Asha"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRepeatLoginIncrementsWithoutDuplicate(t *testing.T) {
	env := newAuthTestEnv(t)

	env.post(t, "/api/auth/login", fiber.Map{"phoneNumber": "9999900001", "name": "Asha"}, nil)
	resp, _ := env.post(t, "/api/auth/login", fiber.Map{"phoneNumber": "9999900001"}, nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(env.users.byID) != 1 {
		t.Errorf("store has %d users, want 1", len(env.users.byID))
	}
	if stored := env.users.stored(t, "9999900001"); stored.LoginCount != 2 {
		t.Errorf("LoginCount = %d, want 2", stored.LoginCount)
	}
}

func TestLoginBlockedAccount(t *testing.T) {
	env := newAuthTestEnv(t)
	_ = env.users.Create(&models.User{
		Name:   "Asha",
		Phone:  "9999900001",
		Role:   models.RoleUser,
		Status: models.UserStatusBlocked,
	})

	resp, _ := env.post(t, "/api/auth/login", fiber.Map{"phoneNumber": "9999900001"}, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestRefreshRotatesAccessOnly(t *testing.T) {
	env := newAuthTestEnv(t)

	_, login := env.post(t, "/api/auth/login", fiber.Map{"phoneNumber": "9999900001", "name": "Asha"}, nil)
	refreshToken := login["tokens"].(map[string]any)["refreshToken"].(string)
	before := env.users.stored(t, "9999900001")

	resp, payload := env.post(t, "/api/auth/refresh-token", fiber.Map{"refreshToken": refreshToken}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	tokens, ok := payload["tokens"].(map[string]any)
	if !ok {
		t.Fatalf("response has no tokens object: %v", payload)
	}
	access, _ := tokens["accessToken"].(string)
	if _, err := env.tokens.VerifyAccess(access); err != nil {
		t.Errorf("returned access token does not verify: %v", err)
	}
	if _, hasRefresh := tokens["refreshToken"]; hasRefresh {
		t.Error("refresh response must not mint a new refresh token")
	}

	after := env.users.stored(t, "9999900001")
	if *after.RefreshToken != *before.RefreshToken {
		t.Error("stored refresh token changed on refresh")
	}
	if !after.RefreshTokenExpiry.Equal(*before.RefreshTokenExpiry) {
		t.Error("stored refresh expiry changed on refresh")
	}

	if _, ok := cookieValue(resp, middleware.AccessCookieName); !ok {
		t.Error("access cookie not refreshed")
	}
}

func TestRefreshRejectsSupersededToken(t *testing.T) {
	env := newAuthTestEnv(t)

	_, first := env.post(t, "/api/auth/login", fiber.Map{"phoneNumber": "9999900001", "name": "Asha"}, nil)
	oldRefresh := first["tokens"].(map[string]any)["refreshToken"].(string)

	// A second login overwrites the stored pair.
	env.post(t, "/api/auth/login", fiber.Map{"phoneNumber": "9999900001"}, nil)
	stored := env.users.stored(t, "9999900001")
	if *stored.RefreshToken == oldRefresh {
		t.Skip("token pair collided within one second; stored pair identical")
	}

	resp, _ := env.post(t, "/api/auth/refresh-token", fiber.Map{"refreshToken": oldRefresh}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRefreshRejections(t *testing.T) {
	env := newAuthTestEnv(t)
	env.post(t, "/api/auth/login", fiber.Map{"phoneNumber": "9999900001", "name": "Asha"}, nil)

	t.Run("missing token", func(t *testing.T) {
		resp, _ := env.post(t, "/api/auth/refresh-token", fiber.Map{}, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		resp, _ := env.post(t, "/api/auth/refresh-token", fiber.Map{"refreshToken": "garbage"}, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("stored expiry elapsed", func(t *testing.T) {
		stored := env.users.stored(t, "9999900001")
		past := time.Now().Add(-time.Minute)
		stored.RefreshTokenExpiry = &past
		_ = env.users.Save(&stored)

		resp, _ := env.post(t, "/api/auth/refresh-token", fiber.Map{"refreshToken": *stored.RefreshToken}, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})
}

func TestRefreshFromCookie(t *testing.T) {
	env := newAuthTestEnv(t)

	_, login := env.post(t, "/api/auth/login", fiber.Map{"phoneNumber": "9999900001", "name": "Asha"}, nil)
	refreshToken := login["tokens"].(map[string]any)["refreshToken"].(string)

	resp, _ := env.post(t, "/api/auth/refresh-token", nil, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.RefreshCookieName, Value: refreshToken})
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	env := newAuthTestEnv(t)

	_, login := env.post(t, "/api/auth/login", fiber.Map{"phoneNumber": "9999900001", "name": "Asha"}, nil)
	access := login["tokens"].(map[string]any)["accessToken"].(string)

	tests := []struct {
		name        string
		header      string
		wantCleared bool
	}{
		{"no token", "", false},
		{"garbage token", "Bearer garbage", false},
		{"valid token", "Bearer " + access, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, payload := env.post(t, "/api/auth/logout", nil, func(req *http.Request) {
				if tt.header != "" {
					req.Header.Set("Authorization", tt.header)
				}
			})

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if success, _ := payload["success"].(bool); !success {
				t.Error("logout response not successful")
			}

			for _, name := range []string{middleware.AccessCookieName, middleware.RefreshCookieName} {
				if value, ok := cookieValue(resp, name); !ok || value != "" {
					t.Errorf("cookie %s not cleared", name)
				}
			}

			stored := env.users.stored(t, "9999900001")
			if tt.wantCleared && stored.RefreshToken != nil {
				t.Error("valid-token logout left the stored session")
			}
			if !tt.wantCleared && stored.RefreshToken == nil {
				t.Error("session cleared without a verifiable token")
			}
		})
	}
}
