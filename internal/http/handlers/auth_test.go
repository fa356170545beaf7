package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sparkdraft/internal/middleware"
)

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := postJSON(t, env.app.Register, "/v1/auth/register", registerRequest{
		Username: "ada",
		Email:    "Ada@Example.com",
		Password: "correct horse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var resp sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if resp.User.Email != "ada@example.com" {
		t.Errorf("email = %q, want lowercased", resp.User.Email)
	}
	if resp.User.Tier != "free" || resp.User.SparksLimit != 10 || resp.User.SparksUsed != 0 {
		t.Errorf("new user = %+v, want free tier with 10 sparks", resp.User)
	}

	userID, err := middleware.VerifySession("test-secret", resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if userID != resp.User.ID {
		t.Errorf("token subject = %q, want %q", userID, resp.User.ID)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)

	first := postJSON(t, env.app.Register, "/v1/auth/register", registerRequest{
		Username: "ada", Email: "ada@example.com", Password: "correct horse",
	})
	if first.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", first.Code)
	}

	second := postJSON(t, env.app.Register, "/v1/auth/register", registerRequest{
		Username: "ada2", Email: "ada@example.com", Password: "correct horse",
	})
	if second.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", second.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	cases := []struct {
		name string
		req  registerRequest
	}{
		{name: "short_password", req: registerRequest{Username: "ada", Email: "ada@example.com", Password: "short"}},
		{name: "bad_email", req: registerRequest{Username: "ada", Email: "not-an-email", Password: "correct horse"}},
		{name: "missing_username", req: registerRequest{Email: "ada@example.com", Password: "correct horse"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, env.app.Register, "/v1/auth/register", tc.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	reg := postJSON(t, env.app.Register, "/v1/auth/register", registerRequest{
		Username: "ada", Email: "ada@example.com", Password: "correct horse",
	})
	if reg.Code != http.StatusCreated {
		t.Fatalf("register status = %d", reg.Code)
	}

	t.Run("ok", func(t *testing.T) {
		rec := postJSON(t, env.app.Login, "/v1/auth/login", loginRequest{Email: "ada@example.com", Password: "correct horse"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
		}
		var resp sessionResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode session: %v", err)
		}
		if _, err := middleware.VerifySession("test-secret", resp.Token); err != nil {
			t.Errorf("login token does not verify: %v", err)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		rec := postJSON(t, env.app.Login, "/v1/auth/login", loginRequest{Email: "ada@example.com", Password: "wrong horse"})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("unknown_email", func(t *testing.T) {
		rec := postJSON(t, env.app.Login, "/v1/auth/login", loginRequest{Email: "nobody@example.com", Password: "correct horse"})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}
