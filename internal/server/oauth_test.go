package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func oauthTestConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "abc123",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:9999/callback",
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}
}

func TestOAuthHandler(t *testing.T) {
	t.Run("exchanges the code and reports the token", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"access","refresh_token":"refresh","token_type":"Bearer","expires_in":3600}`)
		}))
		defer tokenServer.Close()

		handler := NewOAuthHandler(oauthTestConfig(tokenServer.URL), "state123")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=authcode", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Spotify connected") {
			t.Error("success page should confirm the connection")
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("unexpected flow error: %v", result.Error())
		}
		if result.Token == nil || result.Token.AccessToken != "access" {
			t.Errorf("expected exchanged token, got %+v", result.Token)
		}
	})

	t.Run("rejects a state mismatch", func(t *testing.T) {
		handler := NewOAuthHandler(oauthTestConfig("http://localhost:1/token"), "state123")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=wrong&code=authcode", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if result := <-handler.Result(); result.Error() == nil {
			t.Error("state mismatch should produce a flow error")
		}
	})

	t.Run("processes only the first callback", func(t *testing.T) {
		handler := NewOAuthHandler(oauthTestConfig("http://localhost:1/token"), "state123")

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/callback?state=wrong", nil))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=authcode", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("repeat callback should be rejected, got %d", second.Code)
		}
	})
}
