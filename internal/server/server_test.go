package server

import (
	"net/http/httptest"
	"testing"

	"github.com/swfrancis/strava-workout-description-generator/internal/config"
)

func TestHealthRoute(t *testing.T) {
	s := NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0"}, nil, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	s := NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0"}, nil, nil)

	paths := []string{"/activities/recent", "/history/", "/auth/me"}
	for _, path := range paths {
		resp, err := s.App.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("test request %s: %v", path, err)
		}
		if resp.StatusCode != 401 {
			t.Errorf("%s status = %d, want 401", path, resp.StatusCode)
		}
	}
}

func TestWebhookVerifyRoute(t *testing.T) {
	s := NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0", WebhookVerifyToken: "verify-me"}, nil, nil)

	req := httptest.NewRequest("GET", "/webhook/?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=x", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status, got %d", resp.StatusCode)
	}
}
