package activity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/swfrancis/strava-workout-description-generator/internal/auth"
	"github.com/swfrancis/strava-workout-description-generator/internal/strava"
)

func newTestApp(t *testing.T, f *fixture) (*fiber.App, string) {
	t.Helper()
	authSvc := auth.NewService("secret", nil, nil, "")
	app := fiber.New()
	RegisterRoutes(app.Group("/activities"), f.svc, auth.SessionMiddleware("secret"))

	token, err := authSvc.SessionToken(42)
	if err != nil {
		t.Fatalf("session token: %v", err)
	}
	return app, token
}

func TestRoutesRequireSession(t *testing.T) {
	f := newFixture(t)
	app, _ := newTestApp(t, f)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/activities/recent", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAnalysisRoute(t *testing.T) {
	f := newFixture(t)
	f.expectUser(42)
	app, token := newTestApp(t, f)

	f.mux.HandleFunc("/activities/7", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(strava.Activity{ID: 7, Name: "Track Tuesday", Type: "Run"})
	})
	f.mux.HandleFunc("/activities/7/laps", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(trackLaps())
	})

	req := httptest.NewRequest(http.MethodGet, "/activities/7/analysis", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		ShortDescription string  `json:"short_description"`
		Confidence       float64 `json:"confidence"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ShortDescription != "4 x 400m w/ 400m recovery" {
		t.Errorf("short description = %q", body.ShortDescription)
	}
	if body.Confidence < 0.7 {
		t.Errorf("confidence = %v", body.Confidence)
	}
}

func TestRateLimitMapsTo429(t *testing.T) {
	f := newFixture(t)
	f.expectUser(42)
	app, token := newTestApp(t, f)

	f.mux.HandleFunc("/athlete/activities", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Rate Limit Exceeded"}`, http.StatusTooManyRequests)
	})

	req := httptest.NewRequest(http.MethodGet, "/activities/recent", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
}

func TestListPassesPagination(t *testing.T) {
	f := newFixture(t)
	f.expectUser(42)
	app, token := newTestApp(t, f)

	f.mux.HandleFunc("/athlete/activities", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "3" {
			t.Errorf("page = %q, want 3", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "50" {
			t.Errorf("per_page = %q, want 50", got)
		}
		json.NewEncoder(w).Encode([]strava.Activity{{ID: 1}})
	})

	req := httptest.NewRequest(http.MethodGet, "/activities/?page=3&per_page=50", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
