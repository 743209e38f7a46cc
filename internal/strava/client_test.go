package strava

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(ClientConfig{
		ClientID:     "123",
		ClientSecret: "shh",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/oauth/token",
	})
	return client, srv
}

func TestAthleteSendsBearer(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer access-1" {
			t.Errorf("authorization = %q", got)
		}
		json.NewEncoder(w).Encode(Athlete{ID: 42, Username: "swf"})
	}))

	athlete, err := client.Athlete(context.Background())
	if err != nil {
		t.Fatalf("Athlete: %v", err)
	}
	if athlete.ID != 42 || athlete.Username != "swf" {
		t.Errorf("athlete = %+v", athlete)
	}
}

func TestRateLimited(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Time", "423")
		http.Error(w, `{"message":"Rate Limit Exceeded"}`, http.StatusTooManyRequests)
	}))

	_, err := client.Activities(context.Background(), ActivityListOptions{})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("err = %v, want APIError 429", err)
	}
	if apiErr.RetryAfter != 423 {
		t.Errorf("retry after = %d, want 423", apiErr.RetryAfter)
	}
}

func TestNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Record Not Found"}`, http.StatusNotFound)
	}))

	_, err := client.Activity(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRefreshOn401(t *testing.T) {
	var refreshed TokenResponse
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if got := r.FormValue("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.FormValue("refresh_token"); got != "refresh-1" {
			t.Errorf("refresh_token = %q", got)
		}
		json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  "access-2",
			RefreshToken: "refresh-2",
			ExpiresIn:    21600,
		})
	})
	mux.HandleFunc("/athlete", func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer access-1":
			http.Error(w, `{"message":"Authorization Error"}`, http.StatusUnauthorized)
		case "Bearer access-2":
			json.NewEncoder(w).Encode(Athlete{ID: 42})
		default:
			t.Errorf("unexpected authorization %q", r.Header.Get("Authorization"))
		}
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(ClientConfig{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/oauth/token",
		OnTokenRefresh: func(ctx context.Context, token TokenResponse) error {
			refreshed = token
			return nil
		},
	})

	athlete, err := client.Athlete(context.Background())
	if err != nil {
		t.Fatalf("Athlete after refresh: %v", err)
	}
	if athlete.ID != 42 {
		t.Errorf("athlete = %+v", athlete)
	}
	if refreshed.AccessToken != "access-2" || refreshed.RefreshToken != "refresh-2" {
		t.Errorf("persisted token = %+v", refreshed)
	}
}

func TestRefreshFailureSurfacesUnauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad Request"}`, http.StatusBadRequest)
	})
	mux.HandleFunc("/athlete", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Authorization Error"}`, http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(ClientConfig{
		AccessToken:  "stale",
		RefreshToken: "stale",
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/oauth/token",
	})

	if _, err := client.Athlete(context.Background()); err == nil {
		t.Fatal("expected error when refresh fails")
	}
}

func TestActivitiesCapsPerPage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("per_page"); got != "200" {
			t.Errorf("per_page = %q, want 200", got)
		}
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Errorf("page = %q, want 1", got)
		}
		if got := r.URL.Query().Get("after"); got != "1700000000" {
			t.Errorf("after = %q, want 1700000000", got)
		}
		if r.URL.Query().Has("before") {
			t.Error("zero before must be omitted")
		}
		json.NewEncoder(w).Encode([]Activity{{ID: 1, Name: "Morning Run"}})
	}))

	activities, err := client.Activities(context.Background(), ActivityListOptions{PerPage: 700, After: 1700000000})
	if err != nil {
		t.Fatalf("Activities: %v", err)
	}
	if len(activities) != 1 || activities[0].Name != "Morning Run" {
		t.Errorf("activities = %+v", activities)
	}
}

func TestUpdateActivityDescription(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["description"] != "4 x 400m w/ 200m recovery" {
			t.Errorf("description = %q", body["description"])
		}
		json.NewEncoder(w).Encode(Activity{ID: 7, Description: body["description"]})
	}))

	activity, err := client.UpdateActivityDescription(context.Background(), 7, "4 x 400m w/ 200m recovery")
	if err != nil {
		t.Fatalf("UpdateActivityDescription: %v", err)
	}
	if activity.Description != "4 x 400m w/ 200m recovery" {
		t.Errorf("description = %q", activity.Description)
	}
}

func TestOAuthExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.FormValue("grant_type"); got != "authorization_code" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.FormValue("code"); got != "abc123" {
			t.Errorf("code = %q", got)
		}
		if got := r.FormValue("client_id"); got != "123" {
			t.Errorf("client_id = %q", got)
		}
		json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			Athlete:      &Athlete{ID: 42, Firstname: "Sam"},
		})
	}))
	defer srv.Close()

	oauth := &OAuth{ClientID: "123", ClientSecret: "shh", TokenURL: srv.URL}
	token, err := oauth.Exchange(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if token.Athlete == nil || token.Athlete.ID != 42 {
		t.Errorf("token athlete = %+v", token.Athlete)
	}
}
