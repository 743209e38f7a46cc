package history

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/swfrancis/strava-workout-description-generator/internal/auth"
)

func newTestApp(t *testing.T) (*fiber.App, pgxmock.PgxPoolIface, string) {
	t.Helper()
	svc, mock := newTestService(t)

	app := fiber.New()
	RegisterRoutes(app.Group("/history"), svc, auth.SessionMiddleware("secret"))

	token, err := auth.NewService("secret", nil, nil, "").SessionToken(42)
	if err != nil {
		t.Fatalf("session token: %v", err)
	}
	return app, mock, token
}

func TestHistoryRequiresSession(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/history/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestHistoryListScopedToAthlete(t *testing.T) {
	app, mock, token := newTestApp(t)

	cols := []string{"id", "athlete_id", "activity_id", "activity_name", "activity_type",
		"description", "confidence", "applied", "analysis", "created_at"}
	mock.ExpectQuery(`SELECT .+ FROM analysis_history WHERE athlete_id = \$1`).
		WithArgs(int64(42), 20).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("rec-1", int64(42), int64(7), "Track Tuesday", "Run", "4 x 400m", 0.85, true, []byte(`{}`), time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/history/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(records) != 1 || records[0].ActivityID != 7 {
		t.Errorf("records = %+v", records)
	}
}

func TestHistoryUnknownActivityIs404(t *testing.T) {
	app, mock, token := newTestApp(t)

	mock.ExpectQuery(`SELECT .+ FROM analysis_history WHERE athlete_id = \$1 AND activity_id = \$2`).
		WithArgs(int64(42), int64(99)).
		WillReturnError(pgx.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/history/99", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHistoryDelete(t *testing.T) {
	app, mock, token := newTestApp(t)

	mock.ExpectExec(`DELETE FROM analysis_history`).
		WithArgs(int64(42), int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	req := httptest.NewRequest(http.MethodDelete, "/history/7", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
}
