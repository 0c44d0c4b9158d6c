package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"assemblytracker/services"
	"assemblytracker/testhelpers"
)

func TestHandleCollect(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saveTestSession(t, app, testSession(t.TempDir()))

	handler := HandleCollect(app)
	req := httptest.NewRequest(http.MethodPost, "/assembly/collect", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	if body["active"] != true {
		t.Errorf("session should stay active with one item left: %v", body)
	}
	item, ok := body["item"].(map[string]any)
	if !ok || item["article"] != "A-2" {
		t.Errorf("cursor should point at the second item: %v", body)
	}

	session, err := services.NewRecordSessionStore(app).Load()
	if err != nil || session == nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if session.Items[0].Status != services.StatusCollected || session.Items[0].CollectedQuantity != 5 {
		t.Errorf("collect not persisted: %+v", session.Items[0])
	}
}

func TestHandleCollect_NoSession(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleCollect(app)
	req := httptest.NewRequest(http.MethodPost, "/assembly/collect", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleCollect_CompletesSession(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	outDir := t.TempDir()
	saveTestSession(t, app, testSession(outDir))

	handler := HandleCollect(app)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/assembly/collect", nil)
		rec := httptest.NewRecorder()
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler error on pick %d: %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("pick %d: expected 200, got %d: %s", i+1, rec.Code, rec.Body.String())
		}
		if i == 1 {
			body := decodeJSON(t, rec)
			if body["completed"] != true || body["active"] != false {
				t.Errorf("final pick should complete the session: %v", body)
			}
			report, _ := body["report"].(string)
			if report == "" {
				t.Fatal("completion response missing report handle")
			}
			if _, err := os.Stat(report); err != nil {
				t.Errorf("final report not written: %v", err)
			}
			if !strings.HasPrefix(report, outDir) {
				t.Errorf("report written outside the output folder: %q", report)
			}
		}
	}

	session, err := services.NewRecordSessionStore(app).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if session != nil {
		t.Error("completed session should be cleared")
	}
}

func TestHandleSkip(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saveTestSession(t, app, testSession(t.TempDir()))

	handler := HandleSkip(app)
	req := httptest.NewRequest(http.MethodPost, "/assembly/skip", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	session, _ := services.NewRecordSessionStore(app).Load()
	if session.Items[0].Status != services.StatusSkipped {
		t.Errorf("skip not persisted: %+v", session.Items[0])
	}
}

func TestHandleChangeQuantity(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saveTestSession(t, app, testSession(t.TempDir()))

	handler := HandleChangeQuantity(app)
	req := newFormRequest("/assembly/quantity", url.Values{"quantity": {"3"}, "box": {"2"}})
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	session, _ := services.NewRecordSessionStore(app).Load()
	item := session.Items[0]
	if item.Status != services.StatusQuantityChanged || item.CollectedQuantity != 3 || item.Box != 2 {
		t.Errorf("quantity change not persisted: %+v", item)
	}
	if session.CurrentBox != 2 {
		t.Errorf("current box = %d, want 2", session.CurrentBox)
	}
}

func TestHandleChangeQuantity_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{"missing quantity", url.Values{"box": {"1"}}},
		{"non-numeric quantity", url.Values{"quantity": {"abc"}, "box": {"1"}}},
		{"negative quantity", url.Values{"quantity": {"-1"}, "box": {"1"}}},
		{"zero box", url.Values{"quantity": {"2"}, "box": {"0"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			saveTestSession(t, app, testSession(t.TempDir()))

			handler := HandleChangeQuantity(app)
			req := newFormRequest("/assembly/quantity", tt.values)
			rec := httptest.NewRecorder()
			if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}

			session, _ := services.NewRecordSessionStore(app).Load()
			if session.Items[0].Status != services.StatusPending {
				t.Errorf("rejected request mutated the session: %+v", session.Items[0])
			}
		})
	}
}

func TestHandleNextBox(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saveTestSession(t, app, testSession(t.TempDir()))

	handler := HandleNextBox(app)
	req := httptest.NewRequest(http.MethodPost, "/assembly/next-box", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeJSON(t, rec)
	if body["current_box"] != float64(2) {
		t.Errorf("current_box = %v, want 2", body["current_box"])
	}

	session, _ := services.NewRecordSessionStore(app).Load()
	if session.CurrentBox != 2 {
		t.Errorf("box change not persisted: %d", session.CurrentBox)
	}
}
