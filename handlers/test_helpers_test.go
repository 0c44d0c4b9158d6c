package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"assemblytracker/services"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// newFormRequest builds a POST request with URL-encoded form values.
func newFormRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// saveTestSession persists a session so handlers have something to resume.
func saveTestSession(t *testing.T, app *pocketbase.PocketBase, session *services.AssemblySession) {
	t.Helper()
	if err := services.NewRecordSessionStore(app).Save(session); err != nil {
		t.Fatalf("failed to save test session: %v", err)
	}
}

// decodeJSON parses a recorded JSON response body.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, rec.Body.String())
	}
	return body
}

// testSession builds a two-item session writing reports into dir.
func testSession(dir string) *services.AssemblySession {
	return services.NewSession(&services.ParsedInput{
		Items: []services.AssemblyItem{
			{Article: "A-1", Name: "Widget", Quantity: 5, Barcode: "4600000000017", Location: "A1-01", Status: services.StatusPending},
			{Article: "A-2", Name: "Gadget", Quantity: 2, Status: services.StatusPending},
		},
		ShipmentInfo: "Shipment #42",
	}, "orders/today.xlsx", dir)
}
