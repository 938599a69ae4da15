package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusHelpers_DefaultMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Conflict(rec, "")

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	var body Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Message != "Conflict" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestValidationError_CarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"status": "status is required"})

	var body struct {
		Success bool              `json:"success"`
		Error   map[string]string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusBadRequest || body.Error["status"] == "" {
		t.Errorf("unexpected response %d %+v", rec.Code, body)
	}
}

func TestPDF_Headers(t *testing.T) {
	rec := httptest.NewRecorder()
	PDF(rec, "receipt-1.pdf", []byte("%PDF"))

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="receipt-1.pdf"` {
		t.Errorf("disposition = %q", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "4" {
		t.Errorf("length = %q", got)
	}
}
