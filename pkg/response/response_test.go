package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return resp
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusOK, "Doctors retrieved", []string{"a"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}

	resp := decode(t, rec)
	if !resp.Success || resp.Message != "Doctors retrieved" || resp.Data == nil {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusConflict, "Fully booked", nil)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp.Success || resp.Message != "Fully booked" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"patient_name": "required"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp.Success || resp.Message != "Validation failed" || resp.Error == nil {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestDefaultMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "")
	if resp := decode(t, rec); resp.Message != "Resource not found" {
		t.Fatalf("expected default not-found message, got %q", resp.Message)
	}

	rec = httptest.NewRecorder()
	InternalServerError(rec, "")
	if resp := decode(t, rec); resp.Message != "Internal server error" {
		t.Fatalf("expected default error message, got %q", resp.Message)
	}
}
