package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lyall/statusd/internal/version"
)

func TestNewStatusResponse(t *testing.T) {
	got := NewStatusResponse("go", version.Version{Major: 1, Minor: 4})
	want := StatusResponse{Status: "success", Data: "yes!", Service: "go", Version: "1.4"}
	if got != want {
		t.Fatalf("NewStatusResponse() = %+v, want %+v", got, want)
	}
}

func TestEncodeStatusFieldNames(t *testing.T) {
	body, err := encodeStatus(NewStatusResponse("go", version.Version{Major: 1, Minor: 4}))
	if err != nil {
		t.Fatalf("encodeStatus: %v", err)
	}
	want := `{"status":"success","data":"yes!","service":"go","version":"1.4"}`
	if string(body) != want {
		t.Fatalf("body = %s, want %s", body, want)
	}
}

func TestStatusHandler(t *testing.T) {
	h := NewStatusHandler(ServiceName, version.Version{Major: 1, Minor: 4}, nil)

	rr := httptest.NewRecorder()
	h.Status(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := map[string]string{"status": "success", "data": "yes!", "service": "go", "version": "1.4"}
	if len(resp) != len(want) {
		t.Fatalf("body has %d keys, want %d: %v", len(resp), len(want), resp)
	}
	for k, v := range want {
		if resp[k] != v {
			t.Fatalf("%s = %q, want %q", k, resp[k], v)
		}
	}
}

func TestStatusHandlerUnknownVersion(t *testing.T) {
	h := NewStatusHandler(ServiceName, version.Unknown, nil)

	rr := httptest.NewRecorder()
	h.Status(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(rr.Body.String(), `"version":"0.0"`) {
		t.Fatalf("body = %s, want sentinel version", rr.Body.String())
	}
}

func TestStatusHandlerEncodeFailure(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := NewStatusHandler(ServiceName, version.Version{Major: 1, Minor: 4}, logger)
	h.encode = func(StatusResponse) ([]byte, error) {
		return nil, errors.New("boom")
	}

	rr := httptest.NewRecorder()
	h.Status(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("body = %q, want empty", rr.Body.String())
	}
	if !strings.Contains(logs.String(), `"level":"ERROR"`) || !strings.Contains(logs.String(), "boom") {
		t.Fatalf("expected error log, got %q", logs.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	MethodNotAllowed("/", http.MethodGet)(rr, httptest.NewRequest(http.MethodPost, "/", nil))

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rr.Code)
	}
	if allow := rr.Header().Get("Allow"); allow != http.MethodGet {
		t.Fatalf("Allow = %q", allow)
	}
}

func TestMethodNotAllowedOtherPath(t *testing.T) {
	rr := httptest.NewRecorder()
	MethodNotAllowed("/", http.MethodGet)(rr, httptest.NewRequest("PURGE", "/missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if allow := rr.Header().Get("Allow"); allow != "" {
		t.Fatalf("Allow = %q, want none", allow)
	}
}

func TestNotFound(t *testing.T) {
	rr := httptest.NewRecorder()
	NotFound(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("body = %q, want empty", rr.Body.String())
	}
}
