package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusNotFound, "service not found")

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got["error"] != "service not found" {
		t.Errorf("Expected error message, got %v", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Message string `json:"message"`
	}

	t.Run("Valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hi"}`))
		var p payload
		if err := decodeJSON(httptest.NewRecorder(), r, &p); err != nil {
			t.Fatalf("decodeJSON: %v", err)
		}
		if p.Message != "hi" {
			t.Errorf("Message = %q, want %q", p.Message, "hi")
		}
	})

	t.Run("Malformed body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
		var p payload
		if err := decodeJSON(httptest.NewRecorder(), r, &p); err == nil {
			t.Error("expected decode error")
		}
	})

	t.Run("Oversized body rejected", func(t *testing.T) {
		big := `{"message":"` + strings.Repeat("x", maxRequestBodySize+1) + `"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
		var p payload
		if err := decodeJSON(httptest.NewRecorder(), r, &p); err == nil {
			t.Error("expected error for oversized body")
		}
	})
}
