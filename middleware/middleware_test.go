// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/readiness-pulse/models"
)

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusCreated, map[string]string{"hello": "world"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusNotFound, "Survey not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Error != "Not Found" {
		t.Errorf("Expected 'Not Found', got %s", body.Error)
	}
	if body.Message != "Survey not found" {
		t.Errorf("Unexpected message: %s", body.Message)
	}
}

func TestParseJSONBody(t *testing.T) {
	payload := models.AddQuestionRequest{Text: "What slows you down?", Force: "pain_of_old"}
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", "/surveys/x/questions", bytes.NewReader(raw))

	var parsed models.AddQuestionRequest
	if err := ParseJSONBody(req, &parsed); err != nil {
		t.Fatalf("ParseJSONBody failed: %v", err)
	}
	if parsed.Text != payload.Text || parsed.Force != payload.Force {
		t.Errorf("Parsed body mismatch: %+v", parsed)
	}
}

func TestParseJSONBody_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/surveys", bytes.NewReader([]byte("{not json")))

	var parsed models.CreateSurveyRequest
	if err := ParseJSONBody(req, &parsed); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestCORS_Preflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Preflight should not reach the inner handler")
	}))

	req := httptest.NewRequest("OPTIONS", "/surveys", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example" {
		t.Errorf("Unexpected allow-origin: %s", got)
	}
}

func TestCORS_PassesThrough(t *testing.T) {
	called := false
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if !called {
		t.Error("Inner handler should be called for non-preflight requests")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{"x-forwarded-for single", map[string]string{"X-Forwarded-For": "10.0.0.1"}, "192.168.1.1:1234", "10.0.0.1"},
		{"x-forwarded-for chain", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "192.168.1.1:1234", "10.0.0.1"},
		{"x-real-ip", map[string]string{"X-Real-IP": "10.0.0.3"}, "192.168.1.1:1234", "10.0.0.3"},
		{"remote addr", nil, "192.168.1.1:1234", "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); got != tt.expected {
				t.Errorf("GetClientIP() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestWithLogging(t *testing.T) {
	called := false
	handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/surveys/x/coverage", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if !called {
		t.Error("Wrapped handler should be called")
	}
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
}
