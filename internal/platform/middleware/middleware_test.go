// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeCORSConfig satisfies [AppConfig] for middleware tests.
type fakeCORSConfig struct {
	development  bool
	extraOrigins []string
}

func (c fakeCORSConfig) IsDevelopment() bool           { return c.development }
func (c fakeCORSConfig) AllowedExtraOrigins() []string { return c.extraOrigins }

func runCORS(t *testing.T, cfg fakeCORSConfig, origin string) *httptest.ResponseRecorder {
	t.Helper()

	next := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	request := httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil)
	if origin != "" {
		request.Header.Set("Origin", origin)
	}

	recorder := httptest.NewRecorder()
	CORS(cfg)(next).ServeHTTP(recorder, request)
	return recorder
}

func TestCORS_ProductionOrigins(t *testing.T) {
	production := fakeCORSConfig{}

	testCases := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{name: "apex domain", origin: "https://meshly.social", allowed: true},
		{name: "subdomain", origin: "https://app.meshly.social", allowed: true},
		{name: "lookalike domain", origin: "https://evilmeshly.social", allowed: false},
		{name: "unrelated domain", origin: "https://example.com", allowed: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			recorder := runCORS(t, production, testCase.origin)

			allowHeader := recorder.Header().Get("Access-Control-Allow-Origin")
			if testCase.allowed {
				assert.Equal(t, testCase.origin, allowHeader)
			} else {
				assert.Empty(t, allowHeader)
			}
		})
	}
}

func TestCORS_ExtraOrigins(t *testing.T) {
	cfg := fakeCORSConfig{extraOrigins: []string{"https://staging.example.dev"}}

	recorder := runCORS(t, cfg, "https://staging.example.dev")
	assert.Equal(t, "https://staging.example.dev", recorder.Header().Get("Access-Control-Allow-Origin"))

	recorder = runCORS(t, cfg, "https://other.example.dev")
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DevelopmentAllowsAnyOrigin(t *testing.T) {
	recorder := runCORS(t, fakeCORSConfig{development: true}, "http://localhost:3000")
	assert.Equal(t, "http://localhost:3000", recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("preflight must not reach the next handler")
	})

	request := httptest.NewRequest(http.MethodOptions, "/api/v1/feed", nil)
	request.Header.Set("Origin", "https://meshly.social")

	recorder := httptest.NewRecorder()
	CORS(fakeCORSConfig{})(next).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
