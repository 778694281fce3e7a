package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ai-visible/articleengine/internal/article"
)

func TestHandler_RoutesJobCreation(t *testing.T) {
	s := NewServer(testEngine(), nil, "")
	handler := s.Handler()

	body, _ := json.Marshal(article.JobConfig{PrimaryKeyword: "widgets"})
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_UnknownRouteReturns404(t *testing.T) {
	s := NewServer(testEngine(), nil, "")
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_RejectsUnauthorizedWhenSecretConfigured(t *testing.T) {
	s := NewServer(testEngine(), nil, "topsecret")
	handler := s.Handler()

	body, _ := json.Marshal(article.JobConfig{PrimaryKeyword: "widgets"})
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
