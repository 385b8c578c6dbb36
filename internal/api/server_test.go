package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/txparse/internal/classifier"
	"github.com/cleared-dev/txparse/internal/model"
	"github.com/cleared-dev/txparse/internal/receipt"
	"github.com/cleared-dev/txparse/internal/taxonomy"
	"github.com/cleared-dev/txparse/internal/voice"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	now := func() time.Time { return time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC) }
	tax := taxonomy.Default()
	vp := voice.NewParser(classifier.New(tax), voice.WithClock(now))
	rp := receipt.NewParser(tax, receipt.WithClock(now))
	cfg := DefaultConfig()
	cfg.Version = "test"
	return NewServer(cfg, tax, vp, rp, zerolog.Nop())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestParseVoice(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/parse/voice",
		`{"text": "Paid three hundred for mcdonalds burger"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ParseResponse](t, rec)
	assert.Equal(t, "300", resp.Transaction.Amount.String())
	assert.Equal(t, "Food", resp.Transaction.Category)
	assert.Equal(t, model.TypeExpense, resp.Transaction.Type)
	assert.Equal(t, "2025-04-02", resp.Transaction.Date)
	assert.False(t, resp.ReviewNeeded)
	assert.Nil(t, resp.Analysis)
}

func TestParseVoice_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"invalid json", `{`, http.StatusBadRequest, ErrCodeBadRequest},
		{"empty text", `{"text": "  "}`, http.StatusUnprocessableEntity, ErrCodeValidation},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/parse/voice", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decode[APIError](t, rec).Code)
		})
	}
}

func TestParseReceipt_TextOnly(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/parse/receipt",
		`{"text": "Corner Shop\nTotal 85.00"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ParseResponse](t, rec)
	assert.Equal(t, "85", resp.Transaction.Amount.String())
	assert.Equal(t, model.CategoryOther, resp.Transaction.Category)
	assert.Equal(t, receipt.FallbackConfidence, resp.Transaction.Confidence)
	assert.True(t, resp.ReviewNeeded)
}

func TestParseReceipt_Explain(t *testing.T) {
	body := `{
  "text": "PVR\nTotal\n350.00",
  "blocks": [{"boundingBox": {"vertices": [{"x":0,"y":0},{"x":500,"y":0},{"x":500,"y":1000},{"x":0,"y":1000}]}}],
  "annotations": [
    {"description": "PVR\nTotal\n350.00"},
    {"description": "PVR", "boundingPoly": {"vertices": [{"x":10,"y":10},{"x":60,"y":10},{"x":60,"y":40},{"x":10,"y":40}]}},
    {"description": "Total", "boundingPoly": {"vertices": [{"x":10,"y":900},{"x":60,"y":900},{"x":60,"y":912},{"x":10,"y":912}]}},
    {"description": "350.00", "boundingPoly": {"vertices": [{"x":300,"y":900},{"x":360,"y":900},{"x":360,"y":912},{"x":300,"y":912}]}}
  ]
}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/parse/receipt?explain=true", body)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ParseResponse](t, rec)
	assert.Equal(t, "350", resp.Transaction.Amount.String())
	assert.Equal(t, "Entertainment", resp.Transaction.Category)
	assert.Equal(t, "PVR Cinemas - Order", resp.Transaction.Description)
	require.NotNil(t, resp.Analysis)
	assert.Len(t, resp.Analysis.Candidates, 1)
	assert.Equal(t, receipt.SourceTable, resp.Analysis.Merchant.Source)
}

func TestParseReceipt_Empty(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/parse/receipt", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTaxonomy(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/v1/taxonomy", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[TaxonomyResponse](t, rec)
	assert.Equal(t, "Food", resp.Categories[0].Name)
	assert.NotEmpty(t, resp.Merchants)
}

func TestNotFound(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrCodeNotFound, decode[APIError](t, rec).Code)
}

func TestPanicRecovery(t *testing.T) {
	s := newTestServer(t)
	s.router.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := do(t, s, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrCodeInternalError, decode[APIError](t, rec).Code)
}

func TestShutdownBeforeStart(t *testing.T) {
	s := newTestServer(t)

	require.NoError(t, s.Shutdown(context.Background()))

	done := make(chan error, 1)
	go func() { done <- s.Start() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
