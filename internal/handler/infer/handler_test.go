package infer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	inferhandler "github.com/sibyl-lab/sibyl-sft/internal/handler/infer"
	inferservice "github.com/sibyl-lab/sibyl-sft/internal/service/infer"
)

type fakeGenerator struct {
	reply string
	err   error
}

func (g *fakeGenerator) Name() string { return "fake" }

func (g *fakeGenerator) Generate(context.Context, string, int) (string, error) {
	return g.reply, g.err
}

func setupRouter(gen inferservice.Generator) *chi.Mux {
	harness := inferservice.NewHarness(gen, 0)
	handler := inferhandler.New(harness)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postInfer(t *testing.T, r http.Handler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/infer", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestInferValidDecision(t *testing.T) {
	r := setupRouter(&fakeGenerator{reply: `{"thinking":"advance","firstAction":{"type":"move"},"secondAction":{"type":"attack"}}`})

	resp := postInfer(t, r, map[string]string{"board": "unit at (1,1)"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var report struct {
		Status       string `json:"status"`
		FirstAction  string `json:"firstAction"`
		SecondAction string `json:"secondAction"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if report.Status != "valid" {
		t.Fatalf("unexpected status: %s", report.Status)
	}
	if report.FirstAction != "move" || report.SecondAction != "attack" {
		t.Fatalf("unexpected actions: %s / %s", report.FirstAction, report.SecondAction)
	}
}

func TestInferUnparseableOutputIsNotAnError(t *testing.T) {
	r := setupRouter(&fakeGenerator{reply: `{"thinking": "I should`})

	resp := postInfer(t, r, map[string]string{"board": "unit at (1,1)"})
	if resp.Code != http.StatusOK {
		t.Fatalf("format mismatch is non-fatal, expected 200, got %d", resp.Code)
	}

	var report struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if report.Status != "invalid_json" {
		t.Fatalf("unexpected status: %s", report.Status)
	}
}

func TestInferMissingBoard(t *testing.T) {
	r := setupRouter(&fakeGenerator{reply: "{}"})

	resp := postInfer(t, r, map[string]string{"board": "   "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestInferGenerationFailure(t *testing.T) {
	r := setupRouter(&fakeGenerator{err: errors.New("engine down")})

	resp := postInfer(t, r, map[string]string{"board": "unit at (1,1)"})
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestStreamFallsBackWithoutStreamCapability(t *testing.T) {
	r := setupRouter(&fakeGenerator{reply: `{"thinking":"x"}`})

	req := httptest.NewRequest(http.MethodGet, "/infer/stream?board=unit", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !bytes.Contains([]byte(body), []byte("event: start")) {
		t.Fatalf("missing start event: %q", body)
	}
	if !bytes.Contains([]byte(body), []byte("event: result")) {
		t.Fatalf("missing result event: %q", body)
	}
}

func TestStreamRequiresBoard(t *testing.T) {
	r := setupRouter(&fakeGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/infer/stream", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
