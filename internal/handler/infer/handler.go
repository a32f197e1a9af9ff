package infer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	inferservice "github.com/sibyl-lab/sibyl-sft/internal/service/infer"
	"github.com/sibyl-lab/sibyl-sft/pkg/utils"
)

// Handler serves inference over plain HTTP, SSE, and websocket.
type Handler struct {
	harness  *inferservice.Harness
	upgrader websocket.Upgrader
}

// New creates the inference handler.
func New(harness *inferservice.Harness) *Handler {
	return &Handler{
		harness: harness,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the inference endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/infer", h.handleInfer)
	r.Get("/infer/stream", h.handleStream)
	r.Get("/infer/ws", h.handleWebSocket)
}

type inferRequest struct {
	Board string `json:"board"`
}

// decisionReport is the wire form of a classified response.
type decisionReport struct {
	SessionID    string `json:"sessionId,omitempty"`
	Status       string `json:"status"`
	Raw          string `json:"raw"`
	Thinking     string `json:"thinking"`
	FirstAction  string `json:"firstAction"`
	SecondAction string `json:"secondAction"`
}

func newDecisionReport(resp inferservice.ClassifiedResponse) decisionReport {
	return decisionReport{
		Status:       string(resp.Status),
		Raw:          resp.Raw,
		Thinking:     resp.ThinkingPreview(),
		FirstAction:  resp.FirstActionType(),
		SecondAction: resp.SecondActionType(),
	}
}

func (h *Handler) handleInfer(w http.ResponseWriter, r *http.Request) {
	var payload inferRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	board := strings.TrimSpace(payload.Board)
	if board == "" {
		utils.RespondError(w, http.StatusBadRequest, "board is required")
		return
	}

	resp, err := h.harness.RunBoard(r.Context(), board)
	if err != nil {
		log.Printf("[infer] generation failed: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "generation failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, newDecisionReport(resp))
}

// streamGenerator is the optional capability for incremental output.
type streamGenerator interface {
	GenerateStream(ctx context.Context, prompt string, maxTokens int) (*schema.StreamReader[*schema.Message], error)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	board := strings.TrimSpace(r.URL.Query().Get("board"))
	if board == "" {
		utils.RespondError(w, http.StatusBadRequest, "board query parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	sessionID := uuid.NewString()
	utils.SendSSEEvent(w, flusher, "start", map[string]string{"sessionId": sessionID})

	gen := h.harness.Generator()
	sg, ok := gen.(streamGenerator)
	if !ok {
		// Engine cannot stream; fall back to one blocking generation.
		resp, err := h.harness.RunBoard(r.Context(), board)
		if err != nil {
			log.Printf("[stream] generation failed session=%s: %v", sessionID, err)
			utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": "generation failed"})
			return
		}
		report := newDecisionReport(resp)
		report.SessionID = sessionID
		utils.SendSSEEvent(w, flusher, "result", report)
		return
	}

	prompt, err := inferservice.BuildPrompt(gen, inferservice.BoardMessages(board))
	if err != nil {
		utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
		return
	}

	stream, err := sg.GenerateStream(r.Context(), prompt, h.harness.MaxTokens())
	if err != nil {
		log.Printf("[stream] stream open failed session=%s: %v", sessionID, err)
		utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": "generation failed"})
		return
	}
	defer stream.Close()

	var full strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("[stream] recv failed session=%s: %v", sessionID, err)
			utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": "stream interrupted"})
			return
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}
		full.WriteString(chunk.Content)
		utils.SendSSEEvent(w, flusher, "chunk", map[string]string{"content": chunk.Content})
	}

	report := newDecisionReport(inferservice.Classify(full.String()))
	report.SessionID = sessionID
	utils.SendSSEEvent(w, flusher, "result", report)
}
