package infer

import (
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sibyl-lab/sibyl-sft/pkg/utils"
)

// wsReply is the frame sent back for each board state received on the
// websocket. Error and the decision fields are mutually exclusive.
type wsReply struct {
	decisionReport
	Error string `json:"error,omitempty"`
}

// handleWebSocket runs an interactive inference session over a websocket:
// every text frame is one complete board state, every reply its classified
// decision. The session lives until the client disconnects.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "websocket upgrade failed")
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	log.Printf("[ws] session %s opened from %s", sessionID, r.RemoteAddr)
	defer log.Printf("[ws] session %s closed", sessionID)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[ws] session %s read error: %v", sessionID, err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		board := strings.TrimSpace(string(data))
		if board == "" {
			h.writeReply(conn, sessionID, wsReply{Error: "empty board state"})
			continue
		}

		resp, err := h.harness.RunBoard(r.Context(), board)
		if err != nil {
			log.Printf("[ws] session %s generation failed: %v", sessionID, err)
			h.writeReply(conn, sessionID, wsReply{Error: "generation failed"})
			continue
		}

		h.writeReply(conn, sessionID, wsReply{decisionReport: newDecisionReport(resp)})
	}
}

func (h *Handler) writeReply(conn *websocket.Conn, sessionID string, reply wsReply) {
	reply.SessionID = sessionID
	if err := conn.WriteJSON(reply); err != nil {
		log.Printf("[ws] session %s write failed: %v", sessionID, err)
	}
}
