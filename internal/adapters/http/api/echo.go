package api

import (
	"encoding/json"
	"net/http"
)

type echoResponse struct {
	YouSent json.RawMessage `json:"you_sent"`
}

// EchoHandler returns the posted JSON object.
type EchoHandler struct {
	maxBodyBytes int64
}

// NewEchoHandler creates a new echo handler.
func NewEchoHandler(maxBodyBytes int64) *EchoHandler {
	return &EchoHandler{maxBodyBytes: maxBodyBytes}
}

// HandleEcho handles POST /api/echo.
func (h *EchoHandler) HandleEcho(w http.ResponseWriter, r *http.Request) {
	const op = "api.echo"
	body, err := readBody(w, r, op, h.maxBodyBytes)
	if err != nil {
		writeError(w, err)
		return
	}
	obj, err := decodeObject(op, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, echoResponse{YouSent: obj})
}
