package api

import (
	"bytes"
	"encoding/json"
	"net/http"
)

type automationResponse struct {
	Status       string `json:"status"`
	ReceivedRows int    `json:"received_rows"`
}

// AutomationHandler acknowledges automation start requests.
type AutomationHandler struct {
	deps         Automator
	maxBodyBytes int64
}

// NewAutomationHandler creates a new automation handler.
func NewAutomationHandler(deps Automator, maxBodyBytes int64) *AutomationHandler {
	return &AutomationHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandleStart handles POST /api/automation/start. The body is a JSON object
// whose optional "rows" array is counted; anything that is not an array
// counts as zero rows.
func (h *AutomationHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	const op = "api.automation_start"
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
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(obj, &payload); err != nil {
		writeError(w, WrapKind(op, ErrInvalidInput, err))
		return
	}
	n := countArray(payload["rows"])
	status := h.deps.StartAutomation(r.Context(), n)
	writeJSON(w, http.StatusOK, automationResponse{Status: status, ReceivedRows: n})
}

// countArray returns the length of raw if it is a JSON array, else 0.
func countArray(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return 0
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0
	}
	return len(items)
}
