package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/enrichdash/internal/domain/ingest"
)

// Multipart field carrying the uploaded file.
const uploadField = "file"

// maxMultipartMemory bounds the in-memory part of a parsed form; larger
// parts spill to temporary files.
const maxMultipartMemory = 8 << 20

type uploadResponse struct {
	Rows    []ingest.Row `json:"rows"`
	Message string       `json:"message"`
}

// UploadHandler accepts lead files.
type UploadHandler struct {
	deps           Ingestor
	maxUploadBytes int64
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(deps Ingestor, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{deps: deps, maxUploadBytes: maxUploadBytes}
}

// HandleUpload handles POST /api/upload-csv with a multipart "file" field.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload_csv"
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(min(h.maxUploadBytes, maxMultipartMemory)); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, NewKind(op, ErrInvalidInput, fmt.Sprintf("upload exceeds %d bytes", h.maxUploadBytes)))
			return
		}
		writeError(w, WrapKind(op, ErrInvalidInput, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, NewKind(op, ErrInvalidInput, fmt.Sprintf("missing file field %q", uploadField)))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, WrapKind(op, ErrInvalidInput, err))
		return
	}

	rows, err := h.deps.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		Rows:    rows,
		Message: fmt.Sprintf("Received %d rows.", len(rows)),
	})
}
