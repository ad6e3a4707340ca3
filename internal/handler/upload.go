package handler

import (
	"errors"
	"io"
	"net/http"

	"dinarex/internal/upload"
	dinarexerrors "dinarex/pkg/errors"
	"dinarex/pkg/logger"
)

// UploadHandler accepts multipart document uploads from the order form and
// returns the durable URL the form embeds in its submission payload.
type UploadHandler struct {
	uploader upload.Uploader
	logger   logger.Logger
	maxBytes int64
}

func NewUploadHandler(uploader upload.Uploader, log logger.Logger, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploader: uploader, logger: log, maxBytes: maxBytes}
}

// Upload expects a multipart form with a "file" part and a "kind" field of
// "id" or "receipt".
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	kind := r.FormValue("kind")
	if kind != "id" && kind != "receipt" {
		respondError(w, http.StatusBadRequest, "kind must be 'id' or 'receipt'")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file part required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	res, err := h.uploader.Upload(r.Context(), &upload.Request{
		Kind:     kind,
		FileName: header.Filename,
		Data:     data,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, dinarexerrors.ErrFileTooLarge):
			status = http.StatusRequestEntityTooLarge
		case errors.Is(err, dinarexerrors.ErrFileTypeNotAllowed), errors.Is(err, dinarexerrors.ErrFileMissing):
			status = http.StatusBadRequest
		}
		h.logger.Error("Upload failed", map[string]interface{}{
			"kind":  kind,
			"file":  header.Filename,
			"error": err.Error(),
		})
		respondJSON(w, status, map[string]interface{}{
			"ok":      false,
			"error":   "Failed to upload " + kind,
			"details": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"ok":       true,
		"url":      res.URL,
		"object":   res.ObjectName,
		"size":     res.Size,
		"checksum": res.ChecksumSHA256,
	})
}
