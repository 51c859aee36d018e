package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mmopane/sitechat/internal/auth"
)

// maxUploadSize caps uploaded images (10MB).
const maxUploadSize = 10 << 20

// UploadHandler stores admin image uploads on disk and returns their
// public URL, mirroring the hosted upload widget's { url } contract.
type UploadHandler struct {
	dir     string
	baseURL string
	gate    *auth.Gate
}

// NewUploadHandler creates the upload handler. Files land in dir and are
// served under baseURL.
func NewUploadHandler(dir, baseURL string, gate *auth.Gate) *UploadHandler {
	return &UploadHandler{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		gate:    gate,
	}
}

// RegisterRoutes mounts the gated upload endpoint and the public file
// server for previously uploaded files.
func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.With(h.gate.Middleware).Post("/api/admin/upload", h.upload)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.dir))))
}

func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		Error(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		Error(w, http.StatusBadRequest, "unsupported file type")
		return
	}

	if err := os.MkdirAll(h.dir, 0755); err != nil {
		slog.Error("failed to create upload directory", "error", err)
		Error(w, http.StatusInternalServerError, "upload failed")
		return
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		slog.Error("failed to create upload file", "error", err)
		Error(w, http.StatusInternalServerError, "upload failed")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		slog.Error("failed to write upload", "error", err)
		Error(w, http.StatusInternalServerError, "upload failed")
		return
	}

	JSON(w, http.StatusOK, map[string]string{
		"url": fmt.Sprintf("%s/uploads/%s", h.baseURL, name),
	})
}
