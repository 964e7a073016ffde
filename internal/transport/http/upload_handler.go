package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "advisorcli/internal/errors"
	"advisorcli/internal/exporter"
	"advisorcli/internal/services"
	"advisorcli/pkg/contracts/domain"
)

// multipartMemoryLimit bounds the in-memory portion of multipart
// parsing; larger parts spill to temp files.
const multipartMemoryLimit = 10 << 20

// UploadServiceInterface is the service surface the handler needs,
// kept as an interface so tests can substitute the service.
type UploadServiceInterface interface {
	Process(ctx context.Context, data []byte, meta domain.UploadMeta) (*services.Upload, error)
	Get(ctx context.Context, id string) (*services.Upload, error)
	List(ctx context.Context) []services.UploadSummary
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, id string, format exporter.Format, out io.Writer) (string, error)
}

// UploadHandler handles recommendation upload HTTP requests.
type UploadHandler struct {
	service       UploadServiceInterface
	logger        *slog.Logger
	errorHandler  *apierrors.ErrorHandler
	maxUploadSize int64
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(service UploadServiceInterface, maxUploadSize int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *UploadHandler {
	return &UploadHandler{
		service:       service,
		logger:        logger.With(slog.String("component", "upload_handler")),
		errorHandler:  errorHandler,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the upload routes.
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateUpload)
	r.Get("/", h.ListUploads)

	r.Route("/{uploadID}", func(r chi.Router) {
		r.Get("/", h.GetUpload)
		r.Get("/statistics", h.GetStatistics)
		r.Get("/export", h.ExportUpload)
		r.Delete("/", h.DeleteUpload)
	})

	return r
}

// CreateUpload handles POST /api/uploads. The file arrives as the
// multipart form field "file".
func (h *UploadHandler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartMemoryLimit)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "request is not valid multipart form data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.New(http.StatusBadRequest, "upload_read_failed", "could not read uploaded file"))
		return
	}

	meta := domain.UploadMeta{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}

	upload, err := h.service.Process(r.Context(), data, meta)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, upload)
}

// ListUploads handles GET /api/uploads.
func (h *UploadHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"uploads": h.service.List(r.Context()),
	})
}

// GetUpload handles GET /api/uploads/{uploadID}.
func (h *UploadHandler) GetUpload(w http.ResponseWriter, r *http.Request) {
	upload, err := h.service.Get(r.Context(), chi.URLParam(r, "uploadID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, upload)
}

// GetStatistics handles GET /api/uploads/{uploadID}/statistics.
func (h *UploadHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	upload, err := h.service.Get(r.Context(), chi.URLParam(r, "uploadID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, upload.Statistics)
}

// ExportUpload handles GET /api/uploads/{uploadID}/export?format=csv.
func (h *UploadHandler) ExportUpload(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}

	id := chi.URLParam(r, "uploadID")

	// Render into a buffer first so a failed export still produces a
	// problem document instead of a truncated body.
	var buf bytes.Buffer
	filename, err := h.service.Export(r.Context(), id, format, &buf)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(r.Context(), "export write failed",
			slog.String("upload_id", id),
			slog.String("error", err.Error()))
	}
}

// DeleteUpload handles DELETE /api/uploads/{uploadID}.
func (h *UploadHandler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "uploadID")); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.NoContent(w, r)
}
