package reviews

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/veridia/clauseguard/internal/extraction"
	"github.com/veridia/clauseguard/pkg/handlers"
	"github.com/veridia/clauseguard/pkg/pagination"
	"github.com/veridia/clauseguard/pkg/routes"
	"github.com/veridia/clauseguard/pkg/storage"
)

// Handler provides HTTP endpoints for review operations.
type Handler struct {
	sys             System
	storage         storage.System
	trigger         Trigger
	logger          *slog.Logger
	pagination      pagination.Config
	playbookVersion string
	maxUploadSize   int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// StartResponse reports that pipeline processing has been enqueued.
type StartResponse struct {
	ReviewID uuid.UUID `json:"review_id"`
	Status   Status    `json:"status"`
	JobID    string    `json:"job_id"`
}

// ResultsResponse is the full verdict payload for a review.
type ResultsResponse struct {
	ReviewID        uuid.UUID          `json:"review_id"`
	Status          Status             `json:"status"`
	Decision        *string            `json:"decision,omitempty"`
	Summary         json.RawMessage    `json:"summary,omitempty"`
	PlaybookVersion string             `json:"playbook_version"`
	Evaluations     []ClauseEvaluation `json:"evaluations"`
}

// NewHandler creates a Handler for review endpoints.
func NewHandler(
	sys System,
	store storage.System,
	trigger Trigger,
	logger *slog.Logger,
	pagination pagination.Config,
	playbookVersion string,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:             sys,
		storage:         store,
		trigger:         trigger,
		logger:          logger.With("handler", "reviews"),
		pagination:      pagination,
		playbookVersion: playbookVersion,
		maxUploadSize:   maxUploadSize,
	}
}

// Routes returns the route group definition for review endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/reviews",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/results", Handler: h.Results},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/{id}/upload", Handler: h.Upload},
			{Method: "POST", Pattern: "/{id}/start", Handler: h.Start},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of reviews with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single review by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	review, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, review)
}

// Create registers a new review with optional reviewer-supplied context.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidContext)
			return
		}
	}

	review, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, review)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching reviews.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Upload attaches a source document to a review from a multipart form.
// The document is stored in blob storage before the review row is updated.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	if h.maxUploadSize > 0 && int64(len(data)) > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	contentType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if !extraction.Supported(contentType) {
		handlers.RespondError(w, h.logger, http.StatusUnsupportedMediaType,
			fmt.Errorf("%w: unsupported content type %q", ErrInvalidFile, contentType))
		return
	}

	filename := sanitizeFilename(header.Filename)
	digest := sha256.Sum256(data)
	key := buildStorageKey(id, filename)

	if err := h.storage.Upload(r.Context(), key, bytes.NewReader(data), contentType); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	cmd := AttachDocumentCommand{
		Filename:   filename,
		Mime:       contentType,
		SizeBytes:  int64(len(data)),
		SHA256:     hex.EncodeToString(digest[:]),
		StorageKey: key,
		PageCount:  extractPDFPageCount(h.logger, data, contentType),
	}

	review, err := h.sys.AttachDocument(r.Context(), id, cmd)
	if err != nil {
		if delErr := h.storage.Delete(r.Context(), key); delErr != nil {
			h.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, review)
}

// Start marks the review as processing and enqueues the pipeline job.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	review, err := h.sys.Start(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	jobID, err := h.trigger(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, StartResponse{
		ReviewID: review.ID,
		Status:   review.Status,
		JobID:    jobID,
	})
}

// Results returns the review's clause evaluations, decision, and summary.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	review, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	evaluations, err := h.sys.ListEvaluations(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ResultsResponse{
		ReviewID:        review.ID,
		Status:          review.Status,
		Decision:        review.Decision,
		Summary:         review.Summary,
		PlaybookVersion: h.playbookVersion,
		Evaluations:     evaluations,
	})
}

// Delete removes a review by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func buildStorageKey(reviewID uuid.UUID, filename string) string {
	return fmt.Sprintf("reviews/%s/source/%s_%s", reviewID, uuid.New(), filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		return "file"
	}

	var b strings.Builder
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == '.' || ch == '-' || ch == '_':
			b.WriteRune(ch)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

func extractPDFPageCount(logger *slog.Logger, data []byte, contentType string) *int {
	if contentType != extraction.MediaTypePDF {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}
