package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"tabsum/internal/middleware"
	"tabsum/internal/services"
)

// ArtifactHandler serves published summary documents and run manifests
type ArtifactHandler struct {
	service         *services.ArtifactService
	validator       *middleware.ValidationMiddleware
	defaultArtifact string
	logger          *slog.Logger
}

// NewArtifactHandler creates a new artifact handler. defaultArtifact names
// the document served when the request does not select one.
func NewArtifactHandler(service *services.ArtifactService, validator *middleware.ValidationMiddleware, defaultArtifact string, logger *slog.Logger) *ArtifactHandler {
	return &ArtifactHandler{
		service:         service,
		validator:       validator,
		defaultArtifact: defaultArtifact,
		logger:          logger.With(slog.String("handler", "artifact")),
	}
}

// Summary handles GET /api/summary. The published document is written
// verbatim; an optional artifact query parameter selects a document other
// than the default.
func (h *ArtifactHandler) Summary(w http.ResponseWriter, r *http.Request) {
	name, ok := h.validator.ValidateArtifact(w, r, "artifact", h.defaultArtifact)
	if !ok {
		return
	}

	data, err := h.service.Summary(r.Context(), name)
	if err != nil {
		h.respondError(w, r, err, name)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}

// Manifest handles GET /api/manifest
func (h *ArtifactHandler) Manifest(w http.ResponseWriter, r *http.Request) {
	manifest, err := h.service.Manifest(r.Context())
	if err != nil {
		h.respondError(w, r, err, "")
		return
	}

	render.JSON(w, r, manifest)
}

// respondError maps service errors to problem responses
func (h *ArtifactHandler) respondError(w http.ResponseWriter, r *http.Request, err error, name string) {
	ctx := r.Context()
	traceID := middleware.GetReqID(ctx)

	switch {
	case errors.Is(err, services.ErrArtifactNotFound):
		problem := middleware.ProblemFromStatus(
			http.StatusNotFound,
			fmt.Sprintf("artifact %s has not been published", name),
			traceID,
		)
		problem.Render(w, r)

	case errors.Is(err, services.ErrManifestNotFound):
		problem := middleware.ProblemFromStatus(
			http.StatusNotFound,
			"no run has been published yet",
			traceID,
		)
		problem.Render(w, r)

	default:
		h.logger.ErrorContext(ctx, "artifact request failed",
			slog.String("artifact", name),
			slog.String("error", err.Error()))

		problem := middleware.ProblemFromStatus(
			http.StatusInternalServerError,
			"failed to read published artifact",
			traceID,
		)
		problem.Render(w, r)
	}
}
