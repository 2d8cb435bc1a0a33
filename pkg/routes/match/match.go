// Package match exposes the matching engine over HTTP.
package match

import (
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/providers"
)

var validate = validator.New()

// Handler serves match requests.
type Handler struct {
	service  *matching.Service
	emitter  *events.Emitter
	embedder providers.EmbeddingProvider
	logger   ectologger.Logger
}

// NewHandler creates a new match handler. The emitter and embedder may be
// nil; without an emitter no events are published, without an embedder
// source items missing a text embedding are scored as-is.
func NewHandler(service *matching.Service, emitter *events.Emitter, embedder providers.EmbeddingProvider, logger ectologger.Logger) *Handler {
	return &Handler{
		service:  service,
		emitter:  emitter,
		embedder: embedder,
		logger:   logger,
	}
}

// Register registers match routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("/find-matches", h.FindMatches)
}

// FindMatches scores the request's candidates against its source item and
// returns the ranked matches.
func (h *Handler) FindMatches(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.MatchRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(&req); err != nil {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid request: %s", err.Error())
	}

	h.backfillEmbedding(c, &req.SourceItem)

	response := h.service.FindMatches(ctx, &req)

	// Event emission is best-effort; a bus outage never fails the request.
	if h.emitter != nil && response.TotalMatches > 0 {
		if err := h.emitter.EmitMatchesFound(ctx, response); err != nil {
			h.logger.WithContext(ctx).WithError(err).Warn("Match events not published")
		}
	}

	return c.JSON(http.StatusOK, response)
}

// backfillEmbedding fills in a missing source-item text embedding from the
// annotation service. Best-effort: on failure the item is scored without the
// embedding signal.
func (h *Handler) backfillEmbedding(c echo.Context, item *models.Item) {
	if h.embedder == nil || len(item.AIMetadata.TextEmbedding) > 0 {
		return
	}

	text := strings.TrimSpace(item.Title + " " + item.Description)
	if text == "" {
		return
	}

	ctx := c.Request().Context()
	embedding, err := h.embedder.Embed(ctx, text)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Warn("Failed to backfill source item embedding")
		return
	}
	item.AIMetadata.TextEmbedding = embedding
}
