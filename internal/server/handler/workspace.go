package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prophetlabs/signal2store/internal/domain"
	"github.com/prophetlabs/signal2store/internal/service"
)

// WorkspaceService defines the draft-lifecycle methods the workspace
// handler requires.
type WorkspaceService interface {
	State(ctx context.Context) (service.WorkspaceState, error)
	Drafts(ctx context.Context) ([]domain.Draft, error)
	Published(ctx context.Context) ([]domain.PublishedProduct, error)
	Events(ctx context.Context, limit int) ([]domain.Event, error)
	Prefs(ctx context.Context) (domain.Preferences, error)
	UpdatePrefs(ctx context.Context, prefs domain.Preferences) (domain.Preferences, error)
	CreateDraft(ctx context.Context, sig domain.DemandSignal, product domain.RecommendedProduct) (domain.Draft, bool, error)
	Publish(ctx context.Context, draftID string) (domain.PublishedProduct, error)
	Reject(ctx context.Context, draftID string) (domain.Draft, error)
	Reset(ctx context.Context) error
}

// WorkspaceHandler serves the draft workspace endpoints. Draft creation
// resolves its signal through the market service because signals are
// derived state and carry no server-side identity between requests.
type WorkspaceHandler struct {
	workspace WorkspaceService
	markets   MarketService
	logger    *slog.Logger
}

// NewWorkspaceHandler creates a WorkspaceHandler.
func NewWorkspaceHandler(workspace WorkspaceService, markets MarketService, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspace: workspace,
		markets:   markets,
		logger:    logger,
	}
}

// GetState returns the full workspace view: drafts, published products,
// recent events, and preferences.
// GET /api/workspace
func (h *WorkspaceHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.workspace.State(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: workspace state failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to load workspace")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// ListDrafts returns all retained drafts.
// GET /api/drafts
func (h *WorkspaceHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.workspace.Drafts(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list drafts failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list drafts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drafts": drafts})
}

// ListPublished returns all retained published products.
// GET /api/published
func (h *WorkspaceHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	published, err := h.workspace.Published(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list published failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list published products")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"published": published})
}

// ListEvents returns recent workspace events, newest first. The optional
// limit query parameter caps the page; invalid values fall back to the
// default.
// GET /api/events?limit=
func (h *WorkspaceHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.workspace.Events(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list events failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// GetPrefs returns the operator preferences.
// GET /api/prefs
func (h *WorkspaceHandler) GetPrefs(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.workspace.Prefs(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: get prefs failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// PutPrefs replaces the operator preferences.
// PUT /api/prefs
func (h *WorkspaceHandler) PutPrefs(w http.ResponseWriter, r *http.Request) {
	var prefs domain.Preferences
	if err := decodeJSON(r, &prefs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, err := h.workspace.UpdatePrefs(r.Context(), prefs)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: put prefs failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to store preferences")
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

type createDraftRequest struct {
	SignalID  string `json:"signalId"`
	ProductID string `json:"productId"`
}

type createDraftResponse struct {
	Draft   *domain.Draft `json:"draft,omitempty"`
	Created bool          `json:"created"`
}

// CreateDraft materializes one recommended product of a signal as a draft.
// A duplicate product key is a 200 no-op with created=false.
// POST /api/drafts
func (h *WorkspaceHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SignalID == "" || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing signalId or productId")
		return
	}

	signals, _, err := h.markets.Signals(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: derive signals failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to derive signals")
		return
	}

	sig, product, ok := findProduct(signals, req.SignalID, req.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "signal or product not found")
		return
	}

	draft, created, err := h.workspace.CreateDraft(r.Context(), sig, product)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: create draft failed",
			slog.String("signal_id", req.SignalID),
			slog.String("product_id", req.ProductID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to create draft")
		return
	}

	resp := createDraftResponse{Created: created}
	if created {
		resp.Draft = &draft
	}
	writeJSON(w, http.StatusOK, resp)
}

// Publish moves a draft to the storefront.
// POST /api/drafts/{id}/publish
func (h *WorkspaceHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing draft id")
		return
	}

	product, err := h.workspace.Publish(r.Context(), id)
	if err != nil {
		h.writeDraftError(w, r, "publish", id, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Reject discards a draft, releasing its product key.
// POST /api/drafts/{id}/reject
func (h *WorkspaceHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing draft id")
		return
	}

	draft, err := h.workspace.Reject(r.Context(), id)
	if err != nil {
		h.writeDraftError(w, r, "reject", id, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// Reset clears all workspace state.
// POST /api/workspace/reset
func (h *WorkspaceHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.workspace.Reset(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "handler: workspace reset failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to reset workspace")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *WorkspaceHandler) writeDraftError(w http.ResponseWriter, r *http.Request, op, id string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "draft not found")
	case errors.Is(err, domain.ErrInvalidDraftState):
		writeError(w, http.StatusConflict, "draft is not in draft status")
	default:
		h.logger.ErrorContext(r.Context(), "handler: draft "+op+" failed",
			slog.String("draft_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to "+op+" draft")
	}
}

// findProduct locates a signal and one of its recommended products by ID.
func findProduct(signals []domain.DemandSignal, signalID, productID string) (domain.DemandSignal, domain.RecommendedProduct, bool) {
	for _, sig := range signals {
		if sig.ID != signalID {
			continue
		}
		for _, p := range sig.RecommendedProducts {
			if p.ID == productID {
				return sig, p, true
			}
		}
		break
	}
	return domain.DemandSignal{}, domain.RecommendedProduct{}, false
}
