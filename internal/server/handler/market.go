package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// MarketService defines the methods the market handler requires from the
// service layer. It is declared locally so the handler package does not
// depend on the concrete service implementation.
type MarketService interface {
	Snapshot(ctx context.Context) domain.MarketBatch
	Signals(ctx context.Context) ([]domain.DemandSignal, domain.MarketBatch, error)
}

// MarketHandler serves the market snapshot and signal endpoints.
type MarketHandler struct {
	markets MarketService
	logger  *slog.Logger
}

// NewMarketHandler creates a MarketHandler with the given service and logger.
func NewMarketHandler(markets MarketService, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{
		markets: markets,
		logger:  logger,
	}
}

// ListMarkets returns the current ranked batch. The response is always 200:
// an unreachable upstream degrades to the bundled fallback dataset, with
// provenance recorded in the source and debug fields.
// GET /api/markets
func (h *MarketHandler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	batch := h.markets.Snapshot(r.Context())
	writeJSON(w, http.StatusOK, batch)
}

// signalsResponse wraps the derived signals with batch provenance so the
// dashboard can badge fallback data.
type signalsResponse struct {
	Signals []domain.DemandSignal `json:"signals"`
	Source  domain.MarketSource   `json:"source"`
	Debug   domain.BatchDebug     `json:"debug"`
}

// ListSignals derives demand signals from the current batch and stored
// preferences. Signals are recomputed per request, never persisted.
// GET /api/signals
func (h *MarketHandler) ListSignals(w http.ResponseWriter, r *http.Request) {
	signals, batch, err := h.markets.Signals(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: derive signals failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to derive signals")
		return
	}

	writeJSON(w, http.StatusOK, signalsResponse{
		Signals: signals,
		Source:  batch.Source,
		Debug:   batch.Debug,
	})
}
