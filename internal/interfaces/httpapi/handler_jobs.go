package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/gridpicks/gridpicks/internal/usecase"
)

type raceJobRequest struct {
	RaceID string `json:"raceId" validate:"required"`
}

func (h *Handler) decodeRaceJobRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()

	var req raceJobRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return "", false
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return "", false
	}
	return strings.TrimSpace(req.RaceID), true
}

// RunScoreRaceJob recomputes breakdowns for one race. The queue retries on
// non-2xx, and recomputation is idempotent, so retried deliveries are safe.
func (h *Handler) RunScoreRaceJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScoreRaceJob")
	defer span.End()

	raceID, ok := h.decodeRaceJobRequest(w, r)
	if !ok {
		return
	}

	if err := h.scoringService.EnsureRaceScored(ctx, raceID); err != nil {
		h.logger.ErrorContext(ctx, "score race job failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.leaderboardService.Invalidate(ctx)

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"raceId": raceID, "status": "scored"})
}

func (h *Handler) RunSyncResultJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncResultJob")
	defer span.End()

	raceID, ok := h.decodeRaceJobRequest(w, r)
	if !ok {
		return
	}

	if err := h.resultService.SyncFromFeed(ctx, raceID); err != nil {
		h.logger.ErrorContext(ctx, "sync result job failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"raceId": raceID, "status": "synced"})
}
