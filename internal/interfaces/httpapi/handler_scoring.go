package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gridpicks/gridpicks/internal/usecase"
)

func (h *Handler) GetMyScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyScore")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	raceID := strings.TrimSpace(r.PathValue("raceID"))
	row, err := h.scoringService.GetBreakdown(ctx, principal.UserID, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "get score failed", "race_id", raceID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, breakdownToDTO(ctx, row))
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	entries, err := h.leaderboardService.GetLeaderboard(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, standingsEntryToDTO(ctx, entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
