package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/gridpicks/gridpicks/internal/domain/race"
	"github.com/gridpicks/gridpicks/internal/usecase"
)

func (h *Handler) ListRaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRaces")
	defer span.End()

	calendar, err := h.raceService.ListRaces(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list races failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	now := time.Now().UTC()
	out := raceCalendarDTO{
		Upcoming: make([]raceDTO, 0, len(calendar.Upcoming)),
		Past:     make([]raceDTO, 0, len(calendar.Past)),
	}
	for _, item := range calendar.Upcoming {
		out.Upcoming = append(out.Upcoming, raceToDTO(ctx, item, now))
	}
	for _, item := range calendar.Past {
		out.Past = append(out.Past, raceToDTO(ctx, item, now))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRace")
	defer span.End()

	raceID := strings.TrimSpace(r.PathValue("raceID"))
	item, err := h.raceService.GetRace(ctx, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "get race failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, raceToDTO(ctx, item, time.Now().UTC()))
}

type advanceRaceRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) AdvanceRaceStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceRaceStatus")
	defer span.End()

	raceID := strings.TrimSpace(r.PathValue("raceID"))

	var req advanceRaceRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	next, err := race.ParseStatus(req.Status)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	item, err := h.raceService.AdvanceStatus(ctx, raceID, next)
	if err != nil {
		h.logger.WarnContext(ctx, "advance race status failed", "race_id", raceID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, raceToDTO(ctx, item, time.Now().UTC()))
}
