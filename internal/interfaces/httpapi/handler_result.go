package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/gridpicks/gridpicks/internal/domain/result"
	"github.com/gridpicks/gridpicks/internal/usecase"
)

func (h *Handler) GetRaceResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRaceResult")
	defer span.End()

	raceID := strings.TrimSpace(r.PathValue("raceID"))
	item, err := h.resultService.GetResult(ctx, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "get race result failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resultToDTO(ctx, item))
}

func (h *Handler) IngestRaceResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestRaceResult")
	defer span.End()

	var req ingestResultRequest
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

	qualifyingOrder, err := positionMapToList(req.QualifyingOrder)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	raceOrder, err := positionMapToList(req.RaceOrder)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item := result.RaceResult{
		RaceID:          strings.TrimSpace(req.RaceID),
		QualifyingOrder: qualifyingOrder,
		RaceOrder:       raceOrder,
		HadRedFlag:      req.HadRedFlag,
		BestTeamID:      strings.TrimSpace(req.BestTeamID),
		SecondTeamID:    strings.TrimSpace(req.SecondTeamID),
	}
	if err := h.resultService.Ingest(ctx, item); err != nil {
		h.logger.WarnContext(ctx, "ingest race result failed", "race_id", item.RaceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, map[string]string{"raceId": item.RaceID, "status": "accepted"})
}
