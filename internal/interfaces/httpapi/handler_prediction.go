package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/gridpicks/gridpicks/internal/domain/prediction"
	"github.com/gridpicks/gridpicks/internal/usecase"
)

func (h *Handler) GetMyPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyPrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	raceID := strings.TrimSpace(r.PathValue("raceID"))
	item, err := h.predictionService.GetPrediction(ctx, principal.UserID, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "get prediction failed", "race_id", raceID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(ctx, item))
}

func (h *Handler) SaveMyPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveMyPrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	raceID := strings.TrimSpace(r.PathValue("raceID"))

	var req savePredictionRequest
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

	qualifyingOrder, err := positionMapToList(req.QualifyingPredictions)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	raceOrder, err := positionMapToList(req.RacePredictions)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.predictionService.SubmitPrediction(ctx, prediction.Prediction{
		UserID:          principal.UserID,
		RaceID:          raceID,
		RedFlag:         req.RedFlagPrediction,
		QualifyingOrder: qualifyingOrder,
		RaceOrder:       raceOrder,
		TeamPicks: prediction.TeamPicks{
			Best:   strings.TrimSpace(req.TeamPredictions.Best),
			Second: strings.TrimSpace(req.TeamPredictions.Second),
		},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save prediction failed", "race_id", raceID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(ctx, item))
}
