package httpapi

import "net/http"

func (h *Handler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDrivers")
	defer span.End()

	drivers, err := h.seasonService.ListDrivers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list drivers failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]driverDTO, 0, len(drivers))
	for _, driver := range drivers {
		items = append(items, driverToDTO(ctx, driver))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.seasonService.ListTeams(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, team := range teams {
		items = append(items, teamToDTO(ctx, team))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
