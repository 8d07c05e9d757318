package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/races", handler.ListRaces)
	mux.HandleFunc("GET /v1/races/{raceID}", handler.GetRace)
	mux.HandleFunc("GET /v1/races/{raceID}/result", handler.GetRaceResult)
	mux.HandleFunc("GET /v1/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/drivers", handler.ListDrivers)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/races/{raceID}/prediction", RequireAuth(verifier, http.HandlerFunc(handler.GetMyPrediction)))
	mux.Handle("PUT /v1/races/{raceID}/prediction", RequireAuth(verifier, http.HandlerFunc(handler.SaveMyPrediction)))
	mux.Handle("GET /v1/races/{raceID}/score", RequireAuth(verifier, http.HandlerFunc(handler.GetMyScore)))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/races/{raceID}/advance", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.AdvanceRaceStatus)))
	mux.Handle("POST /v1/internal/results", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.IngestRaceResult)))
	mux.Handle("POST /v1/internal/jobs/score-race", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunScoreRaceJob)))
	mux.Handle("POST /v1/internal/jobs/sync-result", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncResultJob)))
}
