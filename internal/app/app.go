package app

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/gridpicks/gridpicks/internal/config"
	"github.com/gridpicks/gridpicks/internal/domain/prediction"
	"github.com/gridpicks/gridpicks/internal/domain/race"
	"github.com/gridpicks/gridpicks/internal/domain/result"
	"github.com/gridpicks/gridpicks/internal/domain/scoring"
	"github.com/gridpicks/gridpicks/internal/domain/season"
	"github.com/gridpicks/gridpicks/internal/domain/user"
	"github.com/gridpicks/gridpicks/internal/infrastructure/feed"
	"github.com/gridpicks/gridpicks/internal/infrastructure/identity"
	"github.com/gridpicks/gridpicks/internal/infrastructure/jobqueue"
	"github.com/gridpicks/gridpicks/internal/infrastructure/repository/memory"
	"github.com/gridpicks/gridpicks/internal/infrastructure/repository/postgres"
	"github.com/gridpicks/gridpicks/internal/interfaces/httpapi"
	"github.com/gridpicks/gridpicks/internal/platform/cache"
	idgen "github.com/gridpicks/gridpicks/internal/platform/id"
	"github.com/gridpicks/gridpicks/internal/platform/logging"
	"github.com/gridpicks/gridpicks/internal/platform/resilience"
	"github.com/gridpicks/gridpicks/internal/usecase"
)

type repositories struct {
	race       race.Repository
	prediction prediction.Repository
	result     result.Repository
	score      scoring.Repository
	season     season.Repository
	user       user.Repository
}

// NewHTTPServer wires repositories, services and the HTTP router into a
// ready-to-run server. The returned cleanup closes the database pool when
// one was opened.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	var publisher usecase.JobPublisher
	if cfg.QStashEnabled {
		publisher = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			Timeout:          cfg.QStashTimeout,
		}, logger)
	}

	var resultFeed usecase.ResultFeed
	if cfg.ResultFeedEnabled {
		feedBreaker := newBreaker(
			cfg.ResultFeedCircuitEnabled,
			cfg.ResultFeedCircuitFailures,
			cfg.ResultFeedCircuitOpenWait,
			cfg.ResultFeedCircuitHalfOpenReq,
		)
		resultFeed = feed.NewClient(feed.ClientConfig{
			BaseURL: cfg.ResultFeedBaseURL,
			APIKey:  cfg.ResultFeedAPIKey,
			Timeout: cfg.ResultFeedTimeout,
		}, feedBreaker, logger)
	}

	raceSvc := usecase.NewRaceService(repos.race, logger)
	predictionSvc := usecase.NewPredictionService(repos.race, repos.prediction, idgen.NewRandomGenerator(), logger)
	scoringSvc := usecase.NewScoringService(repos.race, repos.prediction, repos.result, repos.score, logger)
	leaderboardSvc := usecase.NewLeaderboardService(repos.race, repos.score, repos.user, scoringSvc, cacheStore, logger)
	resultSvc := usecase.NewResultService(repos.race, repos.result, resultFeed, publisher, leaderboardSvc, logger)
	seasonSvc := usecase.NewSeasonService(repos.season)

	accountBreaker := newBreaker(
		cfg.AccountCircuitEnabled,
		cfg.AccountCircuitFailureCount,
		cfg.AccountCircuitOpenTimeout,
		cfg.AccountCircuitHalfOpenMaxReq,
	)
	accountClient := identity.NewClient(
		&http.Client{Timeout: cfg.AccountTimeout},
		cfg.AccountBaseURL,
		cfg.AccountIntrospectPath,
		accountBreaker,
		logger,
	)

	handler := httpapi.NewHandler(raceSvc, predictionSvc, scoringSvc, leaderboardSvc, resultSvc, seasonSvc, logger)
	router := httpapi.NewRouter(handler, accountClient, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

// buildRepositories opens the traced Postgres pool when DB_URL is set and
// falls back to seeded in-memory repositories otherwise, which keeps local
// development working without a database.
func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func(), error) {
	if cfg.DBURL == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
		return repositories{
			race:       memory.NewRaceRepository(memory.SeedRaces()...),
			prediction: memory.NewPredictionRepository(),
			result:     memory.NewResultRepository(),
			score:      memory.NewScoreRepository(),
			season:     memory.NewSeasonRepository(memory.SeedDrivers(), memory.SeedTeams()),
			user:       memory.NewUserRepository(memory.SeedUsers()...),
		}, func() {}, nil
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("using postgres repositories", "db_name", dbNameFromURL(dbURL))

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Error("close database", "error", err)
		}
	}

	return repositories{
		race:       postgres.NewRaceRepository(db),
		prediction: postgres.NewPredictionRepository(db),
		result:     postgres.NewResultRepository(db),
		score:      postgres.NewScoreRepository(db),
		season:     postgres.NewSeasonRepository(db),
		user:       postgres.NewUserRepository(db),
	}, cleanup, nil
}

func newBreaker(enabled bool, failureCount int, openTimeout time.Duration, halfOpenMaxReq int) *resilience.CircuitBreaker {
	if !enabled {
		return nil
	}

	normalized := resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: failureCount,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	})

	return resilience.NewCircuitBreaker(
		normalized.FailureThreshold,
		normalized.OpenTimeout,
		normalized.HalfOpenMaxReq,
	)
}
