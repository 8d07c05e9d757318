package feed

import (
	"context"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/gridpicks/gridpicks/internal/domain/result"
	"github.com/gridpicks/gridpicks/internal/platform/logging"
	"github.com/gridpicks/gridpicks/internal/platform/resilience"
	"github.com/gridpicks/gridpicks/internal/usecase"
)

const defaultRequestTimeout = 8 * time.Second

// Client pulls official race outcomes from the motorsport results provider.
// Concurrent pulls for the same race collapse into one upstream request, and
// a circuit breaker shields the API from hammering a failing provider.
type Client struct {
	httpClient *fasthttp.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight
	logger     *logging.Logger
}

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewClient(cfg ClientConfig, breaker *resilience.CircuitBreaker, logger *logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		httpClient: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		timeout: timeout,
		breaker: breaker,
		logger:  logger,
	}
}

func (c *Client) FetchRaceResult(ctx context.Context, raceID string) (result.RaceResult, error) {
	raceID = strings.TrimSpace(raceID)
	if raceID == "" {
		return result.RaceResult{}, errors.Wrap(usecase.ErrInvalidInput, "race id is required")
	}
	if c.baseURL == "" {
		return result.RaceResult{}, errors.Wrap(usecase.ErrDependencyUnavailable, "result feed base url is not configured")
	}

	value, err, _ := c.flight.Do("feed:result:"+raceID, func() (any, error) {
		return c.fetchRaceResultOnce(ctx, raceID)
	})
	if err != nil {
		return result.RaceResult{}, err
	}

	item, ok := value.(result.RaceResult)
	if !ok {
		return result.RaceResult{}, errors.New("unexpected result feed payload type")
	}
	return item, nil
}

func (c *Client) fetchRaceResultOnce(ctx context.Context, raceID string) (result.RaceResult, error) {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return result.RaceResult{}, errors.Wrap(usecase.ErrDependencyUnavailable, "result feed circuit open")
		}
	}

	item, err := c.doRequest(ctx, raceID)
	if c.breaker != nil {
		if err != nil && !errors.Is(err, usecase.ErrNotFound) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return item, err
}

func (c *Client) doRequest(ctx context.Context, raceID string) (result.RaceResult, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/v1/races/" + raceID + "/result")
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return result.RaceResult{}, errors.Wrap(err, "request race result from feed")
	}

	status := resp.StatusCode()
	if status == fasthttp.StatusNotFound {
		return result.RaceResult{}, errors.Wrapf(usecase.ErrNotFound, "feed has no result for race %s", raceID)
	}
	if status != fasthttp.StatusOK {
		c.logger.WarnContext(ctx, "result feed non-200", "race_id", raceID, "status_code", status)
		return result.RaceResult{}, errors.Newf("result feed responded with status %d", status)
	}

	var decoded feedResultResponse
	if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
		return result.RaceResult{}, errors.Wrap(err, "unmarshal feed result")
	}

	return result.RaceResult{
		RaceID:          raceID,
		QualifyingOrder: append([]string(nil), decoded.QualifyingOrder...),
		RaceOrder:       append([]string(nil), decoded.RaceOrder...),
		HadRedFlag:      decoded.HadRedFlag,
		BestTeamID:      decoded.BestTeamID,
		SecondTeamID:    decoded.SecondTeamID,
	}, nil
}

type feedResultResponse struct {
	RaceID          string   `json:"raceId"`
	QualifyingOrder []string `json:"qualifyingOrder"`
	RaceOrder       []string `json:"raceOrder"`
	HadRedFlag      bool     `json:"hadRedFlag"`
	BestTeamID      string   `json:"bestTeamId"`
	SecondTeamID    string   `json:"secondTeamId"`
}
