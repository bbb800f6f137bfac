package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	models "CoinScope/internal/domain/models"
	domrepo "CoinScope/internal/domain/repository"
	icache "CoinScope/internal/service/cache"
	"CoinScope/internal/service/metrics"
	"CoinScope/internal/service/ratelimit"
	"CoinScope/internal/usecase"
	xhttp "CoinScope/pkg/http"
	xlogger "CoinScope/pkg/logger"
)

// ScoresEchoHandler exposes the scoring engines over Echo.
type ScoresEchoHandler struct {
	logger      *xlogger.Logger
	predictions *usecase.PredictionEngine
	risk        *usecase.RiskEngine
	strategies  *usecase.StrategyScorer
	history     *usecase.HistoryUseCase
	tokens      domrepo.TokenStore
	cache       icache.BytesCache
	rl          *ratelimit.Limiter
}

func NewScoresEchoHandler(
	logger *xlogger.Logger,
	predictions *usecase.PredictionEngine,
	risk *usecase.RiskEngine,
	strategies *usecase.StrategyScorer,
	history *usecase.HistoryUseCase,
	tokens domrepo.TokenStore,
) *ScoresEchoHandler {
	metrics.Register()
	return &ScoresEchoHandler{
		logger:      logger,
		predictions: predictions,
		risk:        risk,
		strategies:  strategies,
		history:     history,
		tokens:      tokens,
		rl:          ratelimit.New(),
	}
}

// SetCache injects a response cache for the read endpoints.
func (h *ScoresEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *ScoresEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/predictions", h.Prediction)
	g.GET("/risk", h.Risk)
	g.POST("/risk/batch", h.RiskBatch)
	g.POST("/strategies/score", h.StrategyScore)
	g.GET("/strategies/top", h.TopStrategies)
	g.GET("/history", h.History)
}

func (h *ScoresEchoHandler) Prediction(c echo.Context) error {
	req := &models.PredictionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cacheKey := "prediction:" + req.Symbol + ":" + req.Timeframe
	if cached, ok := h.cachedJSON(cacheKey); ok {
		return xhttp.SuccessResponse(c, cached)
	}

	ctx := c.Request().Context()
	token, err := h.tokens.TokenBySymbol(ctx, req.Symbol)
	if err != nil {
		return h.tokenError(c, req.Symbol, err)
	}
	res, err := h.predictions.Generate(ctx, token.ID, req.Timeframe)
	if err != nil {
		h.logger.Error("prediction usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.storeJSON(cacheKey, res, time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *ScoresEchoHandler) Risk(c echo.Context) error {
	req := &models.RiskRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	token, err := h.tokens.TokenBySymbol(ctx, req.Symbol)
	if err != nil {
		return h.tokenError(c, req.Symbol, err)
	}

	var res models.RiskScoreResult
	if req.Fresh {
		res, err = h.risk.Score(ctx, token.ID)
	} else {
		res, err = h.risk.CachedScore(ctx, token.ID)
	}
	if err != nil {
		h.logger.Error("risk usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ScoresEchoHandler) RiskBatch(c echo.Context) error {
	req := &models.RiskBatchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	// batch recomputation is the expensive path; throttle per client
	if !h.rl.Allow(c.RealIP()+":risk_batch", 5, 1) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many batch requests", 429))
	}

	results := h.risk.ScoreBySymbols(c.Request().Context(), req.Symbols)
	return xhttp.SuccessResponse(c, results)
}

func (h *ScoresEchoHandler) StrategyScore(c echo.Context) error {
	req := &models.StrategyScoreRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res := h.strategies.ScoreAndSave(c.Request().Context(), req.ToArchetype())
	return xhttp.SuccessResponse(c, res)
}

func (h *ScoresEchoHandler) TopStrategies(c echo.Context) error {
	req := &models.TopStrategiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.strategies.Top(c.Request().Context(), req.MinScore, req.N)
	if err != nil {
		h.logger.Error("top strategies usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ScoresEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.history.GetHistory(c.Request().Context(), usecase.GetHistoryParams{
		Symbol: req.Symbol,
		From:   xhttp.ParseTimeDefault(req.From, time.Time{}),
		Limit:  xhttp.ParseIntDefault(req.Limit, 0),
	})
	if err != nil {
		h.logger.Error("history usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

func (h *ScoresEchoHandler) tokenError(c echo.Context, symbol string, err error) error {
	if errors.Is(err, domrepo.ErrNotFound) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("token %s not found", symbol).WithError(err))
	}
	h.logger.Error("token lookup error", xlogger.String("symbol", symbol), xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}

// cachedJSON returns a previously stored response payload.
func (h *ScoresEchoHandler) cachedJSON(key string) (json.RawMessage, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil || !ok {
		return nil, false
	}
	return json.RawMessage(b), true
}

func (h *ScoresEchoHandler) storeJSON(key string, v interface{}, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, ttl); err != nil {
		h.logger.Warn("response cache set failed", xlogger.String("key", key), xlogger.Error(err))
	}
}
