package api

import (
	models "MarketLab/internal/domain/models"
	domrepo "MarketLab/internal/domain/repository"
	"MarketLab/internal/engine"
	"MarketLab/internal/phenomena"
	"MarketLab/internal/usecase"
	xhttp "MarketLab/pkg/http"
	xlogger "MarketLab/pkg/logger"

	"github.com/labstack/echo/v4"
)

const snapshotKey = "market:snapshot"

// MarketHandler exposes the simulation over Echo.
type MarketHandler struct {
	logger *xlogger.Logger
	sim    *usecase.Simulator
	feed   domrepo.NewsFeed
	flags  *engine.FlagSet
	snaps  domrepo.SnapshotCache
}

func NewMarketHandler(logger *xlogger.Logger, sim *usecase.Simulator, feed domrepo.NewsFeed, flags *engine.FlagSet, snaps domrepo.SnapshotCache) *MarketHandler {
	return &MarketHandler{logger: logger, sim: sim, feed: feed, flags: flags, snaps: snaps}
}

type marketSnapshot struct {
	Day        int                   `json:"day"`
	Securities []models.SecurityView `json:"securities"`
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/securities", h.Securities)
	g.GET("/securities/:symbol", h.Security)
	g.GET("/securities/:symbol/signals", h.Signals)
	g.GET("/news", h.News)
	g.GET("/news/:id/hint", h.Hint)
	g.POST("/tick", h.Tick)
	g.POST("/trigger", h.Trigger)
	g.GET("/flags", h.Flags)
	g.PUT("/flags/:type", h.SetFlag)
}

func (h *MarketHandler) Securities(c echo.Context) error {
	ctx := c.Request().Context()
	var snap marketSnapshot
	if err := h.snaps.Get(ctx, snapshotKey, &snap); err == nil && snap.Day == h.sim.Day() {
		return xhttp.SuccessResponse(c, snap)
	}
	snap = marketSnapshot{Day: h.sim.Day(), Securities: h.sim.Securities()}
	if err := h.snaps.Set(ctx, snapshotKey, snap); err != nil {
		h.logger.Warn("snapshot cache set failed", xlogger.Error(err))
	}
	return xhttp.SuccessResponse(c, snap)
}

func (h *MarketHandler) Security(c echo.Context) error {
	symbol := c.Param("symbol")
	view, ok := h.sim.Security(symbol)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown security %q", symbol))
	}
	return xhttp.SuccessResponse(c, view)
}

func (h *MarketHandler) Signals(c echo.Context) error {
	symbol := c.Param("symbol")
	signals, ok := h.sim.Signals(symbol)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown security %q", symbol))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol":  symbol,
		"signals": signals,
	})
}

func (h *MarketHandler) News(c echo.Context) error {
	req := &models.NewsQueryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	recs := h.feed.Query(req.Day, req.Type, req.Limit)
	views := make([]models.NewsView, len(recs))
	for i, r := range recs {
		views[i] = r.View()
	}
	return xhttp.ListResponse(c, views, int64(h.feed.Len()))
}

func (h *MarketHandler) Hint(c echo.Context) error {
	id := c.Param("id")
	rec, ok := h.feed.ByID(id)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown news id %q", id))
	}
	hint := usecase.TutorialHint(rec)
	if hint == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no hint for news type %q", rec.Type))
	}
	return xhttp.SuccessResponse(c, hint)
}

func (h *MarketHandler) Tick(c echo.Context) error {
	req := &models.TickRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.sim.AdvanceDays(c.Request().Context(), req.Days); err != nil {
		h.logger.Error("tick failed", xlogger.Error(err), xlogger.Int("days", req.Days))
		return xhttp.AppErrorResponse(c, err)
	}
	_ = h.snaps.Invalidate(c.Request().Context(), snapshotKey)
	return xhttp.SuccessResponse(c, marketSnapshot{Day: h.sim.Day(), Securities: h.sim.Securities()})
}

func (h *MarketHandler) Trigger(c echo.Context) error {
	req := &models.TriggerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	opts := &phenomena.TriggerOptions{Ratio: req.Ratio, Tier: req.Tier}
	view, err := h.sim.Trigger(req.Symbol, req.Phenomenon, opts)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	_ = h.snaps.Invalidate(c.Request().Context(), snapshotKey)
	return xhttp.CreatedResponse(c, view)
}

func (h *MarketHandler) Flags(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.flags.States(phenomena.Types()))
}

func (h *MarketHandler) SetFlag(c echo.Context) error {
	name := c.Param("type")
	if !validFlag(name) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown phenomenon %q", name))
	}
	req := &models.FlagRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.flags.Set(name, *req.Enabled)
	h.logger.Info("phenomenon flag changed",
		xlogger.String("type", name),
		xlogger.Bool("enabled", *req.Enabled))
	return xhttp.SuccessResponse(c, map[string]bool{name: *req.Enabled})
}

func validFlag(name string) bool {
	for _, t := range phenomena.Types() {
		if t == name {
			return true
		}
	}
	return false
}
