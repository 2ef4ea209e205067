package server

import (
	"net/http"

	"buildseason/internal/config"
	"buildseason/internal/handler"
	"buildseason/internal/metrics"
	"buildseason/internal/middleware"
	"buildseason/internal/repository"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Orders  *handler.OrderHandler
	Parts   *handler.PartHandler
	Vendors *handler.VendorHandler
	Members repository.MemberRepository
}

type healthResponse struct {
	Status string `json:"status"`
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers, m *metrics.ServerMetrics) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
	})
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	team := e.Group("/teams/:teamId")
	team.Use(middleware.AuthJWT(cfg))
	team.Use(middleware.TeamMemberGuard(h.Members))

	h.Orders.RegisterRoutes(team)
	h.Parts.RegisterRoutes(team)
	h.Vendors.RegisterRoutes(team)
}
