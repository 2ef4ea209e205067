package handler

import (
	"net/http"

	"buildseason/internal/usecase"

	"github.com/labstack/echo/v4"
)

type VendorHandler struct {
	uc *usecase.VendorUsecase
}

func NewVendorHandler(uc *usecase.VendorUsecase) *VendorHandler {
	return &VendorHandler{uc: uc}
}

func (h *VendorHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/vendors", h.list)
}

func (h *VendorHandler) list(c echo.Context) error {
	caller, ok := callerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.ListVendors(c.Request().Context(), caller)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
