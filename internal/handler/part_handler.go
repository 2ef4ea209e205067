package handler

import (
	"net/http"
	"strconv"

	"buildseason/internal/domain/model"
	"buildseason/internal/middleware"
	"buildseason/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /teams/:teamId/parts と在庫調整をまとめる
type PartHandler struct {
	uc *usecase.PartUsecase
}

// DI
func NewPartHandler(uc *usecase.PartUsecase) *PartHandler {
	return &PartHandler{uc: uc}
}

type PartCreateRequest struct {
	Name         string       `json:"name"`
	SKU          *string      `json:"sku"`
	VendorID     *string      `json:"vendorId"`
	Quantity     int64        `json:"quantity"`
	ReorderPoint int64        `json:"reorderPoint"`
	Location     *string      `json:"location"`
	UnitPrice    dollarAmount `json:"unitPrice"`
	Description  *string      `json:"description"`
}

// StockUpdateRequest は在庫更新の入力です。
type StockUpdateRequest struct {
	Quantity *int64 `json:"quantity"`
	Reason   string `json:"reason"`
}

func (h *PartHandler) RegisterRoutes(g *echo.Group) {
	parts := g.Group("/parts")
	elevated := middleware.RequireRoles(model.RoleAdmin, model.RoleMentor)

	parts.GET("", h.list)
	parts.GET("/:partId", h.detail)
	parts.POST("", h.create, elevated)
	parts.PUT("/:partId/stock", h.adjustStock, elevated)
}

func (h *PartHandler) list(c echo.Context) error {
	caller, ok := callerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	lowStock := false
	if v := c.QueryParam("lowStock"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return badRequest(c, "invalid lowStock")
		}
		lowStock = b
	}

	out, err := h.uc.ListParts(c.Request().Context(), caller, usecase.ListPartsInput{
		Search:   c.QueryParam("search"),
		LowStock: lowStock,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PartHandler) detail(c echo.Context) error {
	caller, ok := callerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.GetPart(c.Request().Context(), caller, c.Param("partId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PartHandler) create(c echo.Context) error {
	caller, ok := callerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req PartCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.CreatePart(c.Request().Context(), caller, usecase.CreatePartInput{
		Name:           req.Name,
		SKU:            req.SKU,
		VendorID:       req.VendorID,
		Quantity:       req.Quantity,
		ReorderPoint:   req.ReorderPoint,
		Location:       req.Location,
		UnitPriceCents: req.UnitPrice.Cents,
		Description:    req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PartHandler) adjustStock(c echo.Context) error {
	caller, ok := callerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req StockUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Quantity == nil {
		return badRequest(c, "quantity required")
	}

	out, err := h.uc.AdjustStock(c.Request().Context(), caller, c.Param("partId"), *req.Quantity, req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
