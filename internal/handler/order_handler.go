package handler

import (
	"context"
	"net/http"
	"strconv"

	"buildseason/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type OrderDetailsRequest struct {
	VendorID *string `json:"vendorId"`
	Notes    *string `json:"notes"`
}

type AddItemRequest struct {
	PartID    string       `json:"partId"`
	Quantity  int64        `json:"quantity"`
	UnitPrice dollarAmount `json:"unitPrice"`
}

type RejectRequest struct {
	Reason *string `json:"reason"`
}

type TotalResponse struct {
	TotalCents int64 `json:"total_cents"`
}

// g は /teams/:teamId（AuthJWT + TeamMemberGuard 済み）
func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	orders := g.Group("/orders")

	orders.POST("", h.create)
	orders.GET("", h.list)
	orders.GET("/:orderId", h.detail)
	orders.GET("/:orderId/history", h.history)
	orders.PATCH("/:orderId", h.update)
	orders.POST("/:orderId/items", h.addItem)
	orders.POST("/:orderId/recompute-total", h.recomputeTotal)

	orders.POST("/:orderId/submit", h.submit)
	orders.POST("/:orderId/approve", h.approve)
	orders.POST("/:orderId/reject", h.reject)
	orders.POST("/:orderId/order", h.markOrdered)
	orders.POST("/:orderId/receive", h.markReceived)
}

func (h *OrderHandler) create(c echo.Context) error {
	caller, ok := callerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req OrderDetailsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), caller, usecase.OrderDetailsInput{
		VendorID: req.VendorID,
		Notes:    req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, IDResponse{ID: out.ID})
}

func (h *OrderHandler) list(c echo.Context) error {
	caller, ok := callerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid page")
		}
		page = p
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid limit")
		}
		limit = l
	}

	out, err := h.uc.ListOrders(c.Request().Context(), caller, usecase.ListOrdersInput{
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	caller, ok := callerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.GetOrder(c.Request().Context(), caller, c.Param("orderId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) history(c echo.Context) error {
	caller, ok := callerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.History(c.Request().Context(), caller, c.Param("orderId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) update(c echo.Context) error {
	caller, ok := callerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req OrderDetailsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateOrder(c.Request().Context(), caller, c.Param("orderId"), usecase.OrderDetailsInput{
		VendorID: req.VendorID,
		Notes:    req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) addItem(c echo.Context) error {
	caller, ok := callerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		// 金額が読めない場合も同じ文言
		return badRequest(c, "Please fill in all required fields.")
	}
	if !req.UnitPrice.Set {
		return badRequest(c, "Please fill in all required fields.")
	}

	out, err := h.uc.AddItem(c.Request().Context(), caller, c.Param("orderId"), usecase.AddItemInput{
		PartID:         req.PartID,
		Quantity:       req.Quantity,
		UnitPriceCents: req.UnitPrice.Cents,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) recomputeTotal(c echo.Context) error {
	caller, ok := callerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	total, err := h.uc.RecomputeTotal(c.Request().Context(), caller, c.Param("orderId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, TotalResponse{TotalCents: total})
}

func (h *OrderHandler) submit(c echo.Context) error {
	return h.runTransition(c, h.uc.Submit)
}

func (h *OrderHandler) approve(c echo.Context) error {
	return h.runTransition(c, h.uc.Approve)
}

func (h *OrderHandler) markOrdered(c echo.Context) error {
	return h.runTransition(c, h.uc.MarkOrdered)
}

func (h *OrderHandler) markReceived(c echo.Context) error {
	return h.runTransition(c, h.uc.MarkReceived)
}

func (h *OrderHandler) reject(c echo.Context) error {
	caller, ok := callerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Reject(c.Request().Context(), caller, c.Param("orderId"), req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type transitionFunc func(ctx context.Context, caller usecase.Caller, orderID string) (usecase.OrderOutput, error)

func (h *OrderHandler) runTransition(c echo.Context, fn transitionFunc) error {
	caller, ok := callerFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := fn(c.Request().Context(), caller, c.Param("orderId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
