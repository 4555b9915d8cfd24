package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cloudkitchen/backend/internal/model"
	"github.com/cloudkitchen/backend/internal/service"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type OrderLineRequest struct {
	MenuItemID uint64 `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

type SubmitOrderRequest struct {
	Name         string             `json:"name"`
	Phone        string             `json:"phone"`
	Address      string             `json:"address"`
	DeliveryDate string             `json:"deliveryDate"`
	TimeSlot     string             `json:"timeSlot"`
	Instructions string             `json:"instructions"`
	Lines        []OrderLineRequest `json:"lines"`
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) Submit(c echo.Context) error {
	uid, _ := viewer(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req SubmitOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	lines := make([]service.OrderLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, service.OrderLineInput{MenuItemID: l.MenuItemID, Quantity: l.Quantity})
	}
	order, err := h.svc.Submit(c.Request().Context(), uid, service.SubmitOrderInput{
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		DeliveryDate: req.DeliveryDate,
		TimeSlot:     req.TimeSlot,
		Instructions: req.Instructions,
		Lines:        lines,
	})
	if err != nil {
		if errors.Is(err, service.ErrInsufficientCapacity) {
			return c.JSON(http.StatusConflict, NewErrorResponse("capacity", "one or more items are sold out"))
		}
		if errors.Is(err, service.ErrInvalidOrder) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to place order"))
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	uid, _ := viewer(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	orders, err := h.svc.ListMine(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch orders"))
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListAll(c echo.Context) error {
	orders, err := h.svc.ListAll(c.Request().Context(), model.OrderStatus(c.QueryParam("status")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch orders"))
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c echo.Context) error {
	uid, admin := viewer(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid order id"))
	}
	order, err := h.svc.Get(c.Request().Context(), id, uid, admin)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "order not found"))
		}
		if err == service.ErrForbidden {
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not your order"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch order"))
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid order id"))
	}
	var req OrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	order, err := h.svc.UpdateStatus(c.Request().Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "order not found"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	uid, _ := viewer(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid order id"))
	}
	order, err := h.svc.Cancel(c.Request().Context(), id, uid)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "order not found"))
		}
		if err == service.ErrForbidden {
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not your order"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, order)
}
