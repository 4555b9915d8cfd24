package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cloudkitchen/backend/internal/model"
	"github.com/cloudkitchen/backend/internal/service"
	"github.com/cloudkitchen/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

type MenuHandler struct {
	svc      service.MenuService
	uploader *storage.Uploader
}

func NewMenuHandler(svc service.MenuService, uploader *storage.Uploader) *MenuHandler {
	return &MenuHandler{svc: svc, uploader: uploader}
}

type MenuItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	ServeDate   string  `json:"serveDate"`
	Slot        string  `json:"slot"`
	Remaining   int     `json:"remaining"`
	ImageURL    *string `json:"imageUrl"`
}

type CapacityRequest struct {
	Remaining int `json:"remaining"`
}

func (h *MenuHandler) List(c echo.Context) error {
	availableOnly := c.QueryParam("all") != "true"
	items, err := h.svc.List(c.Request().Context(), c.QueryParam("date"), model.MenuSlot(c.QueryParam("slot")), availableOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch menu"))
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid item id"))
	}
	item, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "menu item not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch menu item"))
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) Create(c echo.Context) error {
	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	item, err := h.svc.Create(c.Request().Context(), service.MenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ServeDate:   req.ServeDate,
		Slot:        model.MenuSlot(req.Slot),
		Remaining:   req.Remaining,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid item id"))
	}
	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	item, err := h.svc.Update(c.Request().Context(), id, service.MenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ServeDate:   req.ServeDate,
		Slot:        model.MenuSlot(req.Slot),
		Remaining:   req.Remaining,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "menu item not found"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid item id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "menu item not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to delete menu item"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *MenuHandler) SetCapacity(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid item id"))
	}
	var req CapacityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := h.svc.SetCapacity(c.Request().Context(), id, req.Remaining); err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "menu item not found"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *MenuHandler) UploadImage(c echo.Context) error {
	if h.uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("unavailable", "image storage is not configured"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid item id"))
	}
	if _, err := h.svc.Get(c.Request().Context(), id); err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "menu item not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch menu item"))
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "image file is required"))
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "cannot read image file"))
	}
	defer src.Close()

	objectPath := fmt.Sprintf("menu/%d/%s", id, file.Filename)
	url, err := h.uploader.Upload(c.Request().Context(), objectPath, file.Header.Get("Content-Type"), src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "image upload failed"))
	}
	if err := h.svc.SetImageURL(c.Request().Context(), id, url); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to save image url"))
	}
	return c.JSON(http.StatusOK, map[string]string{"imageUrl": url})
}
