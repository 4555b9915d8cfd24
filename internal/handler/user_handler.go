package handler

import (
	"net/http"

	"github.com/cloudkitchen/backend/internal/repository"
	"github.com/cloudkitchen/backend/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	profileSvc service.ProfileService
	draftRepo  repository.DraftRepository
}

func NewUserHandler(profileSvc service.ProfileService, draftRepo repository.DraftRepository) *UserHandler {
	return &UserHandler{profileSvc: profileSvc, draftRepo: draftRepo}
}

type ProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type PreferenceRequest struct {
	Value string `json:"value"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	uid, _ := viewer(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	p, err := h.profileSvc.Get(c.Request().Context(), uid)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "profile not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch profile"))
	}
	return c.JSON(http.StatusOK, p)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid, _ := viewer(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	email, _ := c.Get("email").(string)
	p, err := h.profileSvc.Upsert(c.Request().Context(), uid, service.ProfileInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Email:   email,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, p)
}

func (h *UserHandler) GetPreference(c echo.Context) error {
	uid, _ := viewer(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	val, err := h.draftRepo.LoadPreference(c.Request().Context(), uid, c.Param("key"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to load preference"))
	}
	return c.JSON(http.StatusOK, map[string]string{"value": val})
}

func (h *UserHandler) SetPreference(c echo.Context) error {
	uid, _ := viewer(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req PreferenceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := h.draftRepo.SavePreference(c.Request().Context(), uid, c.Param("key"), req.Value); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to save preference"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
