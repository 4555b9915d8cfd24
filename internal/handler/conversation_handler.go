package handler

import (
	"net/http"

	"github.com/cloudkitchen/backend/internal/model"
	"github.com/cloudkitchen/backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ConversationHandler struct {
	svc        service.ConversationService
	profileSvc service.ProfileService
}

func NewConversationHandler(svc service.ConversationService, profileSvc service.ProfileService) *ConversationHandler {
	return &ConversationHandler{svc: svc, profileSvc: profileSvc}
}

type MessageRequest struct {
	Body string `json:"body"`
}

type DraftRequest struct {
	Text string `json:"text"`
}

// contactFor loads the caller's profile to seed conversation contact fields.
// A missing profile is fine; the conversation just starts with less metadata.
func (h *ConversationHandler) contactFor(c echo.Context, uid string) service.ContactFields {
	contact := service.ContactFields{}
	if email, ok := c.Get("email").(string); ok {
		contact.Email = email
	}
	p, err := h.profileSvc.Get(c.Request().Context(), uid)
	if err != nil {
		return contact
	}
	contact.Name = p.Name
	contact.Phone = p.Phone
	contact.Address = p.Address
	if p.Email != "" {
		contact.Email = p.Email
	}
	return contact
}

// StartMine ensures the calling customer's conversation exists and returns it.
func (h *ConversationHandler) StartMine(c echo.Context) error {
	uid, _ := viewer(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	cv, err := h.svc.Ensure(c.Request().Context(), uid, h.contactFor(c, uid))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to open conversation"))
	}
	return c.JSON(http.StatusOK, cv)
}

func (h *ConversationHandler) List(c echo.Context) error {
	convs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch conversations"))
	}
	return c.JSON(http.StatusOK, convs)
}

func (h *ConversationHandler) Get(c echo.Context) error {
	uid, admin := viewer(c)
	cv, err := h.svc.Get(c.Request().Context(), c.Param("id"), uid, admin)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		}
		if err == service.ErrForbidden {
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch conversation"))
	}
	return c.JSON(http.StatusOK, cv)
}

func (h *ConversationHandler) ListMessages(c echo.Context) error {
	uid, admin := viewer(c)
	msgs, err := h.svc.ListMessages(c.Request().Context(), c.Param("id"), uid, admin)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		}
		if err == service.ErrForbidden {
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch messages"))
	}
	return c.JSON(http.StatusOK, msgs)
}

func (h *ConversationHandler) CreateMessage(c echo.Context) error {
	uid, admin := viewer(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	convID := c.Param("id")
	contact := service.ContactFields{}
	if !admin {
		contact = h.contactFor(c, uid)
	}
	msg, err := h.svc.SendMessage(c.Request().Context(), convID, uid, admin, req.Body, contact)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		}
		if err == service.ErrForbidden {
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *ConversationHandler) MarkRead(c echo.Context) error {
	uid, admin := viewer(c)
	convID := c.Param("id")
	if !admin && convID != uid {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
	}
	role := model.SenderCustomer
	if admin {
		role = model.SenderAdmin
	}
	if err := h.svc.MarkRead(c.Request().Context(), convID, role); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to mark read"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ConversationHandler) Archive(c echo.Context) error {
	if err := h.svc.Archive(c.Request().Context(), c.Param("id")); err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to archive"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ConversationHandler) SaveDraft(c echo.Context) error {
	uid, admin := viewer(c)
	var req DraftRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := h.svc.SaveDraft(c.Request().Context(), c.Param("id"), uid, admin, req.Text); err != nil {
		if err == service.ErrForbidden {
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to save draft"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ConversationHandler) LoadDraft(c echo.Context) error {
	uid, admin := viewer(c)
	text, err := h.svc.LoadDraft(c.Request().Context(), c.Param("id"), uid, admin)
	if err != nil {
		if err == service.ErrForbidden {
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to load draft"))
	}
	return c.JSON(http.StatusOK, map[string]string{"text": text})
}
