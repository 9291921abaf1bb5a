package handler

import (
	"errors"
	"net/http"
	"strconv"

	"keymarket/internal/apierror"
	"keymarket/internal/middleware"
	"keymarket/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationsHandler struct{ svc service.NotificationService }

func NewNotificationsHandler(svc service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{svc: svc}
}

// List returns the authenticated user's notifications, newest first.
func (h *NotificationsHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	unreadOnly := c.Query("unread") == "true"
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.svc.List(c.Request.Context(), claims.UserID, unreadOnly, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list notifications"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.svc.MarkRead(c.Request.Context(), claims.UserID, id); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrNotificationNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationsHandler) MarkAllRead(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if err := h.svc.MarkAllRead(c.Request.Context(), claims.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to mark notifications read"))
		return
	}
	c.Status(http.StatusNoContent)
}
