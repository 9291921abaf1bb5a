package handler

import (
	"errors"
	"net/http"
	"strconv"

	"keymarket/internal/apierror"
	"keymarket/internal/dto"
	"keymarket/internal/middleware"
	"keymarket/internal/repository"
	"keymarket/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var req dto.CreateInventoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventoryHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list inventory"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("inventory record not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock lists every inventory row at or below its minimum.
func (h *InventoryHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.ListLowStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list low stock"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	resp, err := h.svc.AdjustStock(c.Request.Context(), id, claims.UserID, req)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, service.ErrInventoryNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrInsufficientStock):
			status = http.StatusConflict
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, service.ErrInventoryNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrInventoryImmutable):
			status = http.StatusConflict
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Transactions lists the stock audit log with optional filters.
func (h *InventoryHandler) Transactions(c *gin.Context) {
	filter := repository.TransactionFilter{Type: c.Query("type")}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	if raw := c.Query("inventory_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid inventory_id"))
			return
		}
		id := uint(v)
		filter.InventoryID = &id
	}
	if raw := c.Query("user_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid user_id"))
			return
		}
		id := uint(v)
		filter.UserID = &id
	}

	resp, err := h.svc.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list transactions"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
