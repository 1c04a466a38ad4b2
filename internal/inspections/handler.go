package inspections

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inspection-backend/internal/shared/server/middleware"
	"inspection-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the inspections service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches inspection routes to the router group. The
// public report route is exempt from auth by its /public prefix.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/inspections", h.create)
	rg.GET("/inspections", h.list)
	rg.GET("/inspections/:id", h.get)
	rg.POST("/inspections/:id/items", h.addItem)
	rg.PUT("/inspections/:id/items/:itemId", h.updateItem)
	rg.POST("/inspections/:id/complete", h.complete)
	rg.POST("/inspections/:id/send", h.send)
	rg.GET("/public/reports/:id", h.publicReport)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	insp, err := h.Svc.Create(c.Request.Context(), middleware.ShopIDFromContext(c), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err, "failed to create inspection")
		return
	}
	c.Set(middleware.InspectionIDKey, insp.ID)
	respond.Created(c, insp)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, limit, offset, err := h.Svc.List(c.Request.Context(), middleware.ShopIDFromContext(c), limit, offset)
	if err != nil {
		writeError(c, err, "failed to list inspections")
		return
	}
	if items == nil {
		items = []Inspection{}
	}
	respond.OK(c, listResponse{Items: items, Limit: limit, Offset: offset})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.InspectionIDKey, id)

	insp, err := h.Svc.Get(c.Request.Context(), middleware.ShopIDFromContext(c), id)
	if err != nil {
		writeError(c, err, "failed to load inspection")
		return
	}
	respond.OK(c, insp)
}

func (h *Handler) addItem(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.InspectionIDKey, id)

	var in ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	res, err := h.Svc.AddItem(c.Request.Context(), middleware.ShopIDFromContext(c), id, in)
	if err != nil {
		writeError(c, err, "failed to add item")
		return
	}
	c.Set(middleware.ItemIDKey, res.Item.ID)
	respond.Created(c, res)
}

func (h *Handler) updateItem(c *gin.Context) {
	id := c.Param("id")
	itemID := c.Param("itemId")
	c.Set(middleware.InspectionIDKey, id)
	c.Set(middleware.ItemIDKey, itemID)

	var in ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	res, err := h.Svc.UpdateItem(c.Request.Context(), middleware.ShopIDFromContext(c), id, itemID, in)
	if err != nil {
		writeError(c, err, "failed to update item")
		return
	}
	respond.OK(c, res)
}

func (h *Handler) complete(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.InspectionIDKey, id)

	insp, err := h.Svc.Complete(c.Request.Context(), middleware.ShopIDFromContext(c), id)
	if err != nil {
		writeError(c, err, "failed to complete inspection")
		return
	}
	c.Set(middleware.StatusChangeKey, "in_progress->completed")
	respond.OK(c, insp)
}

func (h *Handler) send(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.InspectionIDKey, id)

	res, err := h.Svc.Send(c.Request.Context(), middleware.ShopIDFromContext(c), id, middleware.RequestIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to send inspection")
		return
	}
	c.Set(middleware.StatusChangeKey, "completed->sent")
	respond.OK(c, res)
}

func (h *Handler) publicReport(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.InspectionIDKey, id)

	report, err := h.Svc.PublicReport(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to load report")
		return
	}
	respond.OK(c, report)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "inspection not found", nil)
	case errors.Is(err, ErrItemNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "item not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrInvalidState):
		respond.Error(c, http.StatusConflict, "invalid_state", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
