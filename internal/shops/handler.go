package shops

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inspection-backend/internal/shared/server/middleware"
	"inspection-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches shop routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/shops", h.register)
	rg.GET("/shop", h.get)
	rg.PUT("/shop/config", h.updateConfig)
}

type registerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type updateConfigRequest struct {
	IncludeCostEstimates *bool    `json:"includeCostEstimates"`
	LaborRate            *float64 `json:"laborRate"`
	MarkupPercent        *float64 `json:"markupPercent"`
	IncludePartNumbers   *bool    `json:"includePartNumbers"`
	IncludeTimeframes    *bool    `json:"includeTimeframes"`
}

// register creates the caller's shop. The id comes from the token so later
// requests carrying the same identity resolve to it.
func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	shop, err := h.Svc.Register(c.Request.Context(), middleware.ShopIDFromContext(c), req.Name, req.Phone)
	if err != nil {
		writeError(c, err, "failed to register shop")
		return
	}
	respond.Created(c, shop)
}

func (h *Handler) get(c *gin.Context) {
	shop, err := h.Svc.Get(c.Request.Context(), middleware.ShopIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to load shop")
		return
	}
	respond.OK(c, shop)
}

func (h *Handler) updateConfig(c *gin.Context) {
	shopID := middleware.ShopIDFromContext(c)

	var req updateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	shop, err := h.Svc.Get(c.Request.Context(), shopID)
	if err != nil {
		writeError(c, err, "failed to load shop")
		return
	}

	cfg := shop.Config
	if req.IncludeCostEstimates != nil {
		cfg.IncludeCostEstimates = *req.IncludeCostEstimates
	}
	if req.LaborRate != nil {
		cfg.LaborRate = *req.LaborRate
	}
	if req.MarkupPercent != nil {
		cfg.MarkupPercent = *req.MarkupPercent
	}
	if req.IncludePartNumbers != nil {
		cfg.IncludePartNumbers = *req.IncludePartNumbers
	}
	if req.IncludeTimeframes != nil {
		cfg.IncludeTimeframes = *req.IncludeTimeframes
	}

	updated, err := h.Svc.UpdateConfig(c.Request.Context(), shopID, cfg)
	if err != nil {
		writeError(c, err, "failed to update shop config")
		return
	}
	respond.OK(c, updated)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "shop not found", nil)
	case errors.Is(err, ErrAlreadyExists):
		respond.Error(c, http.StatusConflict, "conflict", "shop already exists", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
