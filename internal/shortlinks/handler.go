package shortlinks

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inspection-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the redirect route at the router root.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/s/:code", h.redirect)
}

func (h *Handler) redirect(c *gin.Context) {
	link, err := h.Svc.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "link not found or expired", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to resolve link", nil)
		return
	}
	c.Redirect(http.StatusFound, link.TargetURL)
}
