package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inspection-backend/internal/shared/server/middleware"
	"inspection-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.PUT("/me", h.updateMe)
	rg.GET("/shop/users", h.listShop)
}

type profileRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// me returns the stored profile, or the token identity when the user has
// no profile row yet.
func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	shopID := middleware.ShopIDFromContext(c)

	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	switch {
	case err == nil:
		if user.ShopID != shopID {
			respond.Error(c, http.StatusForbidden, "forbidden", "user belongs to another shop", nil)
			return
		}
		respond.OK(c, user)
	case errors.Is(err, ErrNotFound):
		role := middleware.UserRoleFromContext(c)
		if role == "" {
			role = RoleTechnician
		}
		respond.OK(c, User{
			ID:     userID,
			ShopID: shopID,
			Email:  middleware.UserEmailFromContext(c),
			Role:   role,
		})
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
	}
}

// updateMe stores the caller's profile. Identity and role come from the
// token; only email and name are taken from the body.
func (h *Handler) updateMe(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	user := User{
		ID:       middleware.UserIDFromContext(c),
		ShopID:   middleware.ShopIDFromContext(c),
		Email:    req.Email,
		FullName: req.FullName,
		Role:     middleware.UserRoleFromContext(c),
	}
	if user.Email == "" {
		user.Email = middleware.UserEmailFromContext(c)
	}
	if user.Role == "" {
		if existing, err := h.Svc.GetByID(c.Request.Context(), user.ID); err == nil {
			user.Role = existing.Role
		}
	}

	saved, err := h.Svc.Upsert(c.Request.Context(), user)
	switch {
	case err == nil:
		respond.OK(c, saved)
	case errors.Is(err, ErrEmailTaken):
		respond.Error(c, http.StatusConflict, "conflict", "email already in use", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save user", nil)
	}
}

func (h *Handler) listShop(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	members, err := h.Svc.ListByShop(c.Request.Context(), middleware.ShopIDFromContext(c))
	switch {
	case err == nil:
		respond.OK(c, gin.H{"items": members})
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list users", nil)
	}
}
