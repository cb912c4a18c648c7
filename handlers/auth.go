package handlers

import (
	"net/http"

	"food-delivery-broker/auth"
	"food-delivery-broker/httpx"
	"food-delivery-broker/middleware"
	"food-delivery-broker/models"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Email     string      `json:"email" binding:"required,email"`
	Password  string      `json:"password" binding:"required,min=6"`
	FirstName string      `json:"firstName" binding:"required"`
	LastName  string      `json:"lastName" binding:"required"`
	Role      models.Role `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new customer or driver account
//
// @Summary Register an account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Account"
// @Success 201 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Failure 403 {object} httpx.Envelope
// @Router /register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BindError(err))
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), auth.Registration{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}

	h.log.InfoContext(c.Request.Context(), "account registered", "user_id", user.ID, "role", user.Role)
	httpx.Success(c, http.StatusCreated, gin.H{"user": user})
}

// Login authenticates a user and returns a JWT
//
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} httpx.Envelope
// @Failure 401 {object} httpx.Envelope
// @Router /login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BindError(err))
		return
	}

	token, user, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"token": token, "user": user})
}

// GetProfile returns the authenticated user's profile
//
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.Envelope
// @Failure 401 {object} httpx.Envelope
// @Router /profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.accounts.Profile(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"user": user})
}
