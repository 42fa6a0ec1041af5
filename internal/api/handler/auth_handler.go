package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.Signup)
	rg.POST("/token", h.Token)
}

// Signup handles POST /auth/signup. A repeated signup with the exact
// same pair returns 200 again instead of a uniqueness error.
func (h *AuthHandler) Signup(c *gin.Context) {
	var in dto.SignupRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Signup(ctx, in.Username, in.Email); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SignupResponse{Username: in.Username, Email: in.Email})
}

// Token handles POST /auth/token. Unknown username is 404, a wrong or
// spent code 400.
func (h *AuthHandler) Token(c *gin.Context) {
	var in dto.TokenRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	token, err := h.svc.IssueToken(ctx, in.Username, in.ConfirmationCode)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TokenResponse{Token: token})
}
