package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okaditya84/Spam-Contact-Search-API/internal/domain"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/service"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	Accounts *service.AccountService
}

func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{Accounts: accounts}
}

type registerRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	Email       string `json:"email" binding:"omitempty,email"`
}

type loginRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// Register creates a new account. The credential hash is never part of
// the response.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.Accounts.Register(c.Request.Context(), service.RegisterInput{
		PhoneNumber: req.PhoneNumber,
		Name:        req.Name,
		Password:    req.Password,
		Email:       req.Email,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userSummary(user))
}

// Login verifies credentials and returns the user's bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	token, err := h.Accounts.Login(c.Request.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token.Token})
}

func userSummary(user domain.User) gin.H {
	var email *string
	if user.Email != "" {
		email = &user.Email
	}
	return gin.H{
		"id":           user.ID,
		"name":         user.Name,
		"phone_number": user.PhoneNumber,
		"email":        email,
	}
}
