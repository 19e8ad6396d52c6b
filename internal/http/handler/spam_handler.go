package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	httpmiddleware "github.com/okaditya84/Spam-Contact-Search-API/internal/http/middleware"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/service"
)

// SpamHandler serves POST /spam/.
type SpamHandler struct {
	Spam *service.SpamService
}

func NewSpamHandler(spam *service.SpamService) *SpamHandler {
	return &SpamHandler{Spam: spam}
}

type spamRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// Report flags a number as spam. A repeated report from the same user is
// a success, not an error: 201 on first report, 200 afterwards.
func (h *SpamHandler) Report(c *gin.Context) {
	var req spamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	reporter, ok := httpmiddleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authentication required."})
		return
	}

	created, err := h.Spam.Report(c.Request.Context(), reporter, req.PhoneNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"detail": fmt.Sprintf("Phone number %s marked as spam.", req.PhoneNumber)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": fmt.Sprintf("You have already reported %s as spam.", req.PhoneNumber)})
}
