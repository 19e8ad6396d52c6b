package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/okaditya84/Spam-Contact-Search-API/internal/domain"
	httpmiddleware "github.com/okaditya84/Spam-Contact-Search-API/internal/http/middleware"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/service"
)

// DirectoryHandler serves search, person detail, and contact endpoints.
// All of them require an authenticated requester.
type DirectoryHandler struct {
	Directory *service.DirectoryService
}

func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{Directory: directory}
}

type contactRequest struct {
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// SearchByName handles GET /search/name/?q=.
func (h *DirectoryHandler) SearchByName(c *gin.Context) {
	results, err := h.Directory.SearchByName(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// SearchByPhone handles GET /search/phone/?q=.
func (h *DirectoryHandler) SearchByPhone(c *gin.Context) {
	results, err := h.Directory.SearchByPhone(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// PersonDetail handles GET /person/{identifier}/. Non-numeric
// identifiers are not part of either id space, so they are a 404 rather
// than a client error.
func (h *DirectoryHandler) PersonDetail(c *gin.Context) {
	identifier, err := strconv.ParseInt(c.Param("identifier"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "Not found."})
		return
	}

	requester, ok := httpmiddleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authentication required."})
		return
	}

	person, err := h.Directory.PersonDetail(c.Request.Context(), identifier, requester)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

// CreateContact handles POST /contacts/.
func (h *DirectoryHandler) CreateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	owner, ok := httpmiddleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authentication required."})
		return
	}

	contact, err := h.Directory.AddContact(c.Request.Context(), owner.ID, req.Name, req.PhoneNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contactSummary(contact))
}

// ListContacts handles GET /contacts/.
func (h *DirectoryHandler) ListContacts(c *gin.Context) {
	owner, ok := httpmiddleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authentication required."})
		return
	}

	contacts, err := h.Directory.ListContacts(c.Request.Context(), owner.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	summaries := make([]gin.H, 0, len(contacts))
	for _, contact := range contacts {
		summaries = append(summaries, contactSummary(contact))
	}
	c.JSON(http.StatusOK, summaries)
}

func contactSummary(contact domain.Contact) gin.H {
	return gin.H{
		"id":           contact.ID,
		"name":         contact.Name,
		"phone_number": contact.PhoneNumber,
	}
}
