package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/okaditya84/Spam-Contact-Search-API/internal/http/handler"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Error       string            `json:"error"`
	Description string            `json:"error_description"`
	Fields      map[string]string `json:"fields"`
}

func postJSON(t *testing.T, handle gin.HandlerFunc, path, body string) (*httptest.ResponseRecorder, errorBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handle(c)

	var parsed errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	return rec, parsed
}

func TestRegisterBindingErrors(t *testing.T) {
	h := handler.NewAuthHandler(nil)

	rec, body := postJSON(t, h.Register, "/register/", `{"password": "short", "email": "not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", body.Error)
	require.Equal(t, "This field is required.", body.Fields["phone_number"])
	require.Equal(t, "This field is required.", body.Fields["name"])
	require.Equal(t, "Ensure this field has at least 8 characters.", body.Fields["password"])
	require.Equal(t, "Enter a valid email address.", body.Fields["email"])
}

func TestLoginBindingErrors(t *testing.T) {
	h := handler.NewAuthHandler(nil)

	rec, body := postJSON(t, h.Login, "/login/", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "This field is required.", body.Fields["phone_number"])
	require.Equal(t, "This field is required.", body.Fields["password"])
}

func TestContactBindingErrors(t *testing.T) {
	h := handler.NewDirectoryHandler(nil)

	rec, body := postJSON(t, h.CreateContact, "/contacts/", `{"name": "Plumber"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "This field is required.", body.Fields["phone_number"])
}

func TestSpamBindingErrors(t *testing.T) {
	h := handler.NewSpamHandler(nil)

	rec, body := postJSON(t, h.Report, "/spam/", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", body.Error)
	require.Empty(t, body.Fields)
}

func TestSearchByNameMissingQuery(t *testing.T) {
	directory := service.NewDirectoryService(nil, nil, nil, zap.NewNop())
	h := handler.NewDirectoryHandler(directory)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/search/name/", nil)
	h.SearchByName(c)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, `Query parameter "q" is required.`, body.Description)
}

func TestPersonDetailNonNumericIdentifier(t *testing.T) {
	h := handler.NewDirectoryHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/person/abc/", nil)
	c.Params = gin.Params{{Key: "identifier", Value: "abc"}}
	h.PersonDetail(c)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "not_found", body.Error)
}
