package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/okaditya84/Spam-Contact-Search-API/internal/config"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/http/handler"
	httpmiddleware "github.com/okaditya84/Spam-Contact-Search-API/internal/http/middleware"
	"github.com/okaditya84/Spam-Contact-Search-API/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, authHandler *handler.AuthHandler, directoryHandler *handler.DirectoryHandler, spamHandler *handler.SpamHandler, authMiddleware *httpmiddleware.Auth, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.POST("/register/", authHandler.Register)
	r.POST("/login/", authHandler.Login)

	authed := r.Group("/", authMiddleware.RequireToken)
	{
		search := authed.Group("/search")
		{
			search.GET("/name/", directoryHandler.SearchByName)
			search.GET("/phone/", directoryHandler.SearchByPhone)
		}

		authed.GET("/person/:identifier/", directoryHandler.PersonDetail)

		authed.POST("/contacts/", directoryHandler.CreateContact)
		authed.GET("/contacts/", directoryHandler.ListContacts)

		authed.POST("/spam/", spamHandler.Report)
	}

	return r
}
