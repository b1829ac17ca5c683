package api

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchform/api/handlers"
	"github.com/meghashyamc/searchform/logger"
	"github.com/meghashyamc/searchform/secrets"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, searcher handlers.Searcher, store secrets.Store, endpoints handlers.EndpointResolver, templates *template.Template, static fs.FS) {
	router.GET("/health", health())

	router.StaticFS("/ui", http.FS(static))
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/variants")
	})

	handlers.SetupForms(router, templates, logger, searcher, store, endpoints)
	handlers.SetupSearch(router, logger, searcher, store, endpoints)

}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())

	return router
}
