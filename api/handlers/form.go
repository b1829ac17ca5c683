package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchform/logger"
	"github.com/meghashyamc/searchform/secrets"
	"github.com/meghashyamc/searchform/variants"
)

// FormRequest is one submission of a variant's HTML form.
type FormRequest struct {
	Endpoint   string `form:"endpoint"`
	Query      string `form:"query"`
	SearchType string `form:"search_type"`
}

type indexPage struct {
	Variants []variantSummary
}

type formPage struct {
	Variant       variantSummary
	Endpoint      string
	Query         string
	SearchType    string
	SecretsLoaded bool
	View          *variants.View
	Error         string
}

// SetupForms serves one HTML search form per variant from templates parsed by the caller.
func SetupForms(router *gin.Engine, templates *template.Template, logger logger.Logger, searcher Searcher, store secrets.Store, endpoints EndpointResolver) {
	router.SetHTMLTemplate(templates)
	router.GET("/variants", handleIndexPage())
	router.GET("/variants/:name", handleFormPage(logger, store, endpoints))
	router.POST("/variants/:name", handleFormSubmit(searcher, logger, store, endpoints))
}

func handleIndexPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		page := indexPage{}
		for _, variant := range variants.List() {
			page.Variants = append(page.Variants, summarize(variant))
		}
		c.HTML(http.StatusOK, "index.html", page)
	}
}

func handleFormPage(logger logger.Logger, store secrets.Store, endpoints EndpointResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		variant, ok := lookupVariant(c, logger)
		if !ok {
			return
		}

		page := newFormPage(variant, loadCredentials(store, variant))
		page.Endpoint = defaultEndpoint(endpoints, variant)
		if len(page.Variant.SearchTypes) > 0 {
			page.SearchType = page.Variant.SearchTypes[0]
		}
		c.HTML(http.StatusOK, "form.html", page)
	}
}

// handleFormSubmit always answers with the form page so the user can submit again,
// carrying either the rendered result or the error of this submission.
func handleFormSubmit(searcher Searcher, logger logger.Logger, store secrets.Store, endpoints EndpointResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		variant, ok := lookupVariant(c, logger)
		if !ok {
			return
		}

		creds := loadCredentials(store, variant)
		page := newFormPage(variant, creds)

		request := FormRequest{}
		if err := c.ShouldBind(&request); err != nil {
			logger.Warn("could not extract form fields", "variant", variant.Name(), "err", err.Error())
			page.Endpoint = defaultEndpoint(endpoints, variant)
			page.Error = "failed to read the submitted form"
			c.HTML(http.StatusUnprocessableEntity, "form.html", page)
			return
		}
		page.Endpoint = request.Endpoint
		page.Query = request.Query
		page.SearchType = request.SearchType

		view, err := searcher.Submit(c.Request.Context(), variant, variants.Submission{
			Endpoint:   request.Endpoint,
			Query:      request.Query,
			SearchType: request.SearchType,
			Token:      creds.token,
			UserID:     creds.userID,
		})
		if err != nil {
			page.Error = err.Error()
		}
		page.View = view

		c.HTML(http.StatusOK, "form.html", page)
	}
}

func newFormPage(variant variants.Variant, creds credentials) formPage {
	return formPage{
		Variant:       summarize(variant),
		SecretsLoaded: creds.loaded(variant),
	}
}

func lookupVariant(c *gin.Context, logger logger.Logger) (variants.Variant, bool) {
	variant, err := variants.Get(c.Param("name"))
	if err != nil {
		logger.Warn("form requested for unknown variant", "variant", c.Param("name"))
		c.AbortWithStatus(http.StatusNotFound)
		return nil, false
	}
	return variant, true
}
