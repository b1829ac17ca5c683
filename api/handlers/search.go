package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchform/logger"
	"github.com/meghashyamc/searchform/secrets"
	"github.com/meghashyamc/searchform/services/search"
	"github.com/meghashyamc/searchform/variants"
)

type SearchRequest struct {
	Endpoint   string `json:"endpoint"`
	Query      string `json:"query"`
	SearchType string `json:"search_type"`
}

type upstreamErrorDetails struct {
	UpstreamStatus int `json:"upstream_status"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, searcher Searcher, store secrets.Store, endpoints EndpointResolver) {
	router.GET("/api/variants", handleListVariants())
	router.POST("/api/variants/:name/search", handleSearch(searcher, logger, store, endpoints))
}

func handleListVariants() gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries := make([]variantSummary, 0)
		for _, variant := range variants.List() {
			summaries = append(summaries, summarize(variant))
		}
		writeResponse(c, summaries, http.StatusOK, nil)
	}
}

func handleSearch(searcher Searcher, logger logger.Logger, store secrets.Store, endpoints EndpointResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		variant, err := variants.Get(c.Param("name"))
		if err != nil {
			logger.Warn("search requested for unknown variant", "variant", c.Param("name"))
			c.Abort()
			writeResponse(c, nil, http.StatusNotFound, []string{err.Error()})
			return
		}

		request := SearchRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if request.Endpoint == "" {
			request.Endpoint = defaultEndpoint(endpoints, variant)
		}
		creds := loadCredentials(store, variant)

		view, err := searcher.Submit(c.Request.Context(), variant, variants.Submission{
			Endpoint:   request.Endpoint,
			Query:      request.Query,
			SearchType: request.SearchType,
			Token:      creds.token,
			UserID:     creds.userID,
		})
		if err != nil {
			c.Abort()
			writeSearchError(c, err)
			return
		}

		writeResponse(c, view, http.StatusOK, nil)
	}
}

func writeSearchError(c *gin.Context, err error) {
	var statusErr *search.StatusError
	switch {
	case errors.Is(err, search.ErrValidation):
		writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
	case errors.As(err, &statusErr):
		writeResponse(c, upstreamErrorDetails{UpstreamStatus: statusErr.StatusCode}, http.StatusBadGateway, []string{err.Error()})
	case errors.Is(err, search.ErrTransport):
		writeResponse(c, nil, http.StatusBadGateway, []string{err.Error()})
	default:
		writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
	}
}
