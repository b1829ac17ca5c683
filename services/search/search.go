package search

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/google/uuid"
	"github.com/meghashyamc/searchform/logger"
	"github.com/meghashyamc/searchform/validation"
	"github.com/meghashyamc/searchform/variants"
)

const msgMissingCredentials = "token, user ID, or endpoint URL missing"

type Service struct {
	logger     logger.Logger
	validator  *validation.Validator
	httpClient *http.Client
}

type queryInput struct {
	Query string `json:"query" validate:"valid_query"`
}

// NewHTTPClient returns the client used for upstream calls. A zero timeout means none.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func New(logger logger.Logger, validator *validation.Validator, httpClient *http.Client) *Service {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Service{
		logger:     logger,
		validator:  validator,
		httpClient: httpClient,
	}
}

// Submit validates one submission, sends it upstream once and renders the reply.
// Failures are *ValidationError, *StatusError or *TransportError.
func (s *Service) Submit(ctx context.Context, variant variants.Variant, submission variants.Submission) (*variants.View, error) {
	submission, err := s.validate(variant, submission)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	s.logger.Info("submitting search", "request_id", requestID, "variant", variant.Name(), "endpoint", submission.Endpoint, "search_type", submission.SearchType)

	var body bytes.Buffer
	statusCode := 0
	err = requests.URL(submission.Endpoint).
		Client(s.httpClient).
		Post().
		Bearer(submission.Token).
		BodyJSON(variant.BuildPayload(submission)).
		AddValidator(func(res *http.Response) error {
			statusCode = res.StatusCode
			return nil
		}).
		ToBytesBuffer(&body).
		Fetch(ctx)
	if err != nil {
		s.logger.Warn("search request failed", "request_id", requestID, "variant", variant.Name(), "err", err.Error())
		return nil, &TransportError{Op: "post", Err: err}
	}

	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		s.logger.Warn("search returned an error status", "request_id", requestID, "variant", variant.Name(), "status", statusCode)
		return nil, &StatusError{StatusCode: statusCode, Body: body.String()}
	}

	view, err := variant.Render(body.Bytes())
	if err != nil {
		s.logger.Warn("could not decode search response", "request_id", requestID, "variant", variant.Name(), "err", err.Error())
		return nil, &TransportError{Op: "decode", Err: err}
	}

	s.logger.Info("search completed", "request_id", requestID, "variant", variant.Name(), "sections", len(view.Sections))
	return view, nil
}

func (s *Service) validate(variant variants.Variant, submission variants.Submission) (variants.Submission, error) {
	submission.Endpoint = strings.TrimSpace(submission.Endpoint)
	submission.SearchType = strings.TrimSpace(submission.SearchType)

	if submission.Token == "" || submission.Endpoint == "" || (variant.RequiresUserID() && submission.UserID == "") {
		s.logger.Warn("search submitted without credentials or endpoint", "variant", variant.Name())
		return submission, &ValidationError{Message: msgMissingCredentials}
	}

	if err := s.validator.ValidateVar("endpoint URL", submission.Endpoint, "url"); err != nil {
		return submission, &ValidationError{Message: err.Error(), Err: err}
	}

	if err := s.validator.Validate(queryInput{Query: submission.Query}); err != nil {
		return submission, &ValidationError{Message: err.Error(), Err: err}
	}

	options := variant.SearchTypes()
	if len(options) == 0 {
		submission.SearchType = ""
		return submission, nil
	}
	if submission.SearchType == "" {
		submission.SearchType = options[0]
	}
	if err := s.validator.ValidateVar("search type", submission.SearchType, "oneof="+strings.Join(options, " ")); err != nil {
		return submission, &ValidationError{Message: err.Error(), Err: err}
	}

	return submission, nil
}
