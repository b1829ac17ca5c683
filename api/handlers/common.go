package handlers

import (
	"context"

	"github.com/meghashyamc/searchform/secrets"
	"github.com/meghashyamc/searchform/variants"
)

// EndpointResolver returns the configured endpoint of a variant, or "" when none is configured.
type EndpointResolver interface {
	GetVariantEndpoint(variant string) string
}

// Searcher submits one search to a variant's upstream.
type Searcher interface {
	Submit(ctx context.Context, variant variants.Variant, submission variants.Submission) (*variants.View, error)
}

type variantSummary struct {
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	SearchTypes  []string `json:"search_types"`
	SecretsLabel string   `json:"-"`
}

func summarize(variant variants.Variant) variantSummary {
	secretsLabel := "API Token"
	if variant.RequiresUserID() {
		secretsLabel = "JWT Token and User ID"
	}
	return variantSummary{
		Name:         variant.Name(),
		Title:        variant.Title(),
		Description:  variant.Description(),
		SearchTypes:  variant.SearchTypes(),
		SecretsLabel: secretsLabel,
	}
}

func defaultEndpoint(endpoints EndpointResolver, variant variants.Variant) string {
	if endpoints != nil {
		if endpoint := endpoints.GetVariantEndpoint(variant.Name()); endpoint != "" {
			return endpoint
		}
	}
	return variant.DefaultEndpoint()
}

type credentials struct {
	token  string
	userID string
}

func loadCredentials(store secrets.Store, variant variants.Variant) credentials {
	creds := credentials{token: secrets.Lookup(store, variant.TokenKey())}
	if variant.RequiresUserID() {
		creds.userID = secrets.Lookup(store, variant.UserIDKey())
	}
	return creds
}

func (c credentials) loaded(variant variants.Variant) bool {
	return c.token != "" && (!variant.RequiresUserID() || c.userID != "")
}
