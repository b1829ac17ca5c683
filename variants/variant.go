// Package variants holds the independent search form clients. Each variant owns its request
// body and its reading of the response, and none of them assume another variant's schema.
package variants

import (
	"fmt"
	"sort"
	"sync"
)

// Variant describes one search form and the upstream contract behind it.
type Variant interface {
	// Name is the identifier used in routes, config keys and the CLI.
	Name() string

	Title() string

	Description() string

	// DefaultEndpoint is used when no endpoint is configured or entered. It may be empty.
	DefaultEndpoint() string

	// SearchTypes lists the selector options, first one being the default. Empty means no selector.
	SearchTypes() []string

	RequiresUserID() bool

	// TokenKey and UserIDKey name the secrets holding the bearer token and user id.
	TokenKey() string
	UserIDKey() string

	// BuildPayload returns the JSON body for a validated submission.
	BuildPayload(submission Submission) any

	// Render reads a successful response body. It only fails when the body is not JSON.
	Render(body []byte) (*View, error)
}

// Submission is what one press of the search button carries.
type Submission struct {
	Endpoint   string
	Query      string
	SearchType string
	Token      string
	UserID     string
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Variant)
)

// Register adds a variant to the registry. Called from init() in each variant file.
func Register(v Variant) {
	mu.Lock()
	defer mu.Unlock()
	registry[v.Name()] = v
}

func Get(name string) (Variant, error) {
	mu.RLock()
	defer mu.RUnlock()
	v, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("search variant not found: %s", name)
	}
	return v, nil
}

// List returns all registered variants sorted by name.
func List() []Variant {
	mu.RLock()
	defer mu.RUnlock()
	variants := make([]Variant, 0, len(registry))
	for _, v := range registry {
		variants = append(variants, v)
	}
	sort.Slice(variants, func(i, j int) bool { return variants[i].Name() < variants[j].Name() })
	return variants
}

// descriptor carries the static parts every variant shares.
type descriptor struct {
	name            string
	title           string
	description     string
	defaultEndpoint string
	secretPrefix    string
	searchTypes     []string
	requiresUserID  bool
}

func (d descriptor) Name() string            { return d.name }
func (d descriptor) Title() string           { return d.title }
func (d descriptor) Description() string     { return d.description }
func (d descriptor) DefaultEndpoint() string { return d.defaultEndpoint }
func (d descriptor) RequiresUserID() bool    { return d.requiresUserID }
func (d descriptor) TokenKey() string        { return d.secretPrefix + "_jwt_token" }

func (d descriptor) SearchTypes() []string {
	return append([]string(nil), d.searchTypes...)
}

func (d descriptor) UserIDKey() string {
	if !d.requiresUserID {
		return ""
	}
	return d.secretPrefix + "_user_id"
}
