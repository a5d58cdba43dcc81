// Package fields provides metadata for standard JWT headers and claims,
// and the category ordering used to group claims for display.
//
// The registry is built from a static YAML resource embedded into the binary.
// It is created once per process and is read-only afterwards.
package fields

import (
	_ "embed"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"gopkg.in/yaml.v3"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/jwtinspect", "fields")

const (
	// UnknownCategory is the category ID for claims without metadata
	UnknownCategory = "unknown"
	// UnknownCategoryTitle is the display title of UnknownCategory
	UnknownCategoryTitle = "Other claims"
)

//go:embed fields.yaml
var defaultConfig []byte

// Field describes a header or claim field
type Field struct {
	// Name is the human-readable name
	Name string `json:"name" yaml:"name"`
	// Description may contain inline HTML
	Description string `json:"description" yaml:"description"`
	// Link to the field definition, empty if not available
	Link string `json:"link,omitempty" yaml:"link,omitempty"`
}

// StandardClaim is a well-known claim
type StandardClaim struct {
	Field    `yaml:",inline"`
	Category string `json:"category" yaml:"category"`
}

// StandardHeader is a well-known token header
type StandardHeader struct {
	Field `yaml:",inline"`
}

// ClaimCategory is a display group for claims
type ClaimCategory struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Config is the configuration resource the registry is built from
type Config struct {
	StandardHeaders map[string]Field         `json:"standard_headers" yaml:"standard_headers"`
	StandardClaims  map[string]StandardClaim `json:"standard_claims" yaml:"standard_claims"`
	// ClaimCategories are listed in the display order
	ClaimCategories []ClaimCategory `json:"claim_categories" yaml:"claim_categories"`
}

// LoadConfig parses the YAML configuration resource
func LoadConfig(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.WithMessage(err, "unable to parse fields configuration")
	}
	return &cfg, nil
}

// Registry provides lookup of standard fields.
// The zero value is not usable, use NewRegistry or Default.
type Registry struct {
	headers    map[string]StandardHeader
	claims     map[string]StandardClaim
	categories []ClaimCategory
	ranks      map[string]int
}

// NewRegistry returns a registry built from the configuration
func NewRegistry(cfg *Config) (*Registry, error) {
	r := &Registry{
		headers:    make(map[string]StandardHeader, len(cfg.StandardHeaders)),
		claims:     make(map[string]StandardClaim, len(cfg.StandardClaims)),
		categories: make([]ClaimCategory, 0, len(cfg.ClaimCategories)),
		ranks:      make(map[string]int, len(cfg.ClaimCategories)),
	}

	for _, cat := range cfg.ClaimCategories {
		if cat.ID == "" {
			return nil, errors.Errorf("category ID is empty: %q", cat.Title)
		}
		if cat.ID == UnknownCategory {
			return nil, errors.Errorf("category ID is reserved: %s", cat.ID)
		}
		if _, ok := r.ranks[cat.ID]; ok {
			return nil, errors.Errorf("duplicate category: %s", cat.ID)
		}
		r.ranks[cat.ID] = len(r.categories)
		r.categories = append(r.categories, cat)
	}

	for name, f := range cfg.StandardHeaders {
		r.headers[name] = StandardHeader{Field: f}
	}
	for name, c := range cfg.StandardClaims {
		if _, ok := r.ranks[c.Category]; !ok {
			return nil, errors.Errorf("claim %q refers to unknown category: %q", name, c.Category)
		}
		r.claims[name] = c
	}

	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry built from the embedded configuration
func Default() *Registry {
	defaultOnce.Do(func() {
		cfg, err := LoadConfig(defaultConfig)
		if err != nil {
			logger.Panicf("invalid embedded configuration: %+v", err)
		}
		defaultRegistry, err = NewRegistry(cfg)
		if err != nil {
			logger.Panicf("invalid embedded configuration: %+v", err)
		}
		logger.KV(xlog.DEBUG,
			"headers", len(defaultRegistry.headers),
			"claims", len(defaultRegistry.claims),
			"categories", len(defaultRegistry.categories),
		)
	})
	return defaultRegistry
}

// ClaimByName returns the claim that is known to be present in the registry.
// It panics for unknown names, use Claim for untrusted input.
func (r *Registry) ClaimByName(name string) StandardClaim {
	c, ok := r.claims[name]
	if !ok {
		logger.Panicf("unknown standard claim: %q", name)
	}
	return c
}

// Claim returns the claim metadata, if the claim is standard
func (r *Registry) Claim(name string) (StandardClaim, bool) {
	c, ok := r.claims[name]
	return c, ok
}

// HeaderByName returns the header that is known to be present in the registry.
// It panics for unknown names, use Header for untrusted input.
func (r *Registry) HeaderByName(name string) StandardHeader {
	h, ok := r.headers[name]
	if !ok {
		logger.Panicf("unknown standard header: %q", name)
	}
	return h
}

// Header returns the header metadata, if the header is standard
func (r *Registry) Header(name string) (StandardHeader, bool) {
	h, ok := r.headers[name]
	return h, ok
}

// Category returns the configured category
func (r *Registry) Category(id string) (ClaimCategory, bool) {
	rank, ok := r.ranks[id]
	if !ok {
		return ClaimCategory{}, false
	}
	return r.categories[rank], true
}

// CategoryRank returns the position of the category in the configured order.
// It panics if the category is not configured.
func (r *Registry) CategoryRank(id string) int {
	rank, ok := r.ranks[id]
	if !ok {
		logger.Panicf("unknown claim category: %q", id)
	}
	return rank
}

// Categories returns the configured categories in order
func (r *Registry) Categories() []ClaimCategory {
	return append([]ClaimCategory(nil), r.categories...)
}

// ClaimNames returns sorted names of standard claims
func (r *Registry) ClaimNames() []string {
	return sortedKeys(r.claims)
}

// HeaderNames returns sorted names of standard headers
func (r *Registry) HeaderNames() []string {
	return sortedKeys(r.headers)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ClaimByName returns the standard claim from the default registry
func ClaimByName(name string) StandardClaim {
	return Default().ClaimByName(name)
}

// GetClaim returns the standard claim from the default registry, if present
func GetClaim(name string) (StandardClaim, bool) {
	return Default().Claim(name)
}

// HeaderByName returns the standard header from the default registry
func HeaderByName(name string) StandardHeader {
	return Default().HeaderByName(name)
}

// GetHeader returns the standard header from the default registry, if present
func GetHeader(name string) (StandardHeader, bool) {
	return Default().Header(name)
}

// CategoryRank returns the category rank from the default registry
func CategoryRank(id string) int {
	return Default().CategoryRank(id)
}
