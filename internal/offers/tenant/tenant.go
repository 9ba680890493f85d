// Package tenant resolves a tenant key to the capabilities that vary per
// deployment: the JSON schema its form payloads must satisfy, the display
// name used in notification mails, and an optional enrichment hook for
// public listings. The registry is built once at startup and immutable
// afterwards.
package tenant

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/raumfrei/offerd/internal/offers/domain"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// EnrichFunc may attach computed, non-persisted fields to a listing record.
type EnrichFunc func(domain.PublicOffer) domain.PublicOffer

// Config is the declarative form of a tenant, loadable from a JSON file.
type Config struct {
	// Key identifies the tenant in URLs and persisted offers
	Key string `json:"key"`

	// Name is the human-readable portal name used in notification mails
	Name string `json:"name"`

	// FormSchema is a JSON Schema document; submitted form payloads must
	// validate against it
	FormSchema json.RawMessage `json:"formSchema"`

	// Enrichment optionally names a registered enrichment hook
	Enrichment string `json:"enrichment,omitempty"`
}

// Tenant is a resolved tenant with its schema compiled.
type Tenant struct {
	Key  string
	Name string

	schema *jsonschema.Schema
	enrich EnrichFunc
}

// ValidateForm checks a submitted payload against the tenant's form schema.
func (t *Tenant) ValidateForm(raw json.RawMessage) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("form data is not valid JSON: %w", err)
	}
	return t.schema.Validate(doc)
}

// Enrich applies the tenant's enrichment hook, or returns the record
// unchanged when the tenant defines none.
func (t *Tenant) Enrich(o domain.PublicOffer) domain.PublicOffer {
	if t.enrich == nil {
		return o
	}
	return t.enrich(o)
}

// Registry is the immutable tenant lookup table.
type Registry struct {
	tenants map[string]*Tenant
}

// NewRegistry compiles the given configs into a registry. hooks maps
// enrichment names to registered functions; a config referencing an unknown
// hook is a startup error, not a silent no-op.
func NewRegistry(configs []Config, hooks map[string]EnrichFunc) (*Registry, error) {
	tenants := make(map[string]*Tenant, len(configs))

	for _, cfg := range configs {
		if cfg.Key == "" {
			return nil, fmt.Errorf("tenant config without key")
		}
		if _, dup := tenants[cfg.Key]; dup {
			return nil, fmt.Errorf("duplicate tenant key %q", cfg.Key)
		}

		schema, err := compileSchema(cfg.Key, cfg.FormSchema)
		if err != nil {
			return nil, fmt.Errorf("tenant %q: %w", cfg.Key, err)
		}

		t := &Tenant{
			Key:    cfg.Key,
			Name:   cfg.Name,
			schema: schema,
		}
		if cfg.Enrichment != "" {
			hook, ok := hooks[cfg.Enrichment]
			if !ok {
				return nil, fmt.Errorf("tenant %q references unknown enrichment %q", cfg.Key, cfg.Enrichment)
			}
			t.enrich = hook
		}
		tenants[cfg.Key] = t
	}

	return &Registry{tenants: tenants}, nil
}

// Resolve returns the tenant for key, or false if the key is unknown.
func (r *Registry) Resolve(key string) (*Tenant, bool) {
	t, ok := r.tenants[key]
	return t, ok
}

func compileSchema(key string, raw json.RawMessage) (*jsonschema.Schema, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing form schema")
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal form schema: %w", err)
	}

	url := "offerd://tenants/" + key + "/form-schema"

	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile form schema: %w", err)
	}
	return schema, nil
}

// LoadConfigs reads tenant configs from a JSON file (an array of Config).
func LoadConfigs(path string) ([]Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var configs []Config
	if err := json.Unmarshal(raw, &configs); err != nil {
		return nil, fmt.Errorf("parse tenants file %s: %w", path, err)
	}
	return configs, nil
}
