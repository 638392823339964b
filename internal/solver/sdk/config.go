package sdk

import (
	"encoding/json"
	"fmt"
	"time"
)

// ConfigSchema defines a solver backend's configuration structure using
// JSON Schema, so the registry can validate a requested backend config
// before dispatching a solve call. There is no UI generation here — the
// UI is outside this module's scope — this exists purely for validation.
type ConfigSchema struct {
	Schema      string                    `json:"$schema,omitempty"`
	Type        string                    `json:"type"`
	Title       string                    `json:"title"`
	Description string                    `json:"description,omitempty"`
	Properties  map[string]PropertySchema `json:"properties"`
	Required    []string                  `json:"required,omitempty"`
}

// PropertySchema defines a single configuration property using JSON Schema.
type PropertySchema struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Default     any      `json:"default,omitempty"`
	Enum        []any    `json:"enum,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
}

// BackendConfig holds validated configuration values for a solver backend
// instance: time limit, cost weights, and backend-specific tuning (e.g. the
// local-search backend's RNG seed and cooling schedule).
type BackendConfig struct {
	Raw       map[string]any `json:"raw"`
	BackendID string         `json:"backend_id"`
}

// NewBackendConfig creates a new backend configuration.
func NewBackendConfig(backendID string, raw map[string]any) BackendConfig {
	if raw == nil {
		raw = make(map[string]any)
	}
	return BackendConfig{Raw: raw, BackendID: backendID}
}

// Get retrieves a configuration value by key.
func (c BackendConfig) Get(key string) any {
	return c.Raw[key]
}

// GetString retrieves a string configuration value.
func (c BackendConfig) GetString(key string) string {
	if v, ok := c.Raw[key].(string); ok {
		return v
	}
	return ""
}

// GetFloat retrieves a float configuration value.
func (c BackendConfig) GetFloat(key string) float64 {
	switch v := c.Raw[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return 0
}

// GetDuration retrieves a duration configuration value, parsed from a
// string via time.ParseDuration.
func (c BackendConfig) GetDuration(key string) time.Duration {
	if v, ok := c.Raw[key].(string); ok {
		d, _ := time.ParseDuration(v)
		return d
	}
	return 0
}

// Has checks if a configuration key exists.
func (c BackendConfig) Has(key string) bool {
	_, ok := c.Raw[key]
	return ok
}

// NewConfigSchema creates a new configuration schema.
func NewConfigSchema(title, description string) ConfigSchema {
	return ConfigSchema{
		Schema:      "https://json-schema.org/draft/2020-12/schema",
		Type:        "object",
		Title:       title,
		Description: description,
		Properties:  make(map[string]PropertySchema),
	}
}

// AddProperty adds a property to the schema.
func (s *ConfigSchema) AddProperty(name string, prop PropertySchema) *ConfigSchema {
	if s.Properties == nil {
		s.Properties = make(map[string]PropertySchema)
	}
	s.Properties[name] = prop
	return s
}

// AddRequired marks a property as required.
func (s *ConfigSchema) AddRequired(name string) *ConfigSchema {
	s.Required = append(s.Required, name)
	return s
}

// Validate validates a raw configuration map against this schema.
func (s ConfigSchema) Validate(config map[string]any) error {
	for _, req := range s.Required {
		if _, ok := config[req]; !ok {
			return fmt.Errorf("required field %q is missing", req)
		}
	}
	for name, value := range config {
		prop, ok := s.Properties[name]
		if !ok {
			continue
		}
		if err := prop.Validate(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates a value against this property schema.
func (p PropertySchema) Validate(name string, value any) error {
	if value == nil {
		return nil
	}
	switch p.Type {
	case "number", "integer":
		var f float64
		switch v := value.(type) {
		case float64:
			f = v
		case float32:
			f = float64(v)
		case int:
			f = float64(v)
		case int64:
			f = float64(v)
		default:
			return fmt.Errorf("property %q must be a number", name)
		}
		if p.Minimum != nil && f < *p.Minimum {
			return fmt.Errorf("property %q must be >= %v", name, *p.Minimum)
		}
		if p.Maximum != nil && f > *p.Maximum {
			return fmt.Errorf("property %q must be <= %v", name, *p.Maximum)
		}
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("property %q must be a string", name)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("property %q must be a boolean", name)
		}
	}
	if len(p.Enum) > 0 {
		found := false
		for _, e := range p.Enum {
			if e == value {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("property %q must be one of %v", name, p.Enum)
		}
	}
	return nil
}

// FloatPtr returns a pointer to a float64 value, for Minimum/Maximum.
func FloatPtr(f float64) *float64 {
	return &f
}
