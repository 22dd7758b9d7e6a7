package config

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
)

// ConfigFieldInfo contains metadata about a configuration field
type ConfigFieldInfo struct {
	Type        reflect.Type
	Description string
	Default     interface{}
	Validation  func(interface{}) error
	Sensitive   bool
}

// ConfigSchema holds the registry of valid configuration paths and aliases
type ConfigSchema struct {
	ValidPaths map[string]ConfigFieldInfo
	Aliases    map[string]string
}

// validateIntRange returns a validation function for int values within a range
func validateIntRange(min, max int) func(interface{}) error {
	return func(value interface{}) error {
		if v, ok := value.(int); ok {
			if v < min || v > max {
				return fmt.Errorf("value must be between %d and %d", min, max)
			}
			return nil
		}
		return fmt.Errorf("expected int, got %T", value)
	}
}

// validateNonNegativeInt64 accepts zero (unset) or a positive id
func validateNonNegativeInt64() func(interface{}) error {
	return func(value interface{}) error {
		if v, ok := value.(int64); ok {
			if v < 0 {
				return fmt.Errorf("value must not be negative")
			}
			return nil
		}
		return fmt.Errorf("expected int64, got %T", value)
	}
}

// validateHTTPURL requires an absolute http or https URL
func validateHTTPURL() func(interface{}) error {
	return func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		u, err := url.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid URL: %w", err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("URL must be absolute http(s), got %q", s)
		}
		return nil
	}
}

// DefaultConfigSchema returns the default configuration schema
func DefaultConfigSchema() *ConfigSchema {
	return &ConfigSchema{
		ValidPaths: map[string]ConfigFieldInfo{
			// Platform
			"platform.base_url": {
				Type:        reflect.TypeOf(""),
				Description: "Campaign platform REST API base URL",
				Default:     "https://server.smartlead.ai/api/v1",
				Validation:  validateHTTPURL(),
			},
			"platform.graphql_url": {
				Type:        reflect.TypeOf(""),
				Description: "Campaign platform GraphQL endpoint",
				Default:     "https://fe-gql.smartlead.ai/v1/graphql",
				Validation:  validateHTTPURL(),
			},
			"platform.api_token": {
				Type:        reflect.TypeOf(""),
				Description: "Internal API token (env SMARTLEAD_INTERNAL_API_TOKEN)",
				Default:     "",
				Sensitive:   true,
			},
			"platform.timeout": {
				Type:        reflect.TypeOf(int(0)),
				Description: "Timeout in seconds for platform requests",
				Default:     30,
				Validation:  validateIntRange(1, 600),
			},
			"platform.max_retries": {
				Type:        reflect.TypeOf(int(0)),
				Description: "Maximum number of retry attempts for failed requests (max: 5)",
				Default:     2,
				Validation:  validateIntRange(0, 5),
			},

			// Snapshots
			"snapshots.dir": {
				Type:        reflect.TypeOf(""),
				Description: "Directory for campaign version history",
				Default:     "",
			},

			// Template defaults
			"template.campaign_id": {
				Type:        reflect.TypeOf(int64(0)),
				Description: "Default template campaign for apply (0 = none)",
				Default:     int64(0),
				Validation:  validateNonNegativeInt64(),
			},
			"template.include_subjects": {
				Type:        reflect.TypeOf(bool(false)),
				Description: "Rewrite subject lines when applying a template",
				Default:     false,
			},

			// Output
			"output.color": {
				Type:        reflect.TypeOf(bool(false)),
				Description: "Colorize diagnostics",
				Default:     true,
			},
			"output.context_window": {
				Type:        reflect.TypeOf(int(0)),
				Description: "Characters shown either side of a template error",
				Default:     40,
				Validation:  validateIntRange(1, 500),
			},
		},

		Aliases: map[string]string{
			// platform aliases
			"token":       "platform.api_token",
			"api-token":   "platform.api_token",
			"base-url":    "platform.base_url",
			"graphql-url": "platform.graphql_url",
			"timeout":     "platform.timeout",
			"max-retries": "platform.max_retries",

			// history
			"snapshot-dir": "snapshots.dir",

			// template defaults
			"template":         "template.campaign_id",
			"include-subjects": "template.include_subjects",

			// output
			"color":          "output.color",
			"context-window": "output.context_window",
		},
	}
}

// ResolveKey resolves an alias to its canonical path or returns the path if already canonical
func (s *ConfigSchema) ResolveKey(key string) (string, error) {
	if canonicalPath, exists := s.Aliases[key]; exists {
		return canonicalPath, nil
	}

	if _, exists := s.ValidPaths[key]; exists {
		return key, nil
	}

	suggestions := s.FindSimilarKeys(key)
	if len(suggestions) > 0 {
		return "", fmt.Errorf("invalid config key %q. Did you mean one of: %s", key, strings.Join(suggestions, ", "))
	}

	return "", fmt.Errorf("invalid config key %q. Use 'campctl config list' to see valid keys", key)
}

// ValidateValue validates a value against the field's type and validation rules
func (s *ConfigSchema) ValidateValue(path string, value interface{}) error {
	fieldInfo, exists := s.ValidPaths[path]
	if !exists {
		return fmt.Errorf("unknown config path: %s", path)
	}

	valueType := reflect.TypeOf(value)
	if valueType != fieldInfo.Type {
		return fmt.Errorf("expected %s, got %v", fieldInfo.Type.String(), valueType)
	}

	if fieldInfo.Validation != nil {
		return fieldInfo.Validation(value)
	}

	return nil
}

// GetFieldInfo returns information about a configuration field
func (s *ConfigSchema) GetFieldInfo(path string) (ConfigFieldInfo, error) {
	fieldInfo, exists := s.ValidPaths[path]
	if !exists {
		return ConfigFieldInfo{}, fmt.Errorf("unknown config path: %s", path)
	}
	return fieldInfo, nil
}

// IsSensitive reports whether a key (canonical or alias) holds a secret
func (s *ConfigSchema) IsSensitive(key string) bool {
	canonical, err := s.ResolveKey(key)
	if err != nil {
		return false
	}
	return s.ValidPaths[canonical].Sensitive
}

// ListAllKeys returns all valid configuration keys (canonical paths and aliases)
func (s *ConfigSchema) ListAllKeys() []string {
	keys := append(s.ListCanonicalKeys(), s.ListAliases()...)
	sort.Strings(keys)
	return keys
}

// ListCanonicalKeys returns only the canonical configuration paths
func (s *ConfigSchema) ListCanonicalKeys() []string {
	var keys []string
	for path := range s.ValidPaths {
		keys = append(keys, path)
	}
	sort.Strings(keys)
	return keys
}

// ListAliases returns only the alias keys
func (s *ConfigSchema) ListAliases() []string {
	var aliases []string
	for alias := range s.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// FindSimilarKeys finds keys similar to the input using simple string matching
func (s *ConfigSchema) FindSimilarKeys(key string) []string {
	var suggestions []string
	lowerKey := strings.ToLower(key)

	for _, path := range s.ListCanonicalKeys() {
		parts := strings.Split(path, ".")
		leaf := strings.ToLower(parts[len(parts)-1])
		if strings.Contains(strings.ToLower(path), lowerKey) || strings.Contains(lowerKey, leaf) {
			suggestions = append(suggestions, path)
		}
	}

	for _, alias := range s.ListAliases() {
		if strings.Contains(strings.ToLower(alias), lowerKey) ||
			strings.Contains(lowerKey, strings.ToLower(alias)) {
			suggestions = append(suggestions, alias)
		}
	}

	// limit suggestions to avoid overwhelming output
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}

	return suggestions
}
