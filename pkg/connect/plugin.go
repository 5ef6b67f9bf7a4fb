package connect

// ConnectorPlugin describes a connector plugin installed on the worker.
type ConnectorPlugin struct {
	Class   string `json:"class"`
	Type    string `json:"type,omitempty"`
	Version string `json:"version,omitempty"`
}

// PluginConfigDefinition is the input to plugin configuration validation:
// the plugin class name and the candidate configuration to check. The
// worker requires connector.class in the config to match Name.
type PluginConfigDefinition struct {
	Name   string            `validate:"required"`
	Config map[string]string `validate:"required"`
}

// ConfigKeyDefinition describes one configuration key a plugin accepts.
type ConfigKeyDefinition struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Required      bool     `json:"required"`
	DefaultValue  string   `json:"default_value,omitempty"`
	Importance    string   `json:"importance,omitempty"`
	Documentation string   `json:"documentation,omitempty"`
	Group         string   `json:"group,omitempty"`
	Width         string   `json:"width,omitempty"`
	DisplayName   string   `json:"display_name,omitempty"`
	Dependents    []string `json:"dependents,omitempty"`
	Order         int      `json:"order,omitempty"`
}

// ConfigValue carries the submitted value for one configuration key along
// with any validation errors the worker reported for it.
type ConfigValue struct {
	Name              string   `json:"name"`
	Value             string   `json:"value,omitempty"`
	RecommendedValues []string `json:"recommended_values,omitempty"`
	Errors            []string `json:"errors,omitempty"`
	Visible           bool     `json:"visible,omitempty"`
}

// ConfigValidationEntry pairs a key's definition with the validation
// outcome for the submitted value.
type ConfigValidationEntry struct {
	Definition ConfigKeyDefinition `json:"definition"`
	Value      ConfigValue         `json:"value"`
}

// ConfigValidationResults is the worker's verdict on a candidate plugin
// configuration. ErrorCount aggregates the per-key validation errors.
type ConfigValidationResults struct {
	Name       string                  `json:"name"`
	ErrorCount int                     `json:"error_count"`
	Groups     []string                `json:"groups,omitempty"`
	Configs    []ConfigValidationEntry `json:"configs"`
}

// KeyErrors returns the validation messages keyed by configuration key
// name, covering only keys that failed validation.
func (r ConfigValidationResults) KeyErrors() map[string][]string {
	out := make(map[string][]string)
	for _, entry := range r.Configs {
		if len(entry.Value.Errors) > 0 {
			out[entry.Value.Name] = entry.Value.Errors
		}
	}
	return out
}
