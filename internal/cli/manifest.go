package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ConnectorManifest is one declarative connector document: the connector
// name and its full configuration. Manifest files may hold several
// documents separated by ---.
type ConnectorManifest struct {
	Name   string            `mapstructure:"name" json:"name"`
	Config map[string]string `mapstructure:"config" json:"config"`
}

// manifestSchema gates manifest documents before anything touches the
// cluster. Config values may be written as YAML numbers or booleans; the
// decoder renders them as the strings the worker expects.
var manifestSchema = jsonschema.MustCompileString("connector-manifest.json", `{
	"type": "object",
	"required": ["name", "config"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"config": {
			"type": "object",
			"minProperties": 1,
			"additionalProperties": {"type": ["string", "number", "boolean"]}
		}
	},
	"additionalProperties": false
}`)

type templateContext struct {
	ENV map[string]string
}

// PreprocessManifest replaces {{ .ENV.VAR }} placeholders with values from
// the environment or a .env file in the working directory.
func PreprocessManifest(inputRaw []byte) ([]byte, error) {
	input := string(inputRaw)
	// Load .env file from the current working directory if it exists
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	envPath := filepath.Join(cwd, ".env")
	_ = godotenv.Load(envPath) // no error if .env doesn't exist

	envMap := map[string]string{}
	for _, e := range os.Environ() {
		parts := strings.SplitN(e, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}

	ctx := templateContext{ENV: envMap}

	// Parse and execute the template
	tmpl, err := template.New("manifest").Option("missingkey=error").Parse(input)
	if err != nil {
		return nil, err
	}

	var output bytes.Buffer

	missingKeyRegex := regexp.MustCompile(`map has no entry for key "(.*?)"`)

	if err := tmpl.Execute(&output, ctx); err != nil {
		matches := missingKeyRegex.FindStringSubmatch(err.Error())
		if len(matches) == 2 {
			missingKey := matches[1]
			return nil, fmt.Errorf("missing environment variable: %s (set it in your shell or .env file)", missingKey)
		}
		return nil, fmt.Errorf("template error: %w", err)
	}

	return output.Bytes(), nil
}

// LoadManifests reads, preprocesses, validates, and decodes every document
// in a manifest file.
func LoadManifests(filename string) ([]ConnectorManifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	data = replaceTabsWithSpaces(data)

	data, err = PreprocessManifest(data)
	if err != nil {
		return nil, err
	}

	return ParseManifests(data)
}

// ParseManifests parses byte data containing multiple YAML documents into
// validated connector manifests.
func ParseManifests(data []byte) ([]ConnectorManifest, error) {
	// If data is empty or contains only whitespace or only --- separators, return empty slice
	content := strings.TrimSpace(string(data))
	if len(content) == 0 || strings.Trim(content, "- \n\t") == "" {
		return []ConnectorManifest{}, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	var result []ConnectorManifest

	for i := 0; ; i++ {
		var doc map[string]any
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
		// Skip empty documents (common with trailing ---)
		if len(doc) == 0 {
			continue
		}

		manifest, err := decodeManifest(doc)
		if err != nil {
			return nil, fmt.Errorf("manifest document %d: %w", i+1, err)
		}
		result = append(result, manifest)
	}

	return result, nil
}

// decodeManifest validates one document against the manifest schema and
// decodes it into a ConnectorManifest.
func decodeManifest(doc map[string]any) (ConnectorManifest, error) {
	normalized, err := normalizeJSONTypes(doc)
	if err != nil {
		return ConnectorManifest{}, err
	}
	if err := manifestSchema.Validate(normalized); err != nil {
		return ConnectorManifest{}, manifestValidationError(err)
	}

	if config, ok := doc["config"].(map[string]any); ok {
		for key, value := range config {
			config[key] = configValueString(value)
		}
	}

	var manifest ConnectorManifest
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &manifest,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return ConnectorManifest{}, err
	}
	if err := decoder.Decode(doc); err != nil {
		return ConnectorManifest{}, fmt.Errorf("invalid manifest: %w", err)
	}
	return manifest, nil
}

// configValueString renders a scalar manifest value the way the worker
// expects it: booleans as true/false, numbers in base 10.
func configValueString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// normalizeJSONTypes round-trips a decoded YAML document through JSON so
// the schema validator sees canonical JSON types.
func normalizeJSONTypes(doc map[string]any) (any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return normalized, nil
}

// manifestValidationError flattens the schema validator's output to the
// leaf causes operators act on.
func manifestValidationError(err error) error {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return err
	}

	leaves := leafCauses(validationErr)
	messages := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		loc := strings.TrimPrefix(leaf.InstanceLocation, "/")
		if loc == "" {
			messages = append(messages, leaf.Message)
			continue
		}
		messages = append(messages, fmt.Sprintf("%s: %s", strings.ReplaceAll(loc, "/", "."), leaf.Message))
	}
	return fmt.Errorf("invalid manifest: %s", strings.Join(messages, "; "))
}

func leafCauses(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		leaves = append(leaves, leafCauses(cause)...)
	}
	return leaves
}

// replaceTabsWithSpaces makes tab-indented files parse; YAML forbids tabs
// in indentation and operators hit this constantly.
func replaceTabsWithSpaces(b []byte) []byte {
	space := []byte("    ")
	var result []byte
	for _, c := range b {
		if c == '\t' {
			result = append(result, space...)
		} else {
			result = append(result, c)
		}
	}
	return result
}
