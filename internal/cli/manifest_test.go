package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessManifest(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		envVars  map[string]string
		expected string
		wantErr  string
	}{
		{
			name:     "simple environment variable substitution",
			input:    "password: {{ .ENV.DB_PASSWORD }}",
			envVars:  map[string]string{"DB_PASSWORD": "secret123"},
			expected: "password: secret123",
		},
		{
			name:     "multiple environment variables",
			input:    "host: {{ .ENV.DB_HOST }}\nport: {{ .ENV.DB_PORT }}",
			envVars:  map[string]string{"DB_HOST": "localhost", "DB_PORT": "5432"},
			expected: "host: localhost\nport: 5432",
		},
		{
			name:     "environment variable with special characters",
			input:    "password: {{ .ENV.DB_PASSWORD }}",
			envVars:  map[string]string{"DB_PASSWORD": "p@ssw0rd!@#"},
			expected: "password: p@ssw0rd!@#",
		},
		{
			name:     "empty environment variable",
			input:    "empty: {{ .ENV.EMPTY_VAR }}",
			envVars:  map[string]string{"EMPTY_VAR": ""},
			expected: "empty: ",
		},
		{
			name:     "no template variables",
			input:    "simple: yaml\ncontent: here",
			expected: "simple: yaml\ncontent: here",
		},
		{
			name:    "missing environment variable should error",
			input:   "missing: {{ .ENV.KCONNECT_TEST_MISSING_VAR }}",
			wantErr: "missing environment variable: KCONNECT_TEST_MISSING_VAR",
		},
		{
			name:    "invalid template syntax",
			input:   "invalid: {{ .ENV.VAR }",
			envVars: map[string]string{"VAR": "value"},
			wantErr: "template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			result, err := PreprocessManifest([]byte(tt.input))

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestParseManifests(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []ConnectorManifest
		wantErr  string
	}{
		{
			name: "valid multi-document manifest",
			content: `---
name: source-a
config:
  connector.class: FileStreamSource
---
name: sink-b
config:
  connector.class: FileStreamSink
  topics: logs`,
			expected: []ConnectorManifest{
				{Name: "source-a", Config: map[string]string{"connector.class": "FileStreamSource"}},
				{Name: "sink-b", Config: map[string]string{"connector.class": "FileStreamSink", "topics": "logs"}},
			},
		},
		{
			name: "document without leading separator",
			content: `name: solo
config:
  connector.class: FileStreamSource`,
			expected: []ConnectorManifest{
				{Name: "solo", Config: map[string]string{"connector.class": "FileStreamSource"}},
			},
		},
		{
			name: "numbers and booleans become config strings",
			content: `name: typed
config:
  connector.class: FileStreamSource
  tasks.max: 3
  batch.size: 2.5
  errors.log.enable: true
  errors.log.include.messages: false`,
			expected: []ConnectorManifest{
				{Name: "typed", Config: map[string]string{
					"connector.class":             "FileStreamSource",
					"tasks.max":                   "3",
					"batch.size":                  "2.5",
					"errors.log.enable":           "true",
					"errors.log.include.messages": "false",
				}},
			},
		},
		{
			name: "empty documents are skipped",
			content: `---
name: doc1
config:
  connector.class: FileStreamSource
---
---
name: doc2
config:
  connector.class: FileStreamSink`,
			expected: []ConnectorManifest{
				{Name: "doc1", Config: map[string]string{"connector.class": "FileStreamSource"}},
				{Name: "doc2", Config: map[string]string{"connector.class": "FileStreamSink"}},
			},
		},
		{
			name:     "completely empty file",
			content:  ``,
			expected: []ConnectorManifest{},
		},
		{
			name:     "file with only whitespace",
			content:  "   \n\t  \n",
			expected: []ConnectorManifest{},
		},
		{
			name:     "file with only document separators",
			content:  "---\n---\n---",
			expected: []ConnectorManifest{},
		},
		{
			name:    "invalid YAML",
			content: `invalid: yaml: content:`,
			wantErr: "failed to decode YAML",
		},
		{
			name: "missing name",
			content: `config:
  connector.class: FileStreamSource`,
			wantErr: "manifest document 1",
		},
		{
			name:    "missing config",
			content: `name: no-config`,
			wantErr: "missing properties",
		},
		{
			name: "empty config",
			content: `name: empty-config
config: {}`,
			wantErr: "minimum 1 properties",
		},
		{
			name: "unknown top-level key",
			content: `name: extra
config:
  connector.class: FileStreamSource
paused: true`,
			wantErr: "additionalProperties 'paused' not allowed",
		},
		{
			name: "non-scalar config value",
			content: `name: nested
config:
  connector.class: FileStreamSource
  transforms:
    - route`,
			wantErr: "config.transforms",
		},
		{
			name: "second document reports its index",
			content: `---
name: ok
config:
  connector.class: FileStreamSource
---
name: broken
config: {}`,
			wantErr: "manifest document 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseManifests([]byte(tt.content))

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, result)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestLoadManifests(t *testing.T) {
	t.Setenv("KCONNECT_TEST_TOPIC", "orders")

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "connector.yaml")
	content := "name: tabbed\nconfig:\n\tconnector.class: FileStreamSink\n\ttopics: {{ .ENV.KCONNECT_TEST_TOPIC }}\n"
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	assert.NoError(t, err)

	manifests, err := LoadManifests(tmpFile)
	assert.NoError(t, err)
	assert.Len(t, manifests, 1)
	assert.Equal(t, "tabbed", manifests[0].Name)
	assert.Equal(t, "FileStreamSink", manifests[0].Config["connector.class"])
	assert.Equal(t, "orders", manifests[0].Config["topics"])

	t.Run("file not found", func(t *testing.T) {
		manifests, err := LoadManifests(filepath.Join(tmpDir, "nonexistent.yaml"))
		assert.Error(t, err)
		assert.Nil(t, manifests)
	})
}

func TestReplaceTabsWithSpaces(t *testing.T) {
	input := []byte("a:\n\tb: 1\n\t\tc: 2\n")
	expected := []byte("a:\n    b: 1\n        c: 2\n")
	assert.Equal(t, expected, replaceTabsWithSpaces(input))
}
