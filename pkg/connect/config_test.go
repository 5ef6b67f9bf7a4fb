package connect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "minimal",
			config: Config{URL: "http://localhost:8083"},
		},
		{
			name: "full",
			config: Config{
				URL:                "https://connect.example.com:8083",
				Username:           "admin",
				Password:           "secret",
				RequestTimeout:     30 * time.Second,
				InsecureSkipVerify: true,
				ProxyURL:           "http://proxy.example.com:3128",
			},
		},
		{name: "missing url", config: Config{}, wantErr: true},
		{name: "malformed url", config: Config{URL: "not a url"}, wantErr: true},
		{
			name:    "malformed proxy",
			config:  Config{URL: "http://localhost:8083", ProxyURL: "not a url"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigGetters(t *testing.T) {
	config := &Config{
		URL:      "http://localhost:8083",
		Username: "ops",
		Password: "hunter2",
		ProxyURL: "http://proxy:3128",
	}

	assert.Equal(t, "http://localhost:8083", config.GetServerURL())
	assert.Equal(t, "ops", config.GetBasicAuthUsername())
	assert.Equal(t, "hunter2", config.GetBasicAuthPassword())
	assert.Equal(t, "http://proxy:3128", config.GetProxyURL())
	assert.False(t, config.GetInsecureSkipVerify())

	require.Equal(t, DefaultRequestTimeout, config.GetRequestTimeout())
	config.RequestTimeout = 5 * time.Second
	assert.Equal(t, 5*time.Second, config.GetRequestTimeout())
	config.RequestTimeout = -1
	assert.Equal(t, DefaultRequestTimeout, config.GetRequestTimeout())
}
