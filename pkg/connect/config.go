package connect

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultRequestTimeout bounds a single request/response cycle when the
// configuration does not set one.
const DefaultRequestTimeout = 300 * time.Second

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Config carries everything the client needs to reach a Connect worker.
// URL is required; everything else is optional. Config implements
// rest.Configurator and may be handed directly to a transport.
type Config struct {
	// URL is the base URL of the Connect worker, e.g. "http://localhost:8083".
	URL string `validate:"required,url"`

	// Username and Password form the basic-auth credential pair. Leaving
	// Username empty disables authentication.
	Username string
	Password string

	// RequestTimeout bounds one request/response cycle. Zero selects
	// DefaultRequestTimeout.
	RequestTimeout time.Duration

	// InsecureSkipVerify accepts any TLS certificate the worker presents.
	InsecureSkipVerify bool

	// ProxyURL routes requests through the given proxy when set.
	ProxyURL string `validate:"omitempty,url"`
}

// Validate checks that the configuration is usable. The client runs it
// during lazy initialization; callers constructing configurations from user
// input may run it earlier for better error locality.
func (c *Config) Validate() error {
	return configValidator.Struct(c)
}

// GetServerURL returns the worker base URL.
func (c *Config) GetServerURL() string {
	return c.URL
}

// GetBasicAuthUsername returns the configured username, or empty when
// authentication is disabled.
func (c *Config) GetBasicAuthUsername() string {
	return c.Username
}

// GetBasicAuthPassword returns the configured password.
func (c *Config) GetBasicAuthPassword() string {
	return c.Password
}

// GetRequestTimeout returns the configured timeout, defaulted when unset.
func (c *Config) GetRequestTimeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return c.RequestTimeout
}

// GetInsecureSkipVerify reports whether certificate validation is disabled.
func (c *Config) GetInsecureSkipVerify() bool {
	return c.InsecureSkipVerify
}

// GetProxyURL returns the proxy URL, or empty when requests go direct.
func (c *Config) GetProxyURL() string {
	return c.ProxyURL
}
