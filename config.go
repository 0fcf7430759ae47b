package foodsense

import "time"

const (
	defaultLoginPath      = "/login"
	defaultHomePath       = "/"
	defaultRequestTimeout = 15 * time.Second
)

// SimpleConfig is a value implementation of Config with sensible defaults
// for the zero fields.
type SimpleConfig struct {
	BaseURL        string
	LoginPath      string
	HomePath       string
	RequestTimeout time.Duration
}

func (c SimpleConfig) GetBaseURL() string {
	return c.BaseURL
}

func (c SimpleConfig) GetLoginPath() string {
	if c.LoginPath == "" {
		return defaultLoginPath
	}
	return c.LoginPath
}

func (c SimpleConfig) GetHomePath() string {
	if c.HomePath == "" {
		return defaultHomePath
	}
	return c.HomePath
}

func (c SimpleConfig) GetRequestTimeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return defaultRequestTimeout
	}
	return c.RequestTimeout
}
