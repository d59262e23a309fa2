package config

import "fmt"

// TestConfig defines the parameters of a test campaign.
type TestConfig struct {
	// LegalLimit is the threshold emission level shared by all tests of a run.
	LegalLimit float64 `json:"legal_limit"`
}

// SetDefaults applies sane defaults.
func (c *TestConfig) SetDefaults() {
	if c.LegalLimit == 0 {
		c.LegalLimit = 180
	}
}

// Validate checks mandatory fields.
func (c TestConfig) Validate() error {
	if c.LegalLimit <= 0 {
		return fmt.Errorf("legal_limit must be positive")
	}
	return nil
}

// APIConfig defines the results HTTP API exposure.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
