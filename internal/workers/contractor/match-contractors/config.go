// internal/workers/contractor/match-contractors/config.go
package matchcontractors

import "time"

type Config struct {
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{Timeout: 30 * time.Second}
}
