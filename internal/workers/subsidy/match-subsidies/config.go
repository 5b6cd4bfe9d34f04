// internal/workers/subsidy/match-subsidies/config.go
package matchsubsidies

import "time"

type Config struct {
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{Timeout: 15 * time.Second}
}
