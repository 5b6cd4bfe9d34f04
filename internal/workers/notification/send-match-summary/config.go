// internal/workers/notification/send-match-summary/config.go
package sendmatchsummary

import "time"

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	// SMSUrgencyThreshold is the minimum scheme urgency score that triggers an SMS.
	SMSUrgencyThreshold int
	Timeout             time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		SMSUrgencyThreshold: 70,
		Timeout:             30 * time.Second,
	}
}
