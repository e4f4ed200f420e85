// internal/analysis/service/config.go
package service

import "time"

// Config carries the orchestration settings derived from the application
// configuration at startup.
type Config struct {
	CacheEnabled     bool
	CacheTTL         time.Duration
	RetryMaxAttempts int
	RetryDelay       time.Duration
}
