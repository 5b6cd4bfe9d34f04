// internal/common/database/health.go
package database

import (
	"context"
	"time"
)

// Dependency is anything the readiness probe can ping.
type Dependency interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings every dependency with a shared deadline and returns
// "ok" or the error text per dependency name.
func CheckAll(ctx context.Context, timeout time.Duration, deps ...Dependency) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status := make(map[string]string, len(deps))
	healthy := true
	for _, d := range deps {
		if err := d.Ping(ctx); err != nil {
			status[d.Name()] = err.Error()
			healthy = false
			continue
		}
		status[d.Name()] = "ok"
	}
	return status, healthy
}
