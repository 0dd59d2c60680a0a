package health

import (
	"context"
	"errors"
)

// Pingable defines the interface for dependencies that can be health checked
type Pingable interface {
	Ping(ctx context.Context) error
}

// ServiceHealthChecker implements HealthChecker for the actual database
// handle and release-group feed client.
type ServiceHealthChecker struct {
	database         Pingable
	releaseGroupFeed Pingable
}

// NewServiceHealthChecker creates a new ServiceHealthChecker
func NewServiceHealthChecker(database, releaseGroupFeed Pingable) *ServiceHealthChecker {
	return &ServiceHealthChecker{
		database:         database,
		releaseGroupFeed: releaseGroupFeed,
	}
}

// CheckDatabase checks the health of the SQLite database
func (c *ServiceHealthChecker) CheckDatabase(ctx context.Context) error {
	if c.database == nil {
		return errors.New("database not configured")
	}
	return c.database.Ping(ctx)
}

// CheckReleaseGroupFeed checks the health of the release-group feed source
func (c *ServiceHealthChecker) CheckReleaseGroupFeed(ctx context.Context) error {
	if c.releaseGroupFeed == nil {
		return errors.New("release group feed not configured")
	}
	return c.releaseGroupFeed.Ping(ctx)
}
