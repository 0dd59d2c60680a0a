package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// MockDatabase is a mock database handle for testing
type MockDatabase struct {
	shouldFail bool
}

func (m *MockDatabase) Ping(ctx context.Context) error {
	if m.shouldFail {
		return errors.New("database connection failed")
	}
	return nil
}

// MockReleaseGroupFeed is a mock feed client for testing
type MockReleaseGroupFeed struct {
	shouldFail bool
}

func (m *MockReleaseGroupFeed) Ping(ctx context.Context) error {
	if m.shouldFail {
		return errors.New("release group feed connection failed")
	}
	return nil
}

func TestServiceHealthChecker_CheckDatabase_Success(t *testing.T) {
	checker := NewServiceHealthChecker(
		&MockDatabase{shouldFail: false},
		&MockReleaseGroupFeed{},
	)

	err := checker.CheckDatabase(context.Background())
	assert.NoError(t, err)
}

func TestServiceHealthChecker_CheckDatabase_Failure(t *testing.T) {
	checker := NewServiceHealthChecker(
		&MockDatabase{shouldFail: true},
		&MockReleaseGroupFeed{},
	)

	err := checker.CheckDatabase(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestServiceHealthChecker_CheckReleaseGroupFeed_Success(t *testing.T) {
	checker := NewServiceHealthChecker(
		&MockDatabase{},
		&MockReleaseGroupFeed{shouldFail: false},
	)

	err := checker.CheckReleaseGroupFeed(context.Background())
	assert.NoError(t, err)
}

func TestServiceHealthChecker_CheckReleaseGroupFeed_Failure(t *testing.T) {
	checker := NewServiceHealthChecker(
		&MockDatabase{},
		&MockReleaseGroupFeed{shouldFail: true},
	)

	err := checker.CheckReleaseGroupFeed(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "release group feed")
}

func TestServiceHealthChecker_CheckDatabase_NilClient(t *testing.T) {
	checker := NewServiceHealthChecker(nil, nil)

	err := checker.CheckDatabase(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestServiceHealthChecker_CheckReleaseGroupFeed_NilClient(t *testing.T) {
	checker := NewServiceHealthChecker(nil, nil)

	err := checker.CheckReleaseGroupFeed(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
