package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/fansubkit/metaparse/internal/health"
	"github.com/fansubkit/metaparse/internal/models"
)

// MockHealthChecker for testing
type MockHealthChecker struct{}

func (m *MockHealthChecker) CheckDatabase(ctx context.Context) error         { return nil }
func (m *MockHealthChecker) CheckReleaseGroupFeed(ctx context.Context) error { return nil }

func TestNewDegradationService(t *testing.T) {
	checker := &MockHealthChecker{}
	monitor := health.NewHealthMonitor(checker)
	service := NewDegradationService(monitor)

	require.NotNil(t, service)
	assert.NotNil(t, service.monitor)
}

func TestDegradationService_GetCurrentLevel(t *testing.T) {
	checker := &MockHealthChecker{}
	monitor := health.NewHealthMonitor(checker)
	service := NewDegradationService(monitor)

	level := service.GetCurrentLevel()
	assert.Equal(t, models.DegradationNormal, level)
}

func TestDegradationService_GetServiceHealth(t *testing.T) {
	checker := &MockHealthChecker{}
	monitor := health.NewHealthMonitor(checker)
	service := NewDegradationService(monitor)

	svcHealth := service.GetServiceHealth(models.ServiceNameDatabase)
	require.NotNil(t, svcHealth)
	assert.Equal(t, "database", svcHealth.Name)
	assert.Equal(t, models.ServiceStatusHealthy, svcHealth.Status)
}

func TestDegradationService_GetServiceHealth_Unknown(t *testing.T) {
	checker := &MockHealthChecker{}
	monitor := health.NewHealthMonitor(checker)
	service := NewDegradationService(monitor)

	svcHealth := service.GetServiceHealth(models.ServiceName("unknown"))
	assert.Nil(t, svcHealth)
}

func TestDegradationService_GetHealthStatus(t *testing.T) {
	checker := &MockHealthChecker{}
	monitor := health.NewHealthMonitor(checker)
	service := NewDegradationService(monitor)

	status := service.GetHealthStatus()

	require.NotNil(t, status)
	assert.Equal(t, models.DegradationNormal, status.DegradationLevel)
	assert.NotNil(t, status.Services)
}

func TestDegradationService_UpdateServiceHealth(t *testing.T) {
	checker := &MockHealthChecker{}
	monitor := health.NewHealthMonitor(checker)
	service := NewDegradationService(monitor)

	service.UpdateServiceHealth(models.ServiceNameDatabase, nil)
	svcHealth := service.GetServiceHealth(models.ServiceNameDatabase)
	assert.Equal(t, models.ServiceStatusHealthy, svcHealth.Status)
}

func TestDegradationServiceInterface(t *testing.T) {
	checker := &MockHealthChecker{}
	monitor := health.NewHealthMonitor(checker)

	var _ DegradationServiceInterface = NewDegradationService(monitor)
}
