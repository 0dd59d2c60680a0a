package services

import (
	"log/slog"

	"github.com/fansubkit/metaparse/internal/health"
	"github.com/fansubkit/metaparse/internal/models"
)

// DegradationServiceInterface defines the contract for degradation handling.
type DegradationServiceInterface interface {
	// GetCurrentLevel returns the current system degradation level.
	GetCurrentLevel() models.DegradationLevel

	// GetServiceHealth returns the health status of a specific dependency.
	GetServiceHealth(name models.ServiceName) *models.ServiceHealth

	// GetHealthStatus returns the complete health status response.
	GetHealthStatus() *models.HealthStatusResponse
}

// DegradationService reports the health of the database and the
// release-group feed source.
type DegradationService struct {
	monitor *health.HealthMonitor
	logger  *slog.Logger
}

// Compile-time interface verification.
var _ DegradationServiceInterface = (*DegradationService)(nil)

// NewDegradationService creates a new DegradationService.
func NewDegradationService(monitor *health.HealthMonitor) *DegradationService {
	return &DegradationService{
		monitor: monitor,
		logger:  slog.Default(),
	}
}

// GetCurrentLevel returns the current system degradation level.
func (s *DegradationService) GetCurrentLevel() models.DegradationLevel {
	return s.monitor.GetDegradationLevel()
}

// GetServiceHealth returns the health status of a specific dependency.
func (s *DegradationService) GetServiceHealth(name models.ServiceName) *models.ServiceHealth {
	return s.monitor.GetServiceHealth(name)
}

// GetHealthStatus returns the complete health status response.
func (s *DegradationService) GetHealthStatus() *models.HealthStatusResponse {
	return s.monitor.GetHealthStatus()
}

// UpdateServiceHealth updates the health of a specific dependency based on an error.
func (s *DegradationService) UpdateServiceHealth(name models.ServiceName, err error) {
	s.monitor.UpdateServiceHealth(name, err)
}
