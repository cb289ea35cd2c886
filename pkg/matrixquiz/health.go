package matrixquiz

import "time"

// HealthStatus is the coarse state of an instance or component.
type HealthStatus string

const (
	// HealthOK means the component works normally.
	HealthOK HealthStatus = "ok"
	// HealthDegraded means the component works with recent problems.
	HealthDegraded HealthStatus = "degraded"
	// HealthUnhealthy means the component is not working.
	HealthUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck is the result of Quiz.Health.
type HealthCheck struct {
	Status     HealthStatus
	Timestamp  time.Time
	Uptime     time.Duration
	Components map[string]ComponentHealth
	Message    string
}

// ComponentHealth is the state of a single component.
type ComponentHealth struct {
	Status  HealthStatus
	Message string
}

// IsHealthy reports whether Status is HealthOK.
func (h HealthCheck) IsHealthy() bool { return h.Status == HealthOK }

// IsDegraded reports whether Status is HealthDegraded.
func (h HealthCheck) IsDegraded() bool { return h.Status == HealthDegraded }

// IsUnhealthy reports whether Status is HealthUnhealthy.
func (h HealthCheck) IsUnhealthy() bool { return h.Status == HealthUnhealthy }

// worst returns the most severe of the given statuses.
func worst(statuses ...HealthStatus) HealthStatus {
	out := HealthOK
	for _, s := range statuses {
		switch {
		case s == HealthUnhealthy:
			return HealthUnhealthy
		case s == HealthDegraded:
			out = HealthDegraded
		}
	}
	return out
}
