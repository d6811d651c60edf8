package model

import "time"

// DiscoveryStatus represents the lifecycle of a single discovery run.
type DiscoveryStatus string

const (
	DiscoveryIdle      DiscoveryStatus = "idle"
	DiscoveryLoading   DiscoveryStatus = "loading"
	DiscoverySucceeded DiscoveryStatus = "succeeded"
	DiscoveryFailed    DiscoveryStatus = "failed"
)

// DiscoveryState is the current display state. Result is non-nil only when
// Status is DiscoverySucceeded.
type DiscoveryState struct {
	Status    DiscoveryStatus
	Result    *DogResult
	Attempts  int
	UpdatedAt time.Time
}

// Loading reports whether a discovery is in flight.
func (s DiscoveryState) Loading() bool {
	return s.Status == DiscoveryLoading
}

// AttemptOutcome classifies how a single fetch attempt ended.
type AttemptOutcome string

const (
	AttemptAccepted       AttemptOutcome = "accepted"
	AttemptBanned         AttemptOutcome = "banned"
	AttemptBadStatus      AttemptOutcome = "bad_status"
	AttemptTransportError AttemptOutcome = "transport_error"
)
