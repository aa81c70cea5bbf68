// Package common provides shared utilities for Fundwatch
package common

import "time"

// Freshness TTLs for data components
const (
	FreshnessValuation  = 30 * time.Second     // real-time estimate snapshot
	FreshnessStaticInfo = 24 * time.Hour       // manager/scale/establish date
	FreshnessHistory    = 1 * time.Hour        // historical NAV table
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
