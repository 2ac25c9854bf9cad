package ratelimit

import "time"

// Event is the logical action being throttled.
type Event string

const (
	EventLogin   Event = "login"
	EventEnquiry Event = "enquiry"
)

// Record mirrors a rate_limits row. The window is evaluated on read: a
// record whose LastRequest falls outside the window counts as zero, there is
// no background reset.
type Record struct {
	Identifier  string    `db:"identifier"`
	Event       Event     `db:"event"`
	Count       int       `db:"count"`
	LastRequest time.Time `db:"last_request"`
}

// Policy is the per-event admission limit.
type Policy struct {
	Limit  int
	Window time.Duration
}

// IdentifierUnknown is the sentinel used when neither a caller identity nor
// a client IP can be resolved.
const IdentifierUnknown = "unknown"
