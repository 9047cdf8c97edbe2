package entities

// VerificationOutcome classifies how a verification attempt ended.
type VerificationOutcome string

const (
	// OutcomeVerified means the vendor confirmed hours and both records
	// were committed.
	OutcomeVerified VerificationOutcome = "verified"

	// OutcomeDeclined means the call completed but did not yield usable
	// hours (vendor judged the goal unmet, or required keys were missing).
	OutcomeDeclined VerificationOutcome = "declined"

	// OutcomeUnreachable means the call never completed (dispatch failure,
	// vendor-terminal failure, or polling timeout).
	OutcomeUnreachable VerificationOutcome = "unreachable"

	// OutcomeSkipped means calling is administratively disabled and a
	// negative result was synthesized without vendor I/O.
	OutcomeSkipped VerificationOutcome = "skipped"
)

// VerificationResult is the orchestrator's answer for one restaurant.
// Success is the vendor's success evaluation (false for every non-verified
// outcome); Hours is set only when Outcome is OutcomeVerified.
type VerificationResult struct {
	RestaurantID string              `json:"restaurant_id"`
	Outcome      VerificationOutcome `json:"outcome"`
	Success      bool                `json:"success_evaluation"`
	Message      string              `json:"message"`
	Hours        *OperatingHours     `json:"hours,omitempty"`
}

// Verified reports whether hours were confirmed and committed.
func (r *VerificationResult) Verified() bool {
	return r != nil && r.Outcome == OutcomeVerified
}
