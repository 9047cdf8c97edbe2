package entities

// CallStatus is a normalized voice-vendor call state.
type CallStatus string

const (
	CallStatusQueued     CallStatus = "queued"
	CallStatusRinging    CallStatus = "ringing"
	CallStatusInProgress CallStatus = "in-progress"
	CallStatusEnded      CallStatus = "ended"
	CallStatusCompleted  CallStatus = "completed"
	CallStatusFailed     CallStatus = "failed"
	CallStatusError      CallStatus = "error"
)

// IsTerminalSuccess reports whether the call finished normally.
func (s CallStatus) IsTerminalSuccess() bool {
	return s == CallStatusEnded || s == CallStatusCompleted
}

// IsTerminalFailure reports whether the vendor gave up on the call.
func (s CallStatus) IsTerminalFailure() bool {
	return s == CallStatusFailed || s == CallStatusError
}

// CallAnalysis is the vendor's post-call result. Both fields are advisory:
// StructuredData may be missing any key and SuccessEvaluation is the
// vendor's own judgment of whether the call achieved its goal.
type CallAnalysis struct {
	StructuredData    map[string]any `json:"structuredData"`
	SuccessEvaluation bool           `json:"successEvaluation"`
}

// Structured-data keys the hours assistant is prompted to fill.
const (
	StructuredKeyTimeOpen   = "time_open"
	StructuredKeyTimeClosed = "time_closed"
	StructuredKeyIsOpen     = "is_open"
)

// StringField returns a structured-data value as a string, with ok=false
// when the key is absent or not a string.
func (a CallAnalysis) StringField(key string) (string, bool) {
	v, ok := a.StructuredData[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// BoolField returns a structured-data value as a bool; absent or mistyped
// keys read as false.
func (a CallAnalysis) BoolField(key string) bool {
	v, ok := a.StructuredData[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
