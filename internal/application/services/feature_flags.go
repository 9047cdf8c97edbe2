package services

// FeatureFlags gates operationally sensitive behavior. Outbound calling is
// off by default so a misconfigured environment can never dial real
// restaurants.
type FeatureFlags struct {
	EnableCalls bool
}

// CallsEnabled reports whether outbound verification calls may be placed.
func (f *FeatureFlags) CallsEnabled() bool {
	return f != nil && f.EnableCalls
}
