package entities

import "time"

// OperatingHours is the per-restaurant hours record written by the
// verification pipeline. At most one row exists per restaurant; every
// verification attempt upserts it.
//
// IsConsenting records whether the business agreed to data retention
// during the call.
type OperatingHours struct {
	ID              string    `json:"id,omitempty" db:"id"`
	RestaurantID    string    `json:"restaurant_id" db:"restaurant_id"`
	TimeOpen        string    `json:"time_open" db:"time_open"`
	TimeClosed      string    `json:"time_closed" db:"time_closed"`
	IsOpen          bool      `json:"is_open" db:"is_open"`
	IsHoursVerified bool      `json:"is_hours_verified" db:"is_hours_verified"`
	IsConsenting    bool      `json:"is_consenting" db:"is_consenting"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
