package entities

import "time"

// Category is a directory category attached to a restaurant.
type Category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

// Address holds the restaurant's street address as returned by the directory.
type Address struct {
	Address1       string   `json:"address1"`
	Address2       string   `json:"address2,omitempty"`
	Address3       string   `json:"address3,omitempty"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	ZipCode        string   `json:"zip_code"`
	Country        string   `json:"country"`
	DisplayAddress []string `json:"display_address,omitempty"`
}

// Restaurant is a cached business-directory record enriched with hours
// verification state. BusinessID is the directory's opaque identifier and
// the primary key.
//
// IsHoursVerified and IsClosed are owned by the verification pipeline:
// IsClosed marks a restaurant permanently excluded from dispatch.
type Restaurant struct {
	BusinessID      string     `json:"business_id" db:"business_id"`
	Name            string     `json:"name" db:"name"`
	Rating          float64    `json:"rating" db:"rating"`
	Price           string     `json:"price,omitempty" db:"price"`
	Phone           string     `json:"phone,omitempty" db:"phone"`
	Address         Address    `json:"location"`
	Latitude        float64    `json:"latitude" db:"latitude"`
	Longitude       float64    `json:"longitude" db:"longitude"`
	Photos          []string   `json:"photos" db:"photos"`
	Categories      []Category `json:"categories"`
	IsOpen          bool       `json:"is_open" db:"is_open"`
	IsHoursVerified bool       `json:"is_hours_verified" db:"is_hours_verified"`
	IsClosed        bool       `json:"is_closed" db:"is_closed"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// RestaurantWithHours bundles a restaurant with its verified hours record
// for API responses.
type RestaurantWithHours struct {
	Restaurant
	OperatingHours *OperatingHours `json:"operating_hours,omitempty"`
}
