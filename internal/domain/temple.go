package domain

import "time"

// Location is the postal address of a temple.
type Location struct {
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
}

// Temple is the beneficiary of one or more campaigns.
type Temple struct {
	ID          string
	Name        string
	Description string
	Location    Location
	Deity       string
	Images      []string
	AdminID     string
	Verified    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
