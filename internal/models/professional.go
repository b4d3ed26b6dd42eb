package models

// Professional is a physiotherapist or other staff member who can be booked.
type Professional struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Specialty string `json:"specialty"`
	Active    bool   `json:"active"`
}
