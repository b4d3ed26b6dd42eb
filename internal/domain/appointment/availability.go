package appointment

import "time"

type AvailabilityInput struct {
	Date           time.Time
	ServiceID      uint
	ProfessionalID uint
	ExcludeID      uint
	Policy         string
}
