package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/slot"
)

type Availability struct {
	Date    string         `json:"date"`
	Service string         `json:"service"`
	Policy  string         `json:"policy"`
	Slots   []slot.Slot    `json:"slots"`
	Periods map[string]int `json:"free_by_period"`
}

type GetAvailability struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetAvailability(repo domain.Repository, now func() time.Time) *GetAvailability {
	return &GetAvailability{repo: repo, now: now}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*Availability, error) {

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, upstream(err, "service_not_found")
	}

	date := in.Date.Format(slot.DateLayout)
	existing, err := loadDay(ctx, uc.repo, date)
	if err != nil {
		return nil, err
	}

	policy := slot.PolicyByName(in.Policy)
	slots := policy.Generate(slot.Request{
		Date:            in.Date,
		DurationMinutes: service.DurationMinutes,
		ProfessionalID:  in.ProfessionalID,
		ExcludeID:       in.ExcludeID,
		Now:             uc.now(),
	}, existing)

	free := map[string]int{
		string(slot.Morning):   0,
		string(slot.Afternoon): 0,
		string(slot.Evening):   0,
	}
	for _, s := range slots {
		if s.Available() {
			free[string(s.Period)]++
		}
	}

	return &Availability{
		Date:    date,
		Service: service.Name,
		Policy:  policy.Name,
		Slots:   slots,
		Periods: free,
	}, nil
}
