package salon

import (
	"errors"
	"time"

	"github.com/nekogravitycat/reservation-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/reservation-backend/internal/scheduling"
)

var (
	ErrEmptyName            = apperror.New(apperror.KindInvalidInput, "salon name cannot be empty")
	ErrInvalidBusinessHours = apperror.New(apperror.KindInvalidInput, "business hours must satisfy 0 <= start < end <= 24")

	// errNoSettings is returned by the repository before the first Update.
	errNoSettings = errors.New("salon settings not stored yet")
)

// Info is the salon's public profile. Its business hours are the global
// opening window applied to every resource's availability.
type Info struct {
	Name               string
	Description        string
	BusinessHoursStart int
	BusinessHoursEnd   int
	InteriorImageURL   string
	UpdatedAt          time.Time
}

func (i Info) BusinessHours() scheduling.BusinessHours {
	return scheduling.BusinessHours{Start: i.BusinessHoursStart, End: i.BusinessHoursEnd}
}
