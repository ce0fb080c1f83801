package domain

import (
	"time"

	"github.com/google/uuid"
)

// Filter is a conjunction of optional predicates over payment records.
// Zero-valued fields are ignored. From/To are inclusive.
type Filter struct {
	PayerType     PayerType
	Status        PaymentStatus
	TournamentRef *uuid.UUID
	OrganizerRef  *uuid.UUID
	PayerRef      *uuid.UUID
	From          *time.Time
	To            *time.Time
	Search        string
}

// WithStatus returns a copy of the filter narrowed to the given status.
func (f Filter) WithStatus(s PaymentStatus) Filter {
	f.Status = s
	return f
}

// WithOrganizer returns a copy of the filter scoped to one organizer.
func (f Filter) WithOrganizer(ref uuid.UUID) Filter {
	f.OrganizerRef = &ref
	return f
}

// WithPayer returns a copy of the filter scoped to one paying team or player.
func (f Filter) WithPayer(ref uuid.UUID) Filter {
	f.PayerRef = &ref
	return f
}

// Page is limit/offset pagination for Query. A zero Page means no paging.
type Page struct {
	Limit  int
	Offset int
}
