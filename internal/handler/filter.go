package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/payments-engine/internal/domain"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// parseFilter reads the shared query surface: payer type, status, refs, an
// inclusive date range, free text, and paging. All predicates are optional
// and combined by AND.
func parseFilter(r *http.Request) (domain.Filter, domain.Page, []FieldError) {
	q := r.URL.Query()

	var (
		f    domain.Filter
		errs []FieldError
	)

	if v := q.Get("payer_type"); v != "" {
		if !domain.PayerType(v).IsValid() {
			errs = append(errs, FieldError{Field: "payer_type", Message: "must be organizer, team, or player"})
		} else {
			f.PayerType = domain.PayerType(v)
		}
	}

	if v := q.Get("status"); v != "" {
		if !domain.PaymentStatus(v).IsValid() {
			errs = append(errs, FieldError{Field: "status", Message: "must be pending, success, failed, or refunded"})
		} else {
			f.Status = domain.PaymentStatus(v)
		}
	}

	for _, ref := range []struct {
		name string
		dest **uuid.UUID
	}{
		{"tournament_ref", &f.TournamentRef},
		{"organizer_ref", &f.OrganizerRef},
		{"payer_ref", &f.PayerRef},
	} {
		if v := q.Get(ref.name); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				errs = append(errs, FieldError{Field: ref.name, Message: "must be a valid UUID"})
				continue
			}
			*ref.dest = &id
		}
	}

	if v := q.Get("from"); v != "" {
		t, err := parseTime(v, false)
		if err != nil {
			errs = append(errs, FieldError{Field: "from", Message: "must be RFC3339 or YYYY-MM-DD"})
		} else {
			f.From = &t
		}
	}
	if v := q.Get("to"); v != "" {
		t, err := parseTime(v, true)
		if err != nil {
			errs = append(errs, FieldError{Field: "to", Message: "must be RFC3339 or YYYY-MM-DD"})
		} else {
			f.To = &t
		}
	}

	f.Search = q.Get("q")

	page := domain.Page{Limit: defaultPageLimit}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxPageLimit {
			errs = append(errs, FieldError{Field: "limit", Message: "must be between 1 and 500"})
		} else {
			page.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, FieldError{Field: "offset", Message: "must be zero or positive"})
		} else {
			page.Offset = n
		}
	}

	return f, page, errs
}

// parseTime accepts RFC3339 or a bare date. A bare "to" date is pushed to
// the end of that day so the range stays inclusive.
func parseTime(v string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
