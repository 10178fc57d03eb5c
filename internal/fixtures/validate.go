package fixtures

import (
	"errors"
	"fmt"
	"net/mail"
	"unicode/utf8"
)

// MaxMonthLen is the width of the revenue.month column.
const MaxMonthLen = 4

var ErrInvalidFixture = errors.New("invalid fixture")

// Validate checks every record and returns all problems at once. The
// returned error wraps ErrInvalidFixture.
func Validate(set Set) error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidFixture, fmt.Sprintf(format, args...)))
	}

	emails := make(map[string]int, len(set.Users))
	for i, u := range set.Users {
		if u.Name == "" {
			bad("users[%d]: name is required", i)
		}
		if _, err := mail.ParseAddress(u.Email); err != nil {
			bad("users[%d]: email %q is not an address", i, u.Email)
		}
		if u.Password == "" {
			bad("users[%d]: password is required", i)
		}
		if prev, ok := emails[u.Email]; ok && u.Email != "" && set.Users[prev].ID != u.ID {
			bad("users[%d]: email %q already used by users[%d]", i, u.Email, prev)
		}
		emails[u.Email] = i
	}

	for i, c := range set.Customers {
		if c.Name == "" {
			bad("customers[%d]: name is required", i)
		}
		if c.Email == "" {
			bad("customers[%d]: email is required", i)
		}
		if c.ImageURL == "" {
			bad("customers[%d]: image_url is required", i)
		}
	}

	for i, inv := range set.Invoices {
		if inv.CustomerID == "" {
			bad("invoices[%d]: customer_id is required", i)
		}
		if inv.Amount < 0 {
			bad("invoices[%d]: amount %d is negative", i, inv.Amount)
		}
		if inv.Status == "" {
			bad("invoices[%d]: status is required", i)
		}
		if _, err := inv.ParsedDate(); err != nil {
			bad("invoices[%d]: date %q is not YYYY-MM-DD", i, inv.Date)
		}
	}

	for i, r := range set.Revenue {
		if n := utf8.RuneCountInString(r.Month); n == 0 || n > MaxMonthLen {
			bad("revenue[%d]: month %q must be 1-%d characters", i, r.Month, MaxMonthLen)
		}
	}

	return errors.Join(errs...)
}
