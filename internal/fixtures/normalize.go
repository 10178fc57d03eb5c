package fixtures

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var fold = cases.Fold()

// Normalize trims whitespace, NFC-normalizes display names and case-folds
// email addresses so the unique index on users.email sees one spelling.
func Normalize(set Set) Set {
	out := Set{
		Users:     make([]UserRecord, len(set.Users)),
		Customers: make([]CustomerRecord, len(set.Customers)),
		Invoices:  make([]InvoiceRecord, len(set.Invoices)),
		Revenue:   make([]RevenueRecord, len(set.Revenue)),
	}

	for i, u := range set.Users {
		u.ID = strings.TrimSpace(u.ID)
		u.Name = name(u.Name)
		u.Email = email(u.Email)
		out.Users[i] = u
	}
	for i, c := range set.Customers {
		c.ID = strings.TrimSpace(c.ID)
		c.Name = name(c.Name)
		c.Email = email(c.Email)
		c.ImageURL = strings.TrimSpace(c.ImageURL)
		out.Customers[i] = c
	}
	for i, inv := range set.Invoices {
		inv.CustomerID = strings.TrimSpace(inv.CustomerID)
		inv.Status = strings.ToLower(strings.TrimSpace(inv.Status))
		inv.Date = strings.TrimSpace(inv.Date)
		out.Invoices[i] = inv
	}
	for i, r := range set.Revenue {
		r.Month = norm.NFC.String(strings.TrimSpace(r.Month))
		out.Revenue[i] = r
	}
	return out
}

func name(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func email(s string) string {
	return fold.String(norm.NFC.String(strings.TrimSpace(s)))
}
