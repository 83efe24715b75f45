package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Alcohol Category = "Alcohol"
	Tobacco Category = "Tobacco"
	Weed    Category = "Weed"
	Food    Category = "Food"
	Other   Category = "Other"
)

// MaxFavorites caps the favorites collection. Adding beyond it fails
// with ErrCapacityExceeded.
const MaxFavorites = 6

type (
	Category string

	// Entry is a single logged consumption record. Immutable once
	// created; replaceable as a whole by id.
	Entry struct {
		ID string `json:"id"`
		// Date is the ISO-8601 date-time string the entry is effective
		// on. Stored verbatim; only the date-only prefix is interpreted
		// when bucketing. May be backdated or future-dated.
		Date        string          `json:"date"`
		AmountSpent decimal.Decimal `json:"amountSpent"`
		Grams       decimal.Decimal `json:"grams"`
		Source      string          `json:"source"`
		Type        string          `json:"type"`
		Category    Category        `json:"category"`
		Notes       string          `json:"notes,omitempty"`
	}
)

var (
	ErrInvalidCategory  = errors.New("invalid category")
	ErrEmptyType        = errors.New("empty type")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrNegativeGrams    = errors.New("negative grams")
	ErrCapacityExceeded = errors.New("favorites capacity exceeded")
	ErrMalformedPayload = errors.New("malformed import payload")
	ErrInvalidRecord    = errors.New("invalid record in import payload")
	ErrPersistence      = errors.New("persistence failure")
)

func init() {
	// Amounts travel as JSON numbers in the persisted blobs and the
	// import/export document, never as quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Categories lists the closed enumeration in display order.
func Categories() []Category {
	return []Category{Alcohol, Tobacco, Weed, Food, Other}
}

// ParseCategory validates an untrusted category string against the
// closed enumeration.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// Valid reports whether the category is one of the five enumerated values.
func (c Category) Valid() bool {
	switch c {
	case Alcohol, Tobacco, Weed, Food, Other:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }

// Color returns the display color associated with the category.
func (c Category) Color() string {
	switch c {
	case Weed:
		return "#00E676"
	case Alcohol:
		return "#FF6B6B"
	case Tobacco:
		return "#FFA726"
	case Food:
		return "#FFD54F"
	case Other:
		return "#42A5F5"
	default:
		return ""
	}
}

// Day returns the calendar day the entry is effective on, derived from
// the date-only prefix of its Date field. ok is false when the prefix
// is not a parseable date; such entries never land in any bucket.
func (e Entry) Day() (Day, bool) {
	return ParseEntryDay(e.Date)
}

// Validate checks creation-time invariants. Import-time validation is a
// separate, looser contract handled by the repository.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Type) == "" {
		return ErrEmptyType
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if e.AmountSpent.IsNegative() {
		return ErrNegativeAmount
	}
	if e.Grams.IsNegative() {
		return ErrNegativeGrams
	}
	return nil
}
