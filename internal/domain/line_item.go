package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Module tags the trip module a planned cost comes from.
type Module string

const (
	ModuleFlights        Module = "flights"
	ModuleAccommodations Module = "accommodations"
	ModuleItinerary      Module = "itinerary"
	ModuleExpenses       Module = "expenses"
)

// ForecastModules lists the modules in report order.
var ForecastModules = []Module{ModuleFlights, ModuleAccommodations, ModuleItinerary, ModuleExpenses}

// SplitPolicy says how a line item's amount is shared.
type SplitPolicy string

const (
	// SplitTotal divides the amount evenly across the item's cost-sharers.
	SplitTotal SplitPolicy = "total"
	// SplitPerHead charges the amount once per traveler on the item.
	SplitPerHead SplitPolicy = "per_head"
)

// Valid reports whether p is a known policy.
func (p SplitPolicy) Valid() bool {
	return p == SplitTotal || p == SplitPerHead
}

// ParseSplitPolicy parses a policy name. Empty means SplitTotal.
func ParseSplitPolicy(s string) (SplitPolicy, error) {
	p := SplitPolicy(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return SplitTotal, nil
	}
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSplitPolicy, s)
	}
	return p, nil
}

// Status is the lifecycle state of a planned item.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusShortlisted Status = "shortlisted"
	StatusConfirmed   Status = "confirmed"
	StatusCancelled   Status = "cancelled"
)

// DefaultForecastStatuses is used when a collection names no statuses.
var DefaultForecastStatuses = []Status{StatusConfirmed, StatusShortlisted}

// ParseStatus parses a lifecycle status name.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusDraft, StatusShortlisted, StatusConfirmed, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// ParseStatuses parses and deduplicates a status list, preserving order.
// An empty list yields DefaultForecastStatuses.
func ParseStatuses(values []string) ([]Status, error) {
	if len(values) == 0 {
		return append([]Status(nil), DefaultForecastStatuses...), nil
	}

	seen := make(map[Status]bool, len(values))
	statuses := make([]Status, 0, len(values))
	for _, v := range values {
		st, err := ParseStatus(v)
		if err != nil {
			return nil, err
		}
		if seen[st] {
			continue
		}
		seen[st] = true
		statuses = append(statuses, st)
	}

	return statuses, nil
}

// PlannedLineItem is a read-only projection of a planned cost from a trip module.
type PlannedLineItem struct {
	ID          string
	Module      Module
	Description string
	Amount      decimal.Decimal
	Currency    string
	SplitPolicy SplitPolicy
	Status      Status
	TravelerIDs []string
}

// Validate reports why an item cannot be aggregated.
func (i *PlannedLineItem) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("%w: missing id", ErrMalformedLineItem)
	}
	if err := ValidateAmount(i.Amount); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedLineItem, err)
	}
	if err := ValidateCurrency(i.Currency); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedLineItem, err)
	}
	if !i.SplitPolicy.Valid() {
		return fmt.Errorf("%w: split policy %q", ErrMalformedLineItem, i.SplitPolicy)
	}
	return nil
}

// Headcount is the number of travelers the item is charged for.
// An item with no travelers still counts one head.
func (i *PlannedLineItem) Headcount() int {
	if len(i.TravelerIDs) == 0 {
		return 1
	}
	return len(i.TravelerIDs)
}

// GrossAmount is the item's total cost in its own currency, charging every listed traveler.
func (i *PlannedLineItem) GrossAmount() decimal.Decimal {
	if i.SplitPolicy == SplitPerHead {
		return i.Amount.Mul(decimal.NewFromInt(int64(i.Headcount())))
	}
	return i.Amount
}

// SharedAmount is the item's total cost when costSharers travelers carry it.
// Per-head items are charged once per cost-sharer; with no cost-sharers it falls back to GrossAmount.
func (i *PlannedLineItem) SharedAmount(costSharers int) decimal.Decimal {
	if i.SplitPolicy == SplitPerHead && costSharers > 0 {
		return i.Amount.Mul(decimal.NewFromInt(int64(costSharers)))
	}
	return i.GrossAmount()
}
