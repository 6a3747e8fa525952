package domain

import "errors"

var (
	// Currency errors
	ErrRateUnavailable  = errors.New("exchange rate unavailable")
	ErrTransientNetwork = errors.New("transient network failure")

	// Lookup errors
	ErrTripNotFound     = errors.New("trip not found")
	ErrTravelerNotFound = errors.New("traveler not found")
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrActualNotFound   = errors.New("expense actual not found")
	ErrForecastNotFound = errors.New("cost forecast not found")

	// Raised by collaborator modules (e.g. overlapping accommodation confirmations).
	ErrConfirmationConflict = errors.New("confirmation conflict")

	// Line item errors
	ErrMalformedLineItem = errors.New("malformed line item")
	ErrNoTravelers       = errors.New("expense has no travelers")
	ErrNotCostSharer     = errors.New("traveler is not a cost-sharer")
	ErrEmptyUpdate       = errors.New("no fields to update")
)
