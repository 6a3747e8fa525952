package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Flag annotates a line item that was only partially aggregated.
type Flag string

const (
	// FlagRateUnavailable: no rate to the base currency, contributes zero.
	FlagRateUnavailable Flag = "rate_unavailable"
	// FlagNoCostSharers: counted in totals but not shared by anyone.
	FlagNoCostSharers Flag = "no_cost_sharers"
)

// FxItem records one conversion applied while aggregating.
type FxItem struct {
	ItemID           string          `json:"item_id"`
	Module           Module          `json:"module"`
	OriginalAmount   decimal.Decimal `json:"original_amount"`
	OriginalCurrency string          `json:"original_currency"`
	Rate             decimal.Decimal `json:"rate"`
	ConvertedAmount  decimal.Decimal `json:"converted_amount"`
	Available        bool            `json:"available"`
}

// ForecastLine is one line item as it appears in a module breakdown.
type ForecastLine struct {
	ItemID          string          `json:"item_id"`
	Description     string          `json:"description"`
	Status          Status          `json:"status"`
	SplitPolicy     SplitPolicy     `json:"split_policy"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	GrossAmount     decimal.Decimal `json:"gross_amount"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
	TravelerIDs     []string        `json:"traveler_ids"`
	CostSharerIDs   []string        `json:"cost_sharer_ids"`
	Flags           []Flag          `json:"flags,omitempty"`
}

// ModuleBreakdown is the subtotal of one module in the base currency.
type ModuleBreakdown struct {
	Module Module         `json:"module"`
	Total  decimal.Decimal `json:"total"`
	Items  []ForecastLine `json:"items"`
}

// ItemShare is one traveler's share of one line item. Persisted per collection.
type ItemShare struct {
	ItemID     string          `json:"item_id"`
	Module     Module          `json:"module"`
	TravelerID string          `json:"traveler_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// TravelerShare is a cost-sharer's total share across the forecast.
type TravelerShare struct {
	TravelerID string          `json:"traveler_id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
}

// SkippedItem is a line item left out of the forecast with the reason.
type SkippedItem struct {
	ItemID string `json:"item_id"`
	Module Module `json:"module"`
	Reason string `json:"reason"`
}

// CostForecastReport is the aggregate cost view of a trip in its base currency.
type CostForecastReport struct {
	CollectedAt    time.Time         `json:"collected_at"`
	TripID         string            `json:"trip_id"`
	BaseCurrency   string            `json:"base_currency"`
	Statuses       []Status          `json:"statuses"`
	Total          decimal.Decimal   `json:"total"`
	Modules        []ModuleBreakdown `json:"modules"`
	TravelerShares []TravelerShare   `json:"traveler_shares"`
	Shares         []ItemShare       `json:"shares"`
	FxItems        []FxItem          `json:"fx_items"`
	Skipped        []SkippedItem     `json:"skipped"`
}

// Module returns the breakdown for m, or nil.
func (r *CostForecastReport) Module(m Module) *ModuleBreakdown {
	for i := range r.Modules {
		if r.Modules[i].Module == m {
			return &r.Modules[i]
		}
	}
	return nil
}

// ShareOf returns a traveler's total share, zero when absent.
func (r *CostForecastReport) ShareOf(travelerID string) decimal.Decimal {
	for _, s := range r.TravelerShares {
		if s.TravelerID == travelerID {
			return s.Amount
		}
	}
	return decimal.Zero
}

// FlaggedCount counts lines carrying flag.
func (r *CostForecastReport) FlaggedCount(flag Flag) int {
	n := 0
	for _, m := range r.Modules {
		for _, line := range m.Items {
			for _, f := range line.Flags {
				if f == flag {
					n++
				}
			}
		}
	}
	return n
}

// ForecastBuilder accumulates line items into a CostForecastReport.
// Converted amounts are rounded to cents per line, and module totals are sums of those lines.
type ForecastBuilder struct {
	report      *CostForecastReport
	snapshot    *RateSnapshot
	travelers   []*Traveler
	costSharers map[string]bool
	modules     map[Module]*ModuleBreakdown
	perTraveler map[string]decimal.Decimal
}

// NewForecastBuilder prepares a builder. travelers should already be ordered.
func NewForecastBuilder(tripID string, statuses []Status, travelers []*Traveler, snapshot *RateSnapshot) *ForecastBuilder {
	b := &ForecastBuilder{
		report: &CostForecastReport{
			TripID:       tripID,
			BaseCurrency: snapshot.Base,
			Statuses:     statuses,
			Total:        decimal.Zero,
		},
		snapshot:    snapshot,
		travelers:   travelers,
		costSharers: make(map[string]bool, len(travelers)),
		modules:     make(map[Module]*ModuleBreakdown, len(ForecastModules)),
		perTraveler: make(map[string]decimal.Decimal, len(travelers)),
	}

	for _, t := range travelers {
		if t.IsCostSharer {
			b.costSharers[t.ID] = true
		}
	}
	for _, m := range ForecastModules {
		b.modules[m] = &ModuleBreakdown{Module: m, Total: decimal.Zero, Items: []ForecastLine{}}
	}

	return b
}

// Add aggregates one item. Malformed items are recorded as skipped and Add returns the reason.
func (b *ForecastBuilder) Add(item *PlannedLineItem) error {
	if err := item.Validate(); err != nil {
		b.skip(item, err)
		return err
	}

	breakdown, ok := b.modules[item.Module]
	if !ok {
		err := errors.New("unknown module " + string(item.Module))
		b.skip(item, err)
		return err
	}

	sharers := b.costSharersOf(item)
	gross := item.SharedAmount(len(sharers))
	currency := NormalizeCurrency(item.Currency)
	line := ForecastLine{
		ItemID:          item.ID,
		Description:     item.Description,
		Status:          item.Status,
		SplitPolicy:     item.SplitPolicy,
		Amount:          item.Amount,
		Currency:        currency,
		GrossAmount:     gross,
		ConvertedAmount: decimal.Zero,
		TravelerIDs:     append([]string{}, item.TravelerIDs...),
		CostSharerIDs:   sharers,
	}

	converted, rate, err := b.snapshot.Convert(gross, currency, b.snapshot.Base)
	if currency != b.snapshot.Base {
		b.report.FxItems = append(b.report.FxItems, FxItem{
			ItemID:           item.ID,
			Module:           item.Module,
			OriginalAmount:   gross,
			OriginalCurrency: currency,
			Rate:             rate,
			ConvertedAmount:  converted.Round(2),
			Available:        err == nil,
		})
	}

	if err != nil {
		line.Flags = append(line.Flags, FlagRateUnavailable)
		breakdown.Items = append(breakdown.Items, line)
		return nil
	}

	line.ConvertedAmount = converted.Round(2)
	breakdown.Total = breakdown.Total.Add(line.ConvertedAmount)
	b.report.Total = b.report.Total.Add(line.ConvertedAmount)

	if len(line.CostSharerIDs) == 0 {
		line.Flags = append(line.Flags, FlagNoCostSharers)
		breakdown.Items = append(breakdown.Items, line)
		return nil
	}

	for i, amount := range SplitEvenly(line.ConvertedAmount, len(line.CostSharerIDs)) {
		travelerID := line.CostSharerIDs[i]
		b.perTraveler[travelerID] = b.perTraveler[travelerID].Add(amount)
		b.report.Shares = append(b.report.Shares, ItemShare{
			ItemID:     item.ID,
			Module:     item.Module,
			TravelerID: travelerID,
			Amount:     amount,
		})
	}

	breakdown.Items = append(breakdown.Items, line)
	return nil
}

func (b *ForecastBuilder) costSharersOf(item *PlannedLineItem) []string {
	seen := make(map[string]bool, len(item.TravelerIDs))
	ids := make([]string, 0, len(item.TravelerIDs))
	// Follow traveler order so leftover cents land deterministically.
	for _, t := range b.travelers {
		if !b.costSharers[t.ID] || seen[t.ID] {
			continue
		}
		for _, id := range item.TravelerIDs {
			if id == t.ID {
				ids = append(ids, id)
				seen[id] = true
				break
			}
		}
	}
	return ids
}

func (b *ForecastBuilder) skip(item *PlannedLineItem, err error) {
	b.report.Skipped = append(b.report.Skipped, SkippedItem{
		ItemID: item.ID,
		Module: item.Module,
		Reason: err.Error(),
	})
}

// SkipModule records that a whole module could not be read.
func (b *ForecastBuilder) SkipModule(m Module, err error) {
	b.report.Skipped = append(b.report.Skipped, SkippedItem{Module: m, Reason: err.Error()})
}

// Report finalizes the report. Every module appears, including empty ones.
func (b *ForecastBuilder) Report(collectedAt time.Time) *CostForecastReport {
	r := b.report
	r.CollectedAt = collectedAt

	r.Modules = make([]ModuleBreakdown, 0, len(ForecastModules))
	for _, m := range ForecastModules {
		r.Modules = append(r.Modules, *b.modules[m])
	}

	r.TravelerShares = make([]TravelerShare, 0, len(b.costSharers))
	for _, t := range b.travelers {
		if !t.IsCostSharer {
			continue
		}
		r.TravelerShares = append(r.TravelerShares, TravelerShare{
			TravelerID: t.ID,
			Name:       t.Name,
			Amount:     b.perTraveler[t.ID],
		})
	}

	if r.Shares == nil {
		r.Shares = []ItemShare{}
	}
	if r.FxItems == nil {
		r.FxItems = []FxItem{}
	}
	if r.Skipped == nil {
		r.Skipped = []SkippedItem{}
	}

	return r
}
