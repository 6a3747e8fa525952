package domain

import (
	"github.com/shopspring/decimal"
)

// SettlementTolerance is the largest balance treated as settled.
var SettlementTolerance = Cent

// TravelerBalance is a traveler's position. Positive Balance means the traveler is owed money.
type TravelerBalance struct {
	TravelerID   string
	Name         string
	IsPrimary    bool
	ShouldPay    decimal.Decimal
	ActuallyPaid decimal.Decimal
	Balance      decimal.Decimal
}

// IsSettled reports whether the balance is within tolerance of zero.
func (b TravelerBalance) IsSettled() bool {
	return b.Balance.Abs().LessThanOrEqual(SettlementTolerance)
}

// SettlementTransaction moves Amount from a debtor to a creditor.
type SettlementTransaction struct {
	FromTravelerID string
	FromName       string
	ToTravelerID   string
	ToName         string
	Amount         decimal.Decimal
}

// SkippedActual is an actual left out of the balances, with the reason.
type SkippedActual struct {
	ActualID string
	Currency string
	Reason   string
}

// SettlementSummary is the derived settlement view of a trip.
type SettlementSummary struct {
	TripID         string
	Currency       string
	TotalEstimated decimal.Decimal
	TotalActual    decimal.Decimal
	Balances       []TravelerBalance
	Transactions   []SettlementTransaction
	Skipped        []SkippedActual
}

// ComputeBalances derives balances from actuals already expressed in one currency.
// ShouldPay counts every actual the traveler is responsible for; ActuallyPaid counts
// every actual the traveler paid, for anyone.
//
// Non-cost-sharers carry no obligations: an actual assigned to one, or to a traveler
// no longer on the trip, is divided evenly across the cost-sharers. A non-cost-sharer who paid for something is listed after the
// cost-sharers so the payment is repaid. Payments recorded for travelers outside the trip
// are treated as unpaid. travelers should already be ordered; the result keeps that order.
func ComputeBalances(travelers []*Traveler, actuals []*ExpenseActual) []TravelerBalance {
	sharers := CostSharers(travelers)
	onTrip := make(map[string]*Traveler, len(travelers))
	for _, t := range travelers {
		onTrip[t.ID] = t
	}

	shouldPay := make(map[string]decimal.Decimal, len(travelers))
	paid := make(map[string]decimal.Decimal, len(travelers))

	for _, a := range actuals {
		if t, ok := onTrip[a.TravelerID]; (!ok || !t.IsCostSharer) && len(sharers) > 0 {
			for i, part := range SplitEvenly(a.Amount, len(sharers)) {
				id := sharers[i].ID
				shouldPay[id] = shouldPay[id].Add(part)
			}
		} else {
			shouldPay[a.TravelerID] = shouldPay[a.TravelerID].Add(a.Amount)
		}

		if a.IsPaid() {
			if _, ok := onTrip[*a.PaidByTravelerID]; ok {
				paid[*a.PaidByTravelerID] = paid[*a.PaidByTravelerID].Add(a.Amount)
			}
		}
	}

	balances := make([]TravelerBalance, 0, len(travelers))
	for _, t := range sharers {
		balances = append(balances, newBalance(t, shouldPay[t.ID], paid[t.ID]))
	}
	for _, t := range travelers {
		if t.IsCostSharer || !paid[t.ID].IsPositive() {
			continue
		}
		balances = append(balances, newBalance(t, decimal.Zero, paid[t.ID]))
	}

	return balances
}

func newBalance(t *Traveler, owes, contributed decimal.Decimal) TravelerBalance {
	return TravelerBalance{
		TravelerID:   t.ID,
		Name:         t.Name,
		IsPrimary:    t.IsPrimary,
		ShouldPay:    owes,
		ActuallyPaid: contributed,
		Balance:      contributed.Sub(owes),
	}
}

type position struct {
	id        string
	name      string
	remaining decimal.Decimal
}

// PlanSettlement nets balances with greedy bipartite matching: each debtor, in order,
// pays the creditors in order until its debt is gone.
//
// Balances are rounded to cents first, so every step zeroes at least one side and the
// plan has at most debtors+creditors-1 transactions. This bounds the plan size; it is
// not a minimum-transaction solver.
func PlanSettlement(balances []TravelerBalance) []SettlementTransaction {
	var debtors, creditors []*position
	for _, b := range balances {
		if b.IsSettled() {
			continue
		}
		p := &position{id: b.TravelerID, name: b.Name, remaining: b.Balance.Abs().Round(2)}
		if b.Balance.IsNegative() {
			debtors = append(debtors, p)
		} else {
			creditors = append(creditors, p)
		}
	}

	transactions := []SettlementTransaction{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := debtors[i], creditors[j]

		amount := decimal.Min(debtor.remaining, creditor.remaining)
		if amount.IsPositive() {
			transactions = append(transactions, SettlementTransaction{
				FromTravelerID: debtor.id,
				FromName:       debtor.name,
				ToTravelerID:   creditor.id,
				ToName:         creditor.name,
				Amount:         amount.Round(2),
			})
		}

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if !debtor.remaining.IsPositive() {
			i++
		}
		if !creditor.remaining.IsPositive() {
			j++
		}
	}

	return transactions
}
