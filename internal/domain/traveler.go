package domain

import "sort"

// Traveler is a member of a trip.
type Traveler struct {
	ID           string
	TripID       string
	Name         string
	Currency     string
	IsCostSharer bool
	IsPrimary    bool
}

// SortTravelers orders travelers primary first, then by name, then by ID.
// Settlement output depends on this order.
func SortTravelers(travelers []*Traveler) {
	sort.SliceStable(travelers, func(i, j int) bool {
		a, b := travelers[i], travelers[j]
		if a.IsPrimary != b.IsPrimary {
			return a.IsPrimary
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

// PrimaryTraveler returns the trip's primary traveler, or nil.
func PrimaryTraveler(travelers []*Traveler) *Traveler {
	for _, t := range travelers {
		if t.IsPrimary {
			return t
		}
	}
	return nil
}

// BaseCurrency is the primary traveler's currency, falling back to the given default.
func BaseCurrency(travelers []*Traveler, fallback string) string {
	if p := PrimaryTraveler(travelers); p != nil && p.Currency != "" {
		return NormalizeCurrency(p.Currency)
	}
	return NormalizeCurrency(fallback)
}

// CostSharers returns the cost-sharing travelers in their original order.
func CostSharers(travelers []*Traveler) []*Traveler {
	result := make([]*Traveler, 0, len(travelers))
	for _, t := range travelers {
		if t.IsCostSharer {
			result = append(result, t)
		}
	}
	return result
}
