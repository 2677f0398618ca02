package ledger

import "github.com/splitledger/splitledger/internal/money"

// PayerStat summarizes one payer's activity across a fact set.
type PayerStat struct {
	Count int         `json:"count"`
	Total money.Money `json:"total"`
}

// CategoryStat summarizes spending in one expense category.
type CategoryStat struct {
	Count int         `json:"count"`
	Total money.Money `json:"total"`
}

// Stats is the roll-up for a group's active expenses.
type Stats struct {
	Total           money.Money             `json:"total"`
	Count           int                     `json:"count"`
	Average         money.Money             `json:"average"`
	Largest         money.Money             `json:"largest"`
	Smallest        money.Money             `json:"smallest"`
	MostActivePayer string                  `json:"most_active_payer,omitempty"`
	ByPayer         map[string]PayerStat    `json:"by_payer"`
	ByCategory      map[string]CategoryStat `json:"by_category"`
}

// Statistics computes summary statistics over the active facts. Inactive
// facts are excluded, like everywhere else in the engine. MostActivePayer
// is the payer with the most expenses; ties go to the lowest user ID.
func Statistics(facts []ExpenseFact) Stats {
	stats := Stats{
		ByPayer:    make(map[string]PayerStat),
		ByCategory: make(map[string]CategoryStat),
	}

	for _, fact := range facts {
		if !fact.Active {
			continue
		}

		stats.Count++
		stats.Total = stats.Total.Add(fact.Amount)
		if stats.Count == 1 || fact.Amount.Cmp(stats.Largest) > 0 {
			stats.Largest = fact.Amount
		}
		if stats.Count == 1 || fact.Amount.Cmp(stats.Smallest) < 0 {
			stats.Smallest = fact.Amount
		}

		ps := stats.ByPayer[fact.PaidBy]
		ps.Count++
		ps.Total = ps.Total.Add(fact.Amount)
		stats.ByPayer[fact.PaidBy] = ps

		category := fact.Category
		if category == "" {
			category = "general"
		}
		cs := stats.ByCategory[category]
		cs.Count++
		cs.Total = cs.Total.Add(fact.Amount)
		stats.ByCategory[category] = cs
	}

	if stats.Count > 0 {
		stats.Average = stats.Total.DivRoundHalfUp(int64(stats.Count))
		for id, ps := range stats.ByPayer {
			top, ok := stats.ByPayer[stats.MostActivePayer]
			if !ok || ps.Count > top.Count || (ps.Count == top.Count && id < stats.MostActivePayer) {
				stats.MostActivePayer = id
			}
		}
	}

	return stats
}
