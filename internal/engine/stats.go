package engine

import "sort"

// StepStats is the aggregate snapshot recorded after each completed step.
// Snapshots are append-only; once recorded they never change.
type StepStats struct {
	Step int `json:"step"`

	// Wealth-class counts. Rich means savings above the rich threshold,
	// poor means loans above the poverty cutoff, middle is the rest.
	Rich        int `json:"rich"`
	MiddleClass int `json:"middle_class"`
	Poor        int `json:"poor"`

	TotalWallets int `json:"total_wallets"`
	TotalSavings int `json:"total_savings"`
	TotalLoans   int `json:"total_loans"`
	TotalMoney   int `json:"total_money"` // wallets + savings

	// ReserveRequirement is reported, never enforced.
	ReserveRequirement float64 `json:"reserve_requirement"`

	// Gini over per-person wallet+savings holdings.
	Gini float64 `json:"gini"`
}

// Gini computes the Gini coefficient of non-negative money holdings:
// 0 for perfect equality, approaching 1 as one person holds everything.
// Empty or all-zero populations score 0.
func Gini(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	var total, weighted int64
	for i, v := range sorted {
		total += int64(v)
		weighted += int64(i+1) * int64(v)
	}
	if total == 0 {
		return 0
	}
	n := float64(len(sorted))
	return 2*float64(weighted)/(n*float64(total)) - (n+1)/n
}
