// Package bank implements the single aggregate ledger every agent banks
// with: savings deposits, outstanding loans, and the fractional-reserve
// target derived from them.
package bank

import "fmt"

// Account is one agent's standing with the bank. Agents embed it, and
// every operation mutates the account and the aggregate ledger together,
// so the two can never drift apart within a step.
type Account struct {
	Savings int `json:"savings"`
	Loans   int `json:"loans"`
}

// Bank tracks deposits and loans across the whole population. The reserve
// ratio sizes the reported reserve requirement; it never blocks lending.
// The bank draws on unlimited external liquidity, so the model measures
// the consequence of the ratio rather than enforcing it.
type Bank struct {
	ReserveRatio float64 `json:"reserve_ratio"`

	totalSavings int
	totalLoans   int
}

// New creates a bank with the given reserve ratio in [0,1].
func New(reserveRatio float64) *Bank {
	if reserveRatio < 0 || reserveRatio > 1 {
		panic(fmt.Sprintf("bank: reserve ratio %v outside [0,1]", reserveRatio))
	}
	return &Bank{ReserveRatio: reserveRatio}
}

// Deposit moves amount from the agent's hands into savings.
func (b *Bank) Deposit(acct *Account, amount int) {
	requireNonNegative("deposit", amount)
	acct.Savings += amount
	b.totalSavings += amount
}

// Withdraw takes up to amount out of savings and returns how much was
// actually withdrawn, capped at the account balance.
func (b *Bank) Withdraw(acct *Account, amount int) int {
	requireNonNegative("withdraw", amount)
	if amount > acct.Savings {
		amount = acct.Savings
	}
	acct.Savings -= amount
	b.totalSavings -= amount
	if b.totalSavings < 0 {
		panic(fmt.Sprintf("bank: total savings went negative (%d) on withdraw", b.totalSavings))
	}
	return amount
}

// Loan extends a new loan for the full amount. Loans always succeed;
// there is no denial path.
func (b *Bank) Loan(acct *Account, amount int) {
	requireNonNegative("loan", amount)
	acct.Loans += amount
	b.totalLoans += amount
}

// Repay pays down up to amount of the outstanding loan and returns how
// much was actually repaid, capped at the loan balance.
func (b *Bank) Repay(acct *Account, amount int) int {
	requireNonNegative("repay", amount)
	if amount > acct.Loans {
		amount = acct.Loans
	}
	acct.Loans -= amount
	b.totalLoans -= amount
	if b.totalLoans < 0 {
		panic(fmt.Sprintf("bank: total loans went negative (%d) on repay", b.totalLoans))
	}
	return amount
}

// TotalSavings returns deposits held across all accounts.
func (b *Bank) TotalSavings() int {
	return b.totalSavings
}

// TotalLoans returns loans outstanding across all accounts.
func (b *Bank) TotalLoans() int {
	return b.totalLoans
}

// ReserveRequirement returns the deposits the bank is configured to hold
// back rather than lend, recomputed from the current total.
func (b *Bank) ReserveRequirement() float64 {
	return float64(b.totalSavings) * b.ReserveRatio
}

// AvailableToLoan reports deposits left over after the reserve requirement
// and the loans already outstanding. It can go negative; nothing gates on it.
func (b *Bank) AvailableToLoan() float64 {
	return float64(b.totalSavings) - b.ReserveRequirement() - float64(b.totalLoans)
}

// String returns a summary of the ledger.
func (b *Bank) String() string {
	return fmt.Sprintf("Bank(savings=%d, loans=%d, ratio=%.2f)", b.totalSavings, b.totalLoans, b.ReserveRatio)
}

func requireNonNegative(op string, amount int) {
	if amount < 0 {
		panic(fmt.Sprintf("bank: negative %s amount %d", op, amount))
	}
}
