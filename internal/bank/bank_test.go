package bank

import (
	"strings"
	"testing"
)

func TestDepositAndWithdraw(t *testing.T) {
	b := New(0.5)
	var acct Account

	b.Deposit(&acct, 20)
	if acct.Savings != 20 {
		t.Errorf("Savings = %d, want 20", acct.Savings)
	}
	if b.TotalSavings() != 20 {
		t.Errorf("TotalSavings = %d, want 20", b.TotalSavings())
	}

	got := b.Withdraw(&acct, 8)
	if got != 8 {
		t.Errorf("Withdraw(8) = %d, want 8", got)
	}
	if acct.Savings != 12 || b.TotalSavings() != 12 {
		t.Errorf("after withdraw: account=%d total=%d, want 12/12", acct.Savings, b.TotalSavings())
	}
}

func TestWithdrawCapsAtBalance(t *testing.T) {
	b := New(0.1)
	acct := Account{Savings: 5}
	b.totalSavings = 5

	got := b.Withdraw(&acct, 50)
	if got != 5 {
		t.Errorf("Withdraw(50) = %d, want 5", got)
	}
	if acct.Savings != 0 {
		t.Errorf("Savings = %d, want 0", acct.Savings)
	}
	if b.TotalSavings() != 0 {
		t.Errorf("TotalSavings = %d, want 0", b.TotalSavings())
	}
}

func TestLoanAlwaysSucceeds(t *testing.T) {
	// Ratio 1.0 reserves every deposit, yet lending is unaffected.
	b := New(1.0)
	var acct Account

	b.Loan(&acct, 1000)
	if acct.Loans != 1000 || b.TotalLoans() != 1000 {
		t.Errorf("after loan: account=%d total=%d, want 1000/1000", acct.Loans, b.TotalLoans())
	}
	if avail := b.AvailableToLoan(); avail >= 0 {
		t.Errorf("AvailableToLoan = %v, want negative once over-lent", avail)
	}
}

func TestRepayCapsAtLoanBalance(t *testing.T) {
	b := New(0.5)
	var acct Account
	b.Loan(&acct, 7)

	got := b.Repay(&acct, 100)
	if got != 7 {
		t.Errorf("Repay(100) = %d, want 7", got)
	}
	if acct.Loans != 0 {
		t.Errorf("Loans = %d, want 0", acct.Loans)
	}
	if b.TotalLoans() != 0 {
		t.Errorf("TotalLoans = %d, want 0", b.TotalLoans())
	}
}

func TestAggregatesSpanAccounts(t *testing.T) {
	b := New(0.2)
	var a1, a2 Account

	b.Deposit(&a1, 30)
	b.Deposit(&a2, 10)
	b.Loan(&a1, 15)
	b.Withdraw(&a2, 4)

	if b.TotalSavings() != 36 {
		t.Errorf("TotalSavings = %d, want 36", b.TotalSavings())
	}
	if b.TotalLoans() != 15 {
		t.Errorf("TotalLoans = %d, want 15", b.TotalLoans())
	}
	if got := b.ReserveRequirement(); got != 7.2 {
		t.Errorf("ReserveRequirement = %v, want 7.2", got)
	}
	// 36 - 7.2 - 15
	if got := b.AvailableToLoan(); got != 13.8 {
		t.Errorf("AvailableToLoan = %v, want 13.8", got)
	}
}

func TestNegativeAmountsPanic(t *testing.T) {
	b := New(0.5)
	var acct Account

	ops := map[string]func(){
		"deposit":  func() { b.Deposit(&acct, -1) },
		"withdraw": func() { b.Withdraw(&acct, -1) },
		"loan":     func() { b.Loan(&acct, -1) },
		"repay":    func() { b.Repay(&acct, -1) },
	}
	for name, op := range ops {
		func() {
			defer func() {
				r := recover()
				if r == nil {
					t.Errorf("%s with negative amount did not panic", name)
					return
				}
				if msg, ok := r.(string); !ok || !strings.HasPrefix(msg, "bank:") {
					t.Errorf("%s panic = %v, want bank-prefixed message", name, r)
				}
			}()
			op()
		}()
	}
}

func TestNewRejectsBadRatio(t *testing.T) {
	for _, ratio := range []float64{-0.1, 1.5} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%v) did not panic", ratio)
				}
			}()
			New(ratio)
		}()
	}
}
