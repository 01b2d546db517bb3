package agents

import (
	"testing"

	"github.com/talgya/bank-reserves/internal/bank"
	"github.com/talgya/bank-reserves/internal/world"
)

func newTestPair(t *testing.T, payerWallet int) (*bank.Bank, *Person, *Person) {
	t.Helper()
	b := bank.New(0.5)
	payer := NewPerson(0, world.Position{}, payerWallet, b)
	partner := NewPerson(1, world.Position{}, 0, b)
	return b, payer, partner
}

func TestPayFromWallet(t *testing.T) {
	_, payer, partner := newTestPair(t, 8)

	payer.Pay(partner, 5)

	if payer.Wallet != 3 {
		t.Errorf("payer wallet = %d, want 3", payer.Wallet)
	}
	if partner.Wallet != 5 {
		t.Errorf("partner wallet = %d, want 5", partner.Wallet)
	}
	if payer.Savings != 0 || payer.Loans != 0 {
		t.Errorf("bank touched on covered payment: savings=%d loans=%d", payer.Savings, payer.Loans)
	}
}

func TestPayExactlyEmptiesWallet(t *testing.T) {
	_, payer, partner := newTestPair(t, 5)

	payer.Pay(partner, 5)

	if payer.Wallet != 0 {
		t.Errorf("payer wallet = %d, want 0", payer.Wallet)
	}
	if payer.Loans != 0 {
		t.Errorf("loan taken for a covered payment: %d", payer.Loans)
	}
}

func TestPayWithdrawsSavingsBeforeBorrowing(t *testing.T) {
	b, payer, partner := newTestPair(t, 1)
	b.Deposit(&payer.Account, 3)

	// Pays 5 with 1 in the wallet: 3 withdrawn, 1 borrowed.
	payer.Pay(partner, 5)

	if payer.Wallet != 0 {
		t.Errorf("payer wallet = %d, want 0", payer.Wallet)
	}
	if payer.Savings != 0 {
		t.Errorf("payer savings = %d, want 0", payer.Savings)
	}
	if payer.Loans != 1 {
		t.Errorf("payer loans = %d, want 1", payer.Loans)
	}
	if partner.Wallet != 5 {
		t.Errorf("partner wallet = %d, want 5", partner.Wallet)
	}
	if b.TotalSavings() != 0 || b.TotalLoans() != 1 {
		t.Errorf("ledger = savings %d loans %d, want 0/1", b.TotalSavings(), b.TotalLoans())
	}
}

func TestPaySavingsCoverWholeDeficit(t *testing.T) {
	b, payer, partner := newTestPair(t, 0)
	b.Deposit(&payer.Account, 10)

	payer.Pay(partner, 2)

	if payer.Wallet != 0 {
		t.Errorf("payer wallet = %d, want 0", payer.Wallet)
	}
	if payer.Savings != 8 {
		t.Errorf("payer savings = %d, want 8", payer.Savings)
	}
	if payer.Loans != 0 {
		t.Errorf("loan taken though savings covered the deficit: %d", payer.Loans)
	}
}

func TestBalanceBooksRepaysBeforeSaving(t *testing.T) {
	b, p, _ := newTestPair(t, 20)
	b.Loan(&p.Account, 4)

	p.BalanceBooks(10)

	if p.Wallet != 10 {
		t.Errorf("wallet = %d, want 10", p.Wallet)
	}
	if p.Loans != 0 {
		t.Errorf("loans = %d, want 0", p.Loans)
	}
	if p.Savings != 6 {
		t.Errorf("savings = %d, want 6", p.Savings)
	}
}

func TestBalanceBooksSurplusSmallerThanLoan(t *testing.T) {
	b, p, _ := newTestPair(t, 12)
	b.Loan(&p.Account, 99)

	p.BalanceBooks(10)

	if p.Wallet != 10 {
		t.Errorf("wallet = %d, want 10", p.Wallet)
	}
	if p.Loans != 97 {
		t.Errorf("loans = %d, want 97", p.Loans)
	}
	if p.Savings != 0 {
		t.Errorf("savings = %d, want 0", p.Savings)
	}
}

func TestBalanceBooksDepositOnly(t *testing.T) {
	_, p, _ := newTestPair(t, 17)

	p.BalanceBooks(10)

	if p.Wallet != 10 {
		t.Errorf("wallet = %d, want 10", p.Wallet)
	}
	if p.Savings != 7 {
		t.Errorf("savings = %d, want 7", p.Savings)
	}
}

func TestBalanceBooksNoSurplus(t *testing.T) {
	for _, wallet := range []int{0, 5, 10} {
		_, p, _ := newTestPair(t, wallet)
		p.BalanceBooks(10)
		if p.Wallet != wallet {
			t.Errorf("wallet %d: changed to %d", wallet, p.Wallet)
		}
		if p.Savings != 0 || p.Loans != 0 {
			t.Errorf("wallet %d: bank touched without surplus", wallet)
		}
	}
}

func TestWealth(t *testing.T) {
	b := bank.New(0.5)
	p := NewPerson(3, world.Position{}, 9, b)
	b.Deposit(&p.Account, 6)
	b.Loan(&p.Account, 4)
	p.Wallet = 9

	if got := p.Wealth(); got != 11 {
		t.Errorf("Wealth = %d, want 11", got)
	}
}

func TestClass(t *testing.T) {
	tests := []struct {
		name    string
		savings int
		loans   int
		want    WealthClass
	}{
		{"fresh start", 0, 0, ClassMiddle},
		{"savings at threshold", 10, 0, ClassMiddle},
		{"savings above threshold", 11, 0, ClassRich},
		{"loans at cutoff", 0, 10, ClassMiddle},
		{"loans above cutoff", 0, 11, ClassPoor},
		{"rich wins over poor", 20, 20, ClassRich},
	}
	for _, tt := range tests {
		p := Person{Account: bank.Account{Savings: tt.savings, Loans: tt.loans}}
		if got := p.Class(10); got != tt.want {
			t.Errorf("%s: Class = %v, want %v", tt.name, got, tt.want)
		}
	}
}
