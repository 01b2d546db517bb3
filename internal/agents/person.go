// Package agents defines the people of the simulation: grid position,
// cash on hand, and the money-handling behavior that keeps every wallet
// non-negative.
package agents

import (
	"fmt"

	"github.com/talgya/bank-reserves/internal/bank"
	"github.com/talgya/bank-reserves/internal/world"
)

// PoorLoanCutoff is the outstanding-loan level above which a person
// counts as poor.
const PoorLoanCutoff = 10

// WealthClass buckets a person by bank standing.
type WealthClass uint8

const (
	ClassPoor WealthClass = iota
	ClassMiddle
	ClassRich
)

// String returns the class name.
func (c WealthClass) String() string {
	switch c {
	case ClassPoor:
		return "poor"
	case ClassMiddle:
		return "middle"
	case ClassRich:
		return "rich"
	default:
		return fmt.Sprintf("WealthClass(%d)", uint8(c))
	}
}

// Person is one agent: a position on the grid, a wallet of on-hand cash,
// and an account with the single bank everyone banks with.
type Person struct {
	ID     int            `json:"id"`
	Pos    world.Position `json:"pos"`
	Wallet int            `json:"wallet"`

	bank.Account

	Bank *bank.Bank `json:"-"`
}

// NewPerson creates a person holding wallet cash and a clean account.
func NewPerson(id int, pos world.Position, wallet int, b *bank.Bank) *Person {
	return &Person{
		ID:     id,
		Pos:    pos,
		Wallet: wallet,
		Bank:   b,
	}
}

// Pay hands amount of cash to the partner. A payer whose wallet cannot
// cover it settles the shortfall immediately: savings are withdrawn
// first, then a loan covers the rest, leaving the wallet at exactly zero.
func (p *Person) Pay(partner *Person, amount int) {
	if amount < 0 {
		panic(fmt.Sprintf("agents: person %d paying negative amount %d", p.ID, amount))
	}
	partner.Wallet += amount
	p.Wallet -= amount
	p.settleDeficit()
}

// settleDeficit restores a negative wallet to zero via the bank.
func (p *Person) settleDeficit() {
	if p.Wallet >= 0 {
		return
	}
	p.Wallet += p.Bank.Withdraw(&p.Account, -p.Wallet)
	if p.Wallet < 0 {
		shortfall := -p.Wallet
		p.Bank.Loan(&p.Account, shortfall)
		p.Wallet += shortfall
	}
	if p.Wallet != 0 {
		panic(fmt.Sprintf("agents: person %d settled to wallet %d, want 0", p.ID, p.Wallet))
	}
}

// BalanceBooks applies the end-of-activation policy: cash above the
// working threshold pays down any outstanding loan first, and whatever
// surplus remains is deposited into savings.
func (p *Person) BalanceBooks(threshold int) {
	surplus := p.Wallet - threshold
	if surplus <= 0 {
		return
	}
	if p.Loans > 0 {
		repaid := p.Bank.Repay(&p.Account, surplus)
		p.Wallet -= repaid
		surplus -= repaid
	}
	if surplus > 0 {
		p.Bank.Deposit(&p.Account, surplus)
		p.Wallet -= surplus
	}
}

// Wealth returns net worth: cash plus savings minus outstanding loans.
func (p *Person) Wealth() int {
	return p.Wallet + p.Savings - p.Loans
}

// Class buckets the person: rich when savings exceed richThreshold, poor
// when loans exceed PoorLoanCutoff, middle otherwise. Rich wins when both
// apply.
func (p *Person) Class(richThreshold int) WealthClass {
	switch {
	case p.Savings > richThreshold:
		return ClassRich
	case p.Loans > PoorLoanCutoff:
		return ClassPoor
	default:
		return ClassMiddle
	}
}

// String returns a summary of the person's balances.
func (p *Person) String() string {
	return fmt.Sprintf("Person(%d, wallet=%d, savings=%d, loans=%d)", p.ID, p.Wallet, p.Savings, p.Loans)
}
