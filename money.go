package stonks

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a quoted price in its trading currency.
type Money struct {
	value *money.Money
}

// NewMoney creates a Money from a decimal amount and an ISO 4217 currency
// code. An unknown currency yields the zero Money.
func NewMoney(amount decimal.Decimal, currency string) Money {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return Money{}
	}

	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	amount = amount.Mul(factor)
	return Money{money.New(amount.IntPart(), currency)}
}

func NewMoneyFromFloat(amount float64, currency string) Money {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// String returns the display form, e.g. "$192.53".
func (m Money) String() string {
	if m.value == nil {
		return ""
	}
	return m.value.Display()
}

// Currency returns the ISO 4217 code, or "" for the zero Money.
func (m Money) Currency() string {
	if m.value == nil {
		return ""
	}
	return m.value.Currency().Code
}

// IsZero reports whether m carries no value.
func (m Money) IsZero() bool { return m.value == nil || m.value.Amount() == 0 }
