package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code.
type Currency string

const (
	BDT Currency = "BDT" // Bangladeshi Taka (default)
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	INR Currency = "INR" // Indian Rupee
)

// DefaultCurrency is assumed wherever a currency is not stated explicitly,
// such as database columns that store the bare amount.
const DefaultCurrency = BDT

// Money is an immutable amount in a single currency. Every operation
// returns a new value; arithmetic across currencies is an error.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney pairs an amount with a currency.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromFloat converts a float64 amount. Intended for test fixtures
// and config values; wire and storage values should come in as strings.
func NewMoneyFromFloat(amount float64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// NewMoneyFromString parses a decimal string amount.
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// NewMoneyBDT wraps an amount in the default currency.
func NewMoneyBDT(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: BDT}
}

// NewMoneyBDTFromFloat converts a float64 amount in the default currency.
func NewMoneyBDTFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount), currency: BDT}
}

// NewMoneyBDTFromString parses a decimal string amount in the default
// currency.
func NewMoneyBDTFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return Money{amount: d, currency: BDT}, nil
}

// Zero returns a zero amount in the given currency.
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// ZeroBDT returns a zero amount in the default currency.
func ZeroBDT() Money {
	return Zero(BDT)
}

// withAmount keeps the currency and swaps the amount.
func (m Money) withAmount(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: m.currency}
}

// sameCurrency guards cross-currency arithmetic and comparison.
func (m Money) sameCurrency(other Money, op string) error {
	if m.currency != other.currency {
		return fmt.Errorf("cannot %s money with different currencies: %s and %s", op, m.currency, other.currency)
	}
	return nil
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency code.
func (m Money) Currency() Currency { return m.currency }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other, "add"); err != nil {
		return Money{}, err
	}
	return m.withAmount(m.amount.Add(other.amount)), nil
}

// MustAdd is Add for callers that have already checked the currency.
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract takes other from m; both must share a currency.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other, "subtract"); err != nil {
		return Money{}, err
	}
	return m.withAmount(m.amount.Sub(other.amount)), nil
}

// MustSubtract is Subtract for callers that have already checked the
// currency.
func (m Money) MustSubtract(other Money) Money {
	result, err := m.Subtract(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Multiply scales the amount by factor.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return m.withAmount(m.amount.Mul(factor))
}

// Divide splits the amount by divisor.
func (m Money) Divide(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, errors.New("cannot divide by zero")
	}
	return m.withAmount(m.amount.Div(divisor)), nil
}

// Negate flips the sign.
func (m Money) Negate() Money {
	return m.withAmount(m.amount.Neg())
}

// Abs drops the sign.
func (m Money) Abs() Money {
	return m.withAmount(m.amount.Abs())
}

// Round rounds half away from zero to the given decimal places.
func (m Money) Round(places int32) Money {
	return m.withAmount(m.amount.Round(places))
}

// Equals reports whether amount and currency both match.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// LessThan compares two amounts of the same currency.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.sameCurrency(other, "compare"); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

// GreaterThan compares two amounts of the same currency.
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.sameCurrency(other, "compare"); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

// GreaterThanOrEqual compares two amounts of the same currency.
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if err := m.sameCurrency(other, "compare"); err != nil {
		return false, err
	}
	return m.amount.GreaterThanOrEqual(other.amount), nil
}

// String renders "12345.00 BDT".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// StringFixed renders the bare amount with fixed decimal places.
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

// MarshalJSON renders the amount as a string to keep decimal precision
// across the wire.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:   m.amount.String(),
		Currency: m.currency,
	})
}

// UnmarshalJSON accepts {"amount":"...","currency":"..."}; an absent
// currency falls back to DefaultCurrency.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	m.amount = amount
	m.currency = v.Currency
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}

// Value stores the bare amount; the column is a numeric and the currency
// is implied by DefaultCurrency.
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan reads the bare amount back. The currency defaults to
// DefaultCurrency unless the receiver already carries one.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		m.currency = DefaultCurrency
		return nil
	}

	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}

// Allocate splits the amount into n installment parts of at most two
// decimal places each. Whole remainder cents are spread over the leading
// parts; any sub-cent residue, from an amount carrying more than two
// decimals, lands in the last part. The parts always sum back to the
// original amount; nothing is silently lost to rounding.
func (m Money) Allocate(parts int) ([]Money, error) {
	if parts <= 0 {
		return nil, errors.New("parts must be positive")
	}
	if parts == 1 {
		return []Money{m}, nil
	}

	n := decimal.NewFromInt(int64(parts))
	base := m.amount.Div(n).Truncate(2)
	remainder := m.amount.Sub(base.Mul(n))
	remainderCents := remainder.Mul(decimal.NewFromInt(100)).IntPart()

	cent := decimal.NewFromFloat(0.01)
	result := make([]Money, parts)
	assigned := decimal.Zero
	for i := range parts {
		amount := base
		if int64(i) < remainderCents {
			amount = amount.Add(cent)
		}
		assigned = assigned.Add(amount)
		result[i] = m.withAmount(amount)
	}

	if residue := m.amount.Sub(assigned); !residue.IsZero() {
		last := parts - 1
		result[last] = m.withAmount(result[last].amount.Add(residue))
	}
	return result, nil
}

// CalculatePercentage returns percent% of the amount, used for refund
// deduction rates.
func (m Money) CalculatePercentage(percent decimal.Decimal) Money {
	return m.withAmount(m.amount.Mul(percent).Div(decimal.NewFromInt(100)))
}
