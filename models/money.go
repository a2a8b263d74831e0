package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Money is an amount in minor units (paise).
type Money int64

// FromRupees converts a rupee amount to Money, rounding to the nearest paisa.
func FromRupees(rupees float64) Money {
	return Money(math.Round(rupees * 100))
}

// Rupees returns the amount as a rupee value.
func (m Money) Rupees() float64 {
	return float64(m) / 100
}

// Times multiplies the amount by a quantity.
func (m Money) Times(qty int) Money {
	return m * Money(qty)
}

func (m Money) String() string {
	return "₹" + strconv.FormatFloat(m.Rupees(), 'f', 2, 64)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Rupees(), 'f', -1, 64)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = FromRupees(v)
	return nil
}

// Price is a product price as it arrives from a JSON document. Cart snapshots
// are not validated anywhere, so a price may be missing, null or a string;
// those decode without error and are reported as invalid.
type Price struct {
	Amount Money
	Valid  bool
}

// NewPrice returns a valid price of the given rupee amount.
func NewPrice(rupees float64) Price {
	return Price{Amount: FromRupees(rupees), Valid: true}
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return p.Amount.MarshalJSON()
}

func (p *Price) UnmarshalJSON(data []byte) error {
	*p = Price{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == 'n' || data[0] == '"' || data[0] == '{' || data[0] == '[' || data[0] == 't' || data[0] == 'f' {
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*p = NewPrice(v)
	return nil
}
