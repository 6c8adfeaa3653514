package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is an exact decimal amount. It is written to MongoDB as Decimal128
// and read back from Decimal128, double or integer fields, so sums produced
// by $sum decode regardless of how the source documents were stored.
type Money struct {
	decimal.Decimal
}

func NewMoney(v float64) Money   { return Money{decimal.NewFromFloat(v)} }
func MoneyFromInt(v int64) Money { return Money{decimal.NewFromInt(v)} }

func (m Money) Add(o Money) Money  { return Money{m.Decimal.Add(o.Decimal)} }
func (m Money) Equal(o Money) bool { return m.Decimal.Equal(o.Decimal) }

// Display renders the amount with two decimal places.
func (m Money) Display() string { return m.Decimal.StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error) { return []byte(m.Decimal.String()), nil }

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d, err := primitive.ParseDecimal128(m.Decimal.String())
	if err != nil {
		return 0, nil, fmt.Errorf("money %s: %w", m.Decimal.String(), err)
	}
	return bson.MarshalValue(d)
}

func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Decimal128:
		d, err := decimal.NewFromString(rv.Decimal128().String())
		if err != nil {
			return fmt.Errorf("money: %w", err)
		}
		m.Decimal = d
	case bsontype.Double:
		m.Decimal = decimal.NewFromFloat(rv.Double())
	case bsontype.Int32:
		m.Decimal = decimal.NewFromInt32(rv.Int32())
	case bsontype.Int64:
		m.Decimal = decimal.NewFromInt(rv.Int64())
	case bsontype.Null, bsontype.Undefined:
		m.Decimal = decimal.Zero
	default:
		return fmt.Errorf("money: cannot decode bson type %s", t)
	}
	return nil
}
