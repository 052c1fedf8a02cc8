package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OrderItem is a single line in a purchase order's item mapping.
type OrderItem struct {
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ItemMap maps item name to quantity/price. Stored as JSONB.
type ItemMap map[string]OrderItem

// Value implements driver.Valuer so ItemMap can be written to a jsonb column.
func (m ItemMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for reading a jsonb column.
func (m *ItemMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported items column type %T", src)
	}

	return json.Unmarshal(data, m)
}
