package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ModifierSelection is one chosen modifier on a cart or order line. The price
// adjustment is per unit of the parent line and may be negative.
type ModifierSelection struct {
	GroupID         uuid.UUID  `json:"group_id"`
	GroupName       string     `json:"group_name"`
	ModifierID      uuid.UUID  `json:"modifier_id"`
	ModifierName    string     `json:"modifier_name"`
	PriceAdjustment Money      `json:"price_adjustment"`
	InventoryRef    *uuid.UUID `json:"inventory_ref,omitempty"`
	Quantity        int        `json:"quantity"`
}

// ModifierSelections is a slice persisted as JSONB.
type ModifierSelections []ModifierSelection

// Value serializes the selections to JSON.
func (s ModifierSelections) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan decodes JSONB into the selection slice.
func (s *ModifierSelections) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded ModifierSelections
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*s = decoded
	return nil
}

// AddonSelection is an attached addon, priced and quantified independently of
// the parent line quantity.
type AddonSelection struct {
	AddonID      uuid.UUID  `json:"addon_id"`
	Name         string     `json:"name"`
	UnitPrice    Money      `json:"unit_price"`
	Quantity     int        `json:"quantity"`
	InventoryRef *uuid.UUID `json:"inventory_ref,omitempty"`
}

// AddonSelections is a slice persisted as JSONB.
type AddonSelections []AddonSelection

// Value serializes the selections to JSON.
func (s AddonSelections) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan decodes JSONB into the selection slice.
func (s *AddonSelections) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded AddonSelections
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*s = decoded
	return nil
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
