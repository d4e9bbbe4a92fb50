package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Landmark is one named anatomical point detected by the model.
// Coordinates are normalized to [0,1] in image space: x grows to the
// right, y grows downward. Pixel conversion happens only at render time.
type Landmark struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Landmarks is the ordered landmark list stored as a JSON column.
type Landmarks []Landmark

// Value implements driver.Valuer so gorm persists the list as JSON.
func (l Landmarks) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for reading the JSON column back.
func (l *Landmarks) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported landmarks column type %T", value)
	}
}
