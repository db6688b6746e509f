package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// StringSlice stores a []string as a jsonb column.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *StringSlice) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, (*[]string)(s))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(s))
	}
	return errors.Errorf("cannot scan %T into StringSlice", src)
}

type Review struct {
	BaseModel
	UserID    string      `db:"user_id" json:"user_id"`
	ProductID string      `db:"product_id" json:"product_id"`
	Rating    int         `db:"rating" json:"rating"`
	Comment   *string     `db:"comment" json:"comment"`
	Images    StringSlice `db:"images" json:"images"`
}
