package model

import (
	"encoding/json"
	"time"
)

type Template struct {
	ID        int             `db:"id" json:"id"`
	Shop      string          `db:"shop" json:"shop"`
	Name      string          `db:"name" json:"name"`
	Category  string          `db:"category" json:"category"`
	Config    json.RawMessage `db:"config" json:"config"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
