package model

import "time"

type Shop struct {
	ID           int       `db:"id" json:"id"`
	Domain       string    `db:"domain" json:"domain"`
	HashedSecret string    `db:"hashed_secret" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
