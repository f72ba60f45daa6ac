package model

import "time"

type Backup struct {
	ID        string    `db:"id" json:"id"`
	Shop      string    `db:"shop" json:"shop"`
	Filename  string    `db:"filename" json:"filename"`
	SizeBytes int64     `db:"size_bytes" json:"size_bytes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
