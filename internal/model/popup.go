package model

import "time"

// PopupSettings is the per-shop widget configuration (one row per shop).
type PopupSettings struct {
	ID                 int       `db:"id" json:"id"`
	Shop               string    `db:"shop" json:"shop"`
	Enabled            bool      `db:"enabled" json:"enabled"`
	Title              string    `db:"title" json:"title"`
	Message            string    `db:"message" json:"message"`
	DiscountCode       string    `db:"discount_code" json:"discount_code"`
	DiscountPercentage int       `db:"discount_percentage" json:"discount_percentage"`
	DelaySeconds       int       `db:"delay_seconds" json:"delay_seconds"`
	ShowOnce           bool      `db:"show_once" json:"show_once"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
