package model

import "time"

// Popup event types accepted from the storefront widget.
const (
	EventImpression = "impression"
	EventConversion = "conversion"
	EventDismissal  = "dismissal"
)

type PopupEvent struct {
	ID         int       `db:"id" json:"id"`
	Shop       string    `db:"shop" json:"shop"`
	EventType  string    `db:"event_type" json:"event_type"`
	TemplateID *int      `db:"template_id" json:"template_id,omitempty"`
	VisitorID  string    `db:"visitor_id" json:"visitor_id"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}

type DailyStat struct {
	Day         time.Time `db:"day" json:"day"`
	Impressions int       `db:"impressions" json:"impressions"`
	Conversions int       `db:"conversions" json:"conversions"`
	Dismissals  int       `db:"dismissals" json:"dismissals"`
}
