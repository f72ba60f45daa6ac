package packets

import (
	"encoding/json"
	"time"
)

type PopupQuery struct {
	Shop    string `form:"shop" binding:"required"`
	Visitor string `form:"visitor"`
}

type RecordEventRequest struct {
	Shop       string `json:"shop" binding:"required"`
	EventType  string `json:"event_type" binding:"required,oneof=impression conversion dismissal"`
	TemplateID *int   `json:"template_id"`
	VisitorID  string `json:"visitor_id"`
}

// PopupResponse is what the widget script renders from. Template and variant
// are omitted when no schedule is active.
type PopupResponse struct {
	Enabled            bool             `json:"enabled"`
	Suppressed         bool             `json:"suppressed,omitempty"` // frequency cap hit
	Title              string           `json:"title,omitempty"`
	Message            string           `json:"message,omitempty"`
	DiscountCode       string           `json:"discount_code,omitempty"`
	DiscountPercentage int              `json:"discount_percentage,omitempty"`
	DelaySeconds       int              `json:"delay_seconds,omitempty"`
	Template           *TemplatePayload `json:"template,omitempty"`
	ABVariant          string           `json:"ab_variant,omitempty"`
}

type TemplatePayload struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Config   json.RawMessage `json:"config"`
}

type EventAck struct {
	Recorded   bool      `json:"recorded"`
	OccurredAt time.Time `json:"occurred_at"`
}
