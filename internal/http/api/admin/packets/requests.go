package packets

import (
	"encoding/json"
	"time"
)

type UpdatePopupSettingsRequest struct {
	Enabled            *bool   `json:"enabled"`
	Title              *string `json:"title"`
	Message            *string `json:"message"`
	DiscountCode       *string `json:"discount_code"`
	DiscountPercentage *int    `json:"discount_percentage" binding:"omitempty,min=0,max=100"`
	DelaySeconds       *int    `json:"delay_seconds" binding:"omitempty,min=0"`
	ShowOnce           *bool   `json:"show_once"`
}

type CreateTemplateRequest struct {
	Name     string          `json:"name" binding:"required"`
	Category string          `json:"category"`
	Config   json.RawMessage `json:"config"`
}

type UpdateTemplateRequest struct {
	Name     *string         `json:"name"`
	Category *string         `json:"category"`
	Config   json.RawMessage `json:"config"`
}

type CreateScheduleRequest struct {
	TemplateID         int             `json:"template_id" binding:"required"`
	Name               string          `json:"name" binding:"required"`
	CampaignType       string          `json:"campaign_type"`
	ScheduleType       string          `json:"schedule_type"`
	StartDate          time.Time       `json:"start_date" binding:"required"` // RFC3339, UTC
	EndDate            *time.Time      `json:"end_date,omitempty"`
	Timezone           string          `json:"timezone"`
	Priority           int             `json:"priority,omitempty"`
	AutoActivate       bool            `json:"auto_activate"`
	ConflictResolution string          `json:"conflict_resolution" binding:"omitempty,oneof=higher_priority latest first merge"`
	Metadata           json.RawMessage `json:"metadata,omitempty"`
}

type UpdateScheduleRequest struct {
	TemplateID         *int            `json:"template_id"`
	Name               *string         `json:"name"`
	CampaignType       *string         `json:"campaign_type"`
	ScheduleType       *string         `json:"schedule_type"`
	StartDate          *time.Time      `json:"start_date"`
	EndDate            *time.Time      `json:"end_date"`
	ClearEndDate       bool            `json:"clear_end_date"` // set true to make the window open-ended
	Timezone           *string         `json:"timezone"`
	Priority           *int            `json:"priority"`
	IsActive           *bool           `json:"is_active"`
	AutoActivate       *bool           `json:"auto_activate"`
	ConflictResolution *string         `json:"conflict_resolution" binding:"omitempty,oneof=higher_priority latest first merge"`
	Metadata           json.RawMessage `json:"metadata"`
}

type ActiveScheduleQuery struct {
	At *time.Time `form:"at"` // defaults to now
}

type CreateABTestRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateABTestStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft running paused completed"`
}

type AddABVariantRequest struct {
	Name       string `json:"name" binding:"required"`
	TemplateID int    `json:"template_id" binding:"required"`
	Weight     int    `json:"weight" binding:"required,min=1"`
}

type StatsQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}
