package model

import (
	"encoding/json"
	"time"
)

// Conflict resolution strategies a schedule may declare against overlapping peers.
const (
	ResolutionHigherPriority = "higher_priority"
	ResolutionLatest         = "latest"
	ResolutionFirst          = "first"
	ResolutionMerge          = "merge"
)

type Schedule struct {
	ID                 int             `db:"id" json:"id"`
	Shop               string          `db:"shop" json:"shop"`
	TemplateID         int             `db:"template_id" json:"template_id"`
	Name               string          `db:"name" json:"name"`
	CampaignType       string          `db:"campaign_type" json:"campaign_type"`
	ScheduleType       string          `db:"schedule_type" json:"schedule_type"`
	StartDate          time.Time       `db:"start_date" json:"start_date"`
	EndDate            *time.Time      `db:"end_date" json:"end_date"`
	Timezone           string          `db:"timezone" json:"timezone"`
	Priority           int             `db:"priority" json:"priority"`
	IsActive           bool            `db:"is_active" json:"is_active"`
	ConflictResolution string          `db:"conflict_resolution" json:"conflict_resolution"`
	AutoActivate       bool            `db:"auto_activate" json:"auto_activate"`
	Metadata           json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// Activation is an append-only audit record of a schedule entering its window.
type Activation struct {
	ID             int             `db:"id" json:"id"`
	ScheduleID     int             `db:"schedule_id" json:"schedule_id"`
	ActivationTime time.Time       `db:"activation_time" json:"activation_time"`
	Status         string          `db:"status" json:"status"`
	ActivationData json.RawMessage `db:"activation_data" json:"activation_data"`
}
