package packets

import (
	"encoding/json"
	"time"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

// ScheduleResponse mirrors model.Schedule but flattens times to RFC3339.
type ScheduleResponse struct {
	ID                 int             `json:"id"`
	TemplateID         int             `json:"template_id"`
	Name               string          `json:"name"`
	CampaignType       string          `json:"campaign_type"`
	ScheduleType       string          `json:"schedule_type"`
	StartDate          string          `json:"start_date"`
	EndDate            *string         `json:"end_date"`
	Timezone           string          `json:"timezone"`
	Priority           int             `json:"priority"`
	IsActive           bool            `json:"is_active"`
	ConflictResolution string          `json:"conflict_resolution"`
	AutoActivate       bool            `json:"auto_activate"`
	Metadata           json.RawMessage `json:"metadata,omitempty"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

func NewScheduleResponse(s model.Schedule) ScheduleResponse {
	var end *string
	if s.EndDate != nil {
		v := s.EndDate.Format(time.RFC3339)
		end = &v
	}
	return ScheduleResponse{
		ID:                 s.ID,
		TemplateID:         s.TemplateID,
		Name:               s.Name,
		CampaignType:       s.CampaignType,
		ScheduleType:       s.ScheduleType,
		StartDate:          s.StartDate.Format(time.RFC3339),
		EndDate:            end,
		Timezone:           s.Timezone,
		Priority:           s.Priority,
		IsActive:           s.IsActive,
		ConflictResolution: s.ConflictResolution,
		AutoActivate:       s.AutoActivate,
		Metadata:           s.Metadata,
		CreatedAt:          s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          s.UpdatedAt.Format(time.RFC3339),
	}
}

func NewScheduleResponses(in []model.Schedule) []ScheduleResponse {
	out := make([]ScheduleResponse, 0, len(in))
	for _, s := range in {
		out = append(out, NewScheduleResponse(s))
	}
	return out
}

// ConflictWarning summarizes an overlapping peer; advisory only.
type ConflictWarning struct {
	ScheduleID int     `json:"schedule_id"`
	Name       string  `json:"name"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date"`
	Priority   int     `json:"priority"`
}

func NewConflictWarnings(in []model.Schedule) []ConflictWarning {
	out := make([]ConflictWarning, 0, len(in))
	for _, s := range in {
		var end *string
		if s.EndDate != nil {
			v := s.EndDate.Format(time.RFC3339)
			end = &v
		}
		out = append(out, ConflictWarning{
			ScheduleID: s.ID,
			Name:       s.Name,
			StartDate:  s.StartDate.Format(time.RFC3339),
			EndDate:    end,
			Priority:   s.Priority,
		})
	}
	return out
}

// ScheduleListResponse is the list payload: every schedule plus the derived
// active and upcoming views.
type ScheduleListResponse struct {
	Schedules         []ScheduleResponse `json:"schedules"`
	ActiveSchedule    *ScheduleResponse  `json:"active_schedule"`
	ActiveSchedules   []ScheduleResponse `json:"active_schedules"`
	UpcomingSchedules []ScheduleResponse `json:"upcoming_schedules"`
}

// ScheduleMutationResponse carries the written schedule plus overlap warnings.
type ScheduleMutationResponse struct {
	Schedule  ScheduleResponse  `json:"schedule"`
	Conflicts []ConflictWarning `json:"conflicts"`
}

type ResolutionResponse struct {
	At             string             `json:"at"`
	ActiveSchedule *ScheduleResponse  `json:"active_schedule"`
	Candidates     []ScheduleResponse `json:"candidates,omitempty"`
	Merged         []ScheduleResponse `json:"merged,omitempty"`
}

type ABTestResponse struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	Status    string            `json:"status"`
	Variants  []model.ABVariant `json:"variants"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

type StatsResponse struct {
	Days           int               `json:"days"`
	Impressions    int               `json:"impressions"`
	Conversions    int               `json:"conversions"`
	Dismissals     int               `json:"dismissals"`
	ConversionRate float64           `json:"conversion_rate"`
	Series         []model.DailyStat `json:"series"`
}
