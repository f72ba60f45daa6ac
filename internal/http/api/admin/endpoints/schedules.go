package endpoints

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/db"
	"github.com/bitquan/Stayboost-sub003/internal/http/api"
	"github.com/bitquan/Stayboost-sub003/internal/http/api/admin/packets"
	"github.com/bitquan/Stayboost-sub003/internal/http/middleware"
	"github.com/bitquan/Stayboost-sub003/internal/model"
	"github.com/bitquan/Stayboost-sub003/internal/schedule"
)

const upcomingLimit = 10

type ScheduleController struct {
	store db.Store
	now   func() time.Time
}

func NewScheduleController(store db.Store) *ScheduleController {
	return &ScheduleController{store: store, now: time.Now}
}

func ScheduleModule(store db.Store) api.Module {
	ctl := NewScheduleController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules", ctl.listSchedules)
		c.POST("/schedules", ctl.createSchedule)
		c.PUT("/schedules/:id", ctl.updateSchedule)
		c.DELETE("/schedules/:id", ctl.deleteSchedule)

		// resolution + audit views
		c.GET("/schedules/active", ctl.activeSchedule)
		c.GET("/schedules/:id/activations", ctl.listActivations)
	})
}

func (s *ScheduleController) listSchedules(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	all, err := s.store.ListSchedules(shop.Domain)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list schedules"}
	}

	now := s.now().UTC()
	active, err := s.store.ListActiveSchedules(shop.Domain)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list active schedules"}
	}
	resolution, err := schedule.ResolveActive(active, now)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to resolve active schedule"}
	}

	upcoming, err := s.store.ListUpcomingSchedules(shop.Domain, now, upcomingLimit)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list upcoming schedules"}
	}

	response := packets.ScheduleListResponse{
		Schedules:         packets.NewScheduleResponses(all),
		ActiveSchedules:   []packets.ScheduleResponse{},
		UpcomingSchedules: packets.NewScheduleResponses(upcoming),
	}
	if resolution != nil {
		winner := packets.NewScheduleResponse(resolution.Schedule)
		response.ActiveSchedule = &winner
		response.ActiveSchedules = packets.NewScheduleResponses(resolution.Candidates)
	}
	return response, nil
}

func (s *ScheduleController) createSchedule(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	var request packets.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if err := schedule.ValidateWindow(request.StartDate, request.EndDate); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "end_date must not precede start_date"}
	}

	if _, err := s.store.GetTemplate(shop.Domain, request.TemplateID); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "template not found"}
	}

	candidate := model.Schedule{
		Shop:               shop.Domain,
		TemplateID:         request.TemplateID,
		Name:               request.Name,
		CampaignType:       request.CampaignType,
		ScheduleType:       request.ScheduleType,
		StartDate:          request.StartDate.UTC(),
		EndDate:            request.EndDate,
		Timezone:           request.Timezone,
		Priority:           request.Priority,
		IsActive:           true,
		ConflictResolution: request.ConflictResolution,
		AutoActivate:       request.AutoActivate,
		Metadata:           request.Metadata,
	}
	if candidate.ConflictResolution == "" {
		candidate.ConflictResolution = model.ResolutionHigherPriority
	}
	if candidate.Timezone == "" {
		candidate.Timezone = "UTC"
	}

	// Overlap is advisory: compute warnings against the active set, then
	// create regardless.
	conflicts, apiErr := s.findConflicts(shop.Domain, candidate, 0)
	if apiErr != nil {
		return nil, apiErr
	}

	created, err := s.store.CreateSchedule(candidate)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create schedule"}
	}

	now := s.now().UTC()
	if schedule.ActivationDue(created, now) {
		if _, err := schedule.RecordActivation(s.store, created, now); err != nil {
			log.Error().Err(err).Int("schedule_id", created.ID).Msg("immediate activation failed")
		}
	}

	middleware.PublishShopUpdate(shop.Domain, "schedule")

	return packets.ScheduleMutationResponse{
		Schedule:  packets.NewScheduleResponse(created),
		Conflicts: packets.NewConflictWarnings(conflicts),
	}, nil
}

func (s *ScheduleController) updateSchedule(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	current, err := s.store.GetSchedule(shop.Domain, id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "schedule not found"}
	}

	var request packets.UpdateScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	updated := applyScheduleUpdate(current, request)
	if err := schedule.ValidateWindow(updated.StartDate, updated.EndDate); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "end_date must not precede start_date"}
	}
	if updated.TemplateID != current.TemplateID {
		if _, err := s.store.GetTemplate(shop.Domain, updated.TemplateID); err != nil {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "template not found"}
		}
	}

	conflicts, apiErr := s.findConflicts(shop.Domain, updated, id)
	if apiErr != nil {
		return nil, apiErr
	}

	saved, err := s.store.UpdateSchedule(updated)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "schedule not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update schedule"}
	}

	middleware.PublishShopUpdate(shop.Domain, "schedule")

	return packets.ScheduleMutationResponse{
		Schedule:  packets.NewScheduleResponse(saved),
		Conflicts: packets.NewConflictWarnings(conflicts),
	}, nil
}

func (s *ScheduleController) deleteSchedule(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	if _, err := s.store.GetSchedule(shop.Domain, id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "schedule not found"}
	}

	// activations cascade with the schedule
	if err := s.store.DeleteSchedule(shop.Domain, id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete schedule"}
	}

	middleware.PublishShopUpdate(shop.Domain, "schedule")

	return gin.H{"message": "deleted"}, nil
}

// GET /schedules/active?at=RFC3339 resolves the single active schedule at an
// instant (defaults to now).
func (s *ScheduleController) activeSchedule(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	var query packets.ActiveScheduleQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	at := s.now().UTC()
	if query.At != nil {
		at = query.At.UTC()
	}

	active, err := s.store.ListActiveSchedules(shop.Domain)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list active schedules"}
	}
	resolution, err := schedule.ResolveActive(active, at)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to resolve active schedule"}
	}

	response := packets.ResolutionResponse{At: at.Format(time.RFC3339)}
	if resolution != nil {
		winner := packets.NewScheduleResponse(resolution.Schedule)
		response.ActiveSchedule = &winner
		response.Candidates = packets.NewScheduleResponses(resolution.Candidates)
		response.Merged = packets.NewScheduleResponses(resolution.Merged)
	}
	return response, nil
}

func (s *ScheduleController) listActivations(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	if _, err := s.store.GetSchedule(shop.Domain, id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "schedule not found"}
	}

	activations, err := s.store.ListActivations(shop.Domain, id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list activations"}
	}
	if activations == nil {
		activations = []model.Activation{}
	}
	return activations, nil
}

func (s *ScheduleController) findConflicts(shop string, candidate model.Schedule, excludeID int) ([]model.Schedule, *api.APIError) {
	active, err := s.store.ListActiveSchedules(shop)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list active schedules"}
	}
	conflicts, err := schedule.FindConflicts(active, candidate, excludeID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "end_date must not precede start_date"}
	}
	return conflicts, nil
}

func applyScheduleUpdate(current model.Schedule, request packets.UpdateScheduleRequest) model.Schedule {
	out := current
	if request.TemplateID != nil {
		out.TemplateID = *request.TemplateID
	}
	if request.Name != nil {
		out.Name = *request.Name
	}
	if request.CampaignType != nil {
		out.CampaignType = *request.CampaignType
	}
	if request.ScheduleType != nil {
		out.ScheduleType = *request.ScheduleType
	}
	if request.StartDate != nil {
		out.StartDate = request.StartDate.UTC()
	}
	if request.ClearEndDate {
		out.EndDate = nil
	} else if request.EndDate != nil {
		out.EndDate = request.EndDate
	}
	if request.Timezone != nil {
		out.Timezone = *request.Timezone
	}
	if request.Priority != nil {
		out.Priority = *request.Priority
	}
	if request.IsActive != nil {
		out.IsActive = *request.IsActive
	}
	if request.AutoActivate != nil {
		out.AutoActivate = *request.AutoActivate
	}
	if request.ConflictResolution != nil {
		out.ConflictResolution = *request.ConflictResolution
	}
	if request.Metadata != nil {
		out.Metadata = request.Metadata
	}
	return out
}
