package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bitquan/Stayboost-sub003/internal/db"
	"github.com/bitquan/Stayboost-sub003/internal/http/api"
	"github.com/bitquan/Stayboost-sub003/internal/model"
	"github.com/bitquan/Stayboost-sub003/internal/storage"
)

type BackupController struct {
	store   db.Store
	storage storage.Storage
	now     func() time.Time
}

func NewBackupController(store db.Store, storageSystem storage.Storage) *BackupController {
	return &BackupController{store: store, storage: storageSystem, now: time.Now}
}

func BackupModule(store db.Store, storageSystem storage.Storage) api.Module {
	ctl := NewBackupController(store, storageSystem)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/backups", ctl.listBackups)
		c.POST("/backups", ctl.createBackup)
		c.POST("/backups/:id/restore", ctl.restoreBackup)
	})
}

// backupPayload is the exported snapshot of a shop's configuration.
type backupPayload struct {
	Shop      string               `json:"shop"`
	CreatedAt time.Time            `json:"created_at"`
	Settings  *model.PopupSettings `json:"settings,omitempty"`
	Templates []model.Template     `json:"templates"`
	Schedules []model.Schedule     `json:"schedules"`
	ABTests   []abTestBackup       `json:"ab_tests"`
}

// abTestBackup carries a test with its variants inline; variant template ids
// are remapped on restore the same way schedule template ids are.
type abTestBackup struct {
	Name     string            `json:"name"`
	Status   string            `json:"status"`
	Variants []model.ABVariant `json:"variants"`
}

func (b *BackupController) listBackups(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	backups, err := b.store.ListBackups(shop.Domain)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list backups"}
	}
	if backups == nil {
		backups = []model.Backup{}
	}
	return backups, nil
}

func (b *BackupController) createBackup(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	payload := backupPayload{Shop: shop.Domain, CreatedAt: b.now().UTC()}

	settings, err := b.store.GetPopupSettings(shop.Domain)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load settings"}
	}
	if err == nil {
		payload.Settings = &settings
	}

	if payload.Templates, err = b.store.ListTemplates(shop.Domain); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load templates"}
	}
	if payload.Schedules, err = b.store.ListSchedules(shop.Domain); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load schedules"}
	}

	tests, err := b.store.ListABTests(shop.Domain)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load ab tests"}
	}
	for _, test := range tests {
		variants, err := b.store.ListABVariants(test.ID)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load ab variants"}
		}
		payload.ABTests = append(payload.ABTests, abTestBackup{
			Name:     test.Name,
			Status:   test.Status,
			Variants: variants,
		})
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not serialize backup"}
	}

	id := uuid.NewString()
	filename := fmt.Sprintf("%s_%s.json", shop.Domain, id)
	location, err := b.storage.SaveBackup(data, filename)
	if err != nil {
		log.Error().Err(err).Str("shop", shop.Domain).Msg("backup write failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not write backup"}
	}

	record := model.Backup{
		ID:        id,
		Shop:      shop.Domain,
		Filename:  location,
		SizeBytes: int64(len(data)),
		CreatedAt: payload.CreatedAt,
	}
	if err := b.store.CreateBackup(record); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not record backup"}
	}
	return record, nil
}

func (b *BackupController) restoreBackup(ctx *gin.Context, shop *model.Shop) (any, *api.APIError) {
	record, err := b.store.GetBackup(shop.Domain, ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "backup not found"}
	}

	data, err := b.storage.ReadBackup(record.Filename)
	if err != nil {
		log.Error().Err(err).Str("backup_id", record.ID).Msg("backup read failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not read backup"}
	}

	var payload backupPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "backup is corrupt"}
	}

	if payload.Settings != nil {
		payload.Settings.Shop = shop.Domain
		if _, err := b.store.UpsertPopupSettings(*payload.Settings); err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not restore settings"}
		}
	}

	// templates get fresh ids; schedules are remapped onto them
	templateIDs := make(map[int]int, len(payload.Templates))
	for _, t := range payload.Templates {
		created, err := b.store.CreateTemplate(shop.Domain, t.Name, t.Category, t.Config)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not restore templates"}
		}
		templateIDs[t.ID] = created.ID
	}

	restored := 0
	for _, sc := range payload.Schedules {
		newTemplateID, ok := templateIDs[sc.TemplateID]
		if !ok {
			log.Warn().Int("schedule_id", sc.ID).Int("template_id", sc.TemplateID).
				Msg("skipping schedule whose template is missing from backup")
			continue
		}
		sc.Shop = shop.Domain
		sc.TemplateID = newTemplateID
		if _, err := b.store.CreateSchedule(sc); err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not restore schedules"}
		}
		restored++
	}

	restoredTests := 0
	for _, tb := range payload.ABTests {
		created, err := b.store.CreateABTest(shop.Domain, tb.Name)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not restore ab tests"}
		}
		for _, v := range tb.Variants {
			newTemplateID, ok := templateIDs[v.TemplateID]
			if !ok {
				log.Warn().Str("test", tb.Name).Int("template_id", v.TemplateID).
					Msg("skipping variant whose template is missing from backup")
				continue
			}
			if _, err := b.store.AddABVariant(created.ID, v.Name, newTemplateID, v.Weight); err != nil {
				return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not restore ab variants"}
			}
		}
		// restored tests come back paused, never silently taking traffic
		if tb.Status == model.ABTestRunning {
			if err := b.store.UpdateABTestStatus(shop.Domain, created.ID, model.ABTestPaused); err != nil {
				return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not restore ab tests"}
			}
		} else if tb.Status != model.ABTestDraft {
			if err := b.store.UpdateABTestStatus(shop.Domain, created.ID, tb.Status); err != nil {
				return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not restore ab tests"}
			}
		}
		restoredTests++
	}

	return gin.H{
		"message":   "restored",
		"templates": len(templateIDs),
		"schedules": restored,
		"ab_tests":  restoredTests,
	}, nil
}
