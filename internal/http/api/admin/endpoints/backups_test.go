package endpoints_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitquan/Stayboost-sub003/internal/db"
	"github.com/bitquan/Stayboost-sub003/internal/http/api"
	"github.com/bitquan/Stayboost-sub003/internal/http/api/admin/endpoints"
	"github.com/bitquan/Stayboost-sub003/internal/model"
	"github.com/bitquan/Stayboost-sub003/internal/storage"
)

func setupBackupRouter(t *testing.T, store db.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: testSecret,
		Store:     store,
	},
		endpoints.BackupModule(store, storage.NewLocalStorage(t.TempDir())),
	)
	return r
}

func TestBackupRoundTrip(t *testing.T) {
	store, auth := newAuthedStore(t)
	r := setupBackupRouter(t, store)

	_, err := store.UpsertPopupSettings(model.PopupSettings{
		Shop:    testShop,
		Enabled: true,
		Title:   "Wait! Don't leave yet!",
	})
	require.NoError(t, err)
	tpl := createTemplate(t, store)

	end := time.Now().UTC().AddDate(0, 0, 7)
	sched, err := store.CreateSchedule(model.Schedule{
		Shop:               testShop,
		TemplateID:         tpl.ID,
		Name:               "spring sale",
		StartDate:          time.Now().UTC(),
		EndDate:            &end,
		Timezone:           "UTC",
		IsActive:           true,
		ConflictResolution: model.ResolutionHigherPriority,
	})
	require.NoError(t, err)

	test, err := store.CreateABTest(testShop, "headline test")
	require.NoError(t, err)
	_, err = store.AddABVariant(test.ID, "control", tpl.ID, 50)
	require.NoError(t, err)
	require.NoError(t, store.UpdateABTestStatus(testShop, test.ID, model.ABTestRunning))

	w := doJSON(t, r, http.MethodPost, "/api/admin/backups", auth, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var backup struct {
		ID        string `json:"id"`
		SizeBytes int64  `json:"size_bytes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &backup))
	assert.NotEmpty(t, backup.ID)
	assert.Positive(t, backup.SizeBytes)

	// wipe the shop's configuration, then restore it from the backup
	require.NoError(t, store.DeleteSchedule(testShop, sched.ID))
	require.NoError(t, store.DeleteTemplate(testShop, tpl.ID))
	require.NoError(t, store.DeleteABTest(testShop, test.ID))

	w = doJSON(t, r, http.MethodPost, "/api/admin/backups/"+backup.ID+"/restore", auth, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var restored struct {
		Templates int `json:"templates"`
		Schedules int `json:"schedules"`
		ABTests   int `json:"ab_tests"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &restored))
	assert.Equal(t, 1, restored.Templates)
	assert.Equal(t, 1, restored.Schedules)
	assert.Equal(t, 1, restored.ABTests)

	templates, err := store.ListTemplates(testShop)
	require.NoError(t, err)
	require.Len(t, templates, 1)

	schedules, err := store.ListSchedules(testShop)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "spring sale", schedules[0].Name)
	assert.Equal(t, templates[0].ID, schedules[0].TemplateID, "restored schedule points at the restored template")

	tests, err := store.ListABTests(testShop)
	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.Equal(t, model.ABTestPaused, tests[0].Status, "restored running test comes back paused")

	variants, err := store.ListABVariants(tests[0].ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, templates[0].ID, variants[0].TemplateID)
}

func TestRestoreUnknownBackup(t *testing.T) {
	store, auth := newAuthedStore(t)
	r := setupBackupRouter(t, store)

	w := doJSON(t, r, http.MethodPost, "/api/admin/backups/nope/restore", auth, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBackupsEmpty(t *testing.T) {
	store, auth := newAuthedStore(t)
	r := setupBackupRouter(t, store)

	w := doJSON(t, r, http.MethodGet, "/api/admin/backups", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}
