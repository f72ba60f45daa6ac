package endpoints_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitquan/Stayboost-sub003/internal/db"
	"github.com/bitquan/Stayboost-sub003/internal/http/api"
	"github.com/bitquan/Stayboost-sub003/internal/http/api/storefront/endpoints"
	"github.com/bitquan/Stayboost-sub003/internal/model"
)

const testShop = "demo.myshopify.com"

func setupRouter(store db.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/storefront"},
		endpoints.StorefrontModule(store))
	return r
}

func seedShop(t *testing.T, store db.Store, enabled bool) {
	t.Helper()
	_, err := store.CreateShop(testShop, "hash")
	require.NoError(t, err)
	_, err = store.UpsertPopupSettings(model.PopupSettings{
		Shop:               testShop,
		Enabled:            enabled,
		Title:              "Wait! Don't leave yet!",
		Message:            "Get 10% off your first order",
		DiscountCode:       "SAVE10",
		DiscountPercentage: 10,
		DelaySeconds:       2,
	})
	require.NoError(t, err)
}

func seedActiveSchedule(t *testing.T, store db.Store) model.Template {
	t.Helper()
	tpl, err := store.CreateTemplate(testShop, "exit intent", "sale", []byte(`{"color":"#fff"}`))
	require.NoError(t, err)

	end := time.Now().UTC().AddDate(0, 0, 7)
	_, err = store.CreateSchedule(model.Schedule{
		Shop:               testShop,
		TemplateID:         tpl.ID,
		Name:               "live now",
		StartDate:          time.Now().UTC().Add(-time.Hour),
		EndDate:            &end,
		Timezone:           "UTC",
		IsActive:           true,
		ConflictResolution: model.ResolutionHigherPriority,
	})
	require.NoError(t, err)
	return tpl
}

func getPopup(t *testing.T, r *gin.Engine, url string) (int, popupPayload) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp popupPayload
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

type popupPayload struct {
	Enabled  bool   `json:"enabled"`
	Title    string `json:"title"`
	Template *struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"template"`
	ABVariant string `json:"ab_variant"`
}

func TestGetPopupMissingShopParam(t *testing.T) {
	r := setupRouter(db.NewMemStore())
	code, _ := getPopup(t, r, "/api/storefront/popup")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetPopupUnknownShopDisabled(t *testing.T) {
	r := setupRouter(db.NewMemStore())
	code, resp := getPopup(t, r, "/api/storefront/popup?shop=nobody.myshopify.com")
	require.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Enabled)
}

func TestGetPopupDisabledSettings(t *testing.T) {
	store := db.NewMemStore()
	seedShop(t, store, false)
	r := setupRouter(store)

	code, resp := getPopup(t, r, "/api/storefront/popup?shop="+testShop)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Enabled)
}

func TestGetPopupWithActiveSchedule(t *testing.T) {
	store := db.NewMemStore()
	seedShop(t, store, true)
	tpl := seedActiveSchedule(t, store)
	r := setupRouter(store)

	code, resp := getPopup(t, r, "/api/storefront/popup?shop="+testShop)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Enabled)
	assert.Equal(t, "Wait! Don't leave yet!", resp.Title)
	require.NotNil(t, resp.Template)
	assert.Equal(t, tpl.ID, resp.Template.ID)
	assert.Empty(t, resp.ABVariant)
}

func TestGetPopupNoActiveScheduleStillShows(t *testing.T) {
	store := db.NewMemStore()
	seedShop(t, store, true)
	r := setupRouter(store)

	code, resp := getPopup(t, r, "/api/storefront/popup?shop="+testShop)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Enabled)
	assert.Nil(t, resp.Template)
}

func TestGetPopupRunningABTestOverridesTemplate(t *testing.T) {
	store := db.NewMemStore()
	seedShop(t, store, true)
	seedActiveSchedule(t, store)

	variantTpl, err := store.CreateTemplate(testShop, "challenger", "sale", []byte(`{}`))
	require.NoError(t, err)
	test, err := store.CreateABTest(testShop, "headline test")
	require.NoError(t, err)
	_, err = store.AddABVariant(test.ID, "challenger", variantTpl.ID, 100)
	require.NoError(t, err)
	require.NoError(t, store.UpdateABTestStatus(testShop, test.ID, model.ABTestRunning))

	r := setupRouter(store)

	// single variant at weight 100: every visitor lands on it
	code, resp := getPopup(t, r, "/api/storefront/popup?shop="+testShop+"&visitor=v-123")
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, resp.Template)
	assert.Equal(t, variantTpl.ID, resp.Template.ID)
	assert.Equal(t, "challenger", resp.ABVariant)

	// no visitor id: the scheduled template wins, no assignment happens
	code, resp = getPopup(t, r, "/api/storefront/popup?shop="+testShop)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, resp.Template)
	assert.NotEqual(t, variantTpl.ID, resp.Template.ID)
}

func TestRecordEvent(t *testing.T) {
	store := db.NewMemStore()
	seedShop(t, store, true)
	r := setupRouter(store)

	body, err := json.Marshal(map[string]any{
		"shop":       testShop,
		"event_type": model.EventImpression,
		"visitor_id": "v-123",
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, "/api/storefront/events", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var ack struct {
		Recorded bool `json:"recorded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.True(t, ack.Recorded)

	stats, err := store.GetDailyStats(testShop, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Impressions)
}

func TestRecordEventUnknownShop(t *testing.T) {
	store := db.NewMemStore()
	r := setupRouter(store)

	body := []byte(`{"shop":"ghost.myshopify.com","event_type":"impression"}`)
	req, err := http.NewRequest(http.MethodPost, "/api/storefront/events", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	stats, err := store.GetDailyStats("ghost.myshopify.com", time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestRecordEventRejectsUnknownType(t *testing.T) {
	r := setupRouter(db.NewMemStore())

	body := []byte(`{"shop":"demo.myshopify.com","event_type":"hover"}`)
	req, err := http.NewRequest(http.MethodPost, "/api/storefront/events", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
