package endpoints_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitquan/Stayboost-sub003/internal/db"
	"github.com/bitquan/Stayboost-sub003/internal/http/api"
	"github.com/bitquan/Stayboost-sub003/internal/http/api/admin/auth/endpoints"
)

const (
	testSecret = "supersecret"
	testShop   = "demo.myshopify.com"
)

func setupRouter(store db.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api"},
		endpoints.AuthPublicModule(testSecret, store))
	return r
}

func post(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInstallIssuesSecretAndToken(t *testing.T) {
	store := db.NewMemStore()
	r := setupRouter(store)

	w := post(t, r, "/api/auth/install", gin.H{"shop": testShop})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Shop   string `json:"shop"`
		Secret string `json:"secret"`
		Token  string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, testShop, resp.Shop)
	assert.NotEmpty(t, resp.Secret)
	assert.NotEmpty(t, resp.Token)

	shop, err := store.GetShopByDomain(testShop)
	require.NoError(t, err)
	assert.NotEqual(t, resp.Secret, shop.HashedSecret, "secret is stored hashed")
}

func TestInstallTwiceConflicts(t *testing.T) {
	r := setupRouter(db.NewMemStore())

	w := post(t, r, "/api/auth/install", gin.H{"shop": testShop})
	require.Equal(t, http.StatusOK, w.Code)

	w = post(t, r, "/api/auth/install", gin.H{"shop": testShop})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTokenExchange(t *testing.T) {
	store := db.NewMemStore()
	r := setupRouter(store)

	w := post(t, r, "/api/auth/install", gin.H{"shop": testShop})
	require.Equal(t, http.StatusOK, w.Code)

	var install struct {
		Secret string `json:"secret"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &install))

	w = post(t, r, "/api/auth/token", gin.H{"shop": testShop, "secret": install.Secret})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var token struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	assert.NotEmpty(t, token.Token)
}

func TestTokenRejectsBadSecret(t *testing.T) {
	store := db.NewMemStore()
	r := setupRouter(store)

	w := post(t, r, "/api/auth/install", gin.H{"shop": testShop})
	require.Equal(t, http.StatusOK, w.Code)

	w = post(t, r, "/api/auth/token", gin.H{"shop": testShop, "secret": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(t, r, "/api/auth/token", gin.H{"shop": "other.myshopify.com", "secret": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
