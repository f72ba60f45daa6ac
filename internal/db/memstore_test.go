package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitquan/Stayboost-sub003/internal/db"
	"github.com/bitquan/Stayboost-sub003/internal/model"
)

func TestMemStoreRunningABTestIsMostRecentlyUpdated(t *testing.T) {
	store := db.NewMemStore()
	shop := "demo.myshopify.com"
	_, err := store.CreateShop(shop, "hash")
	require.NoError(t, err)

	first, err := store.CreateABTest(shop, "first")
	require.NoError(t, err)
	second, err := store.CreateABTest(shop, "second")
	require.NoError(t, err)

	require.NoError(t, store.UpdateABTestStatus(shop, first.ID, model.ABTestRunning))
	time.Sleep(time.Millisecond)
	require.NoError(t, store.UpdateABTestStatus(shop, second.ID, model.ABTestRunning))

	got, _, err := store.GetRunningABTest(shop)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)

	// bumping the older test makes it the current one again
	time.Sleep(time.Millisecond)
	require.NoError(t, store.UpdateABTestStatus(shop, first.ID, model.ABTestRunning))
	got, _, err = store.GetRunningABTest(shop)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
}
