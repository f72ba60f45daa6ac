// exposes a Store interface that is passed to API modules.
package db

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

type Store interface {
	// shop functions
	CreateShop(domain, hashedSecret string) (model.Shop, error)
	GetShopByDomain(domain string) (*model.Shop, error)

	// popup settings functions
	GetPopupSettings(shop string) (model.PopupSettings, error)
	UpsertPopupSettings(p model.PopupSettings) (model.PopupSettings, error)

	// template functions
	CreateTemplate(shop, name, category string, config json.RawMessage) (model.Template, error)
	GetTemplate(shop string, id int) (model.Template, error)
	ListTemplates(shop string) ([]model.Template, error)
	UpdateTemplate(t model.Template) (model.Template, error)
	DeleteTemplate(shop string, id int) error
	TemplateInUse(shop string, id int) (bool, error)

	// schedule functions
	CreateSchedule(s model.Schedule) (model.Schedule, error)
	GetSchedule(shop string, id int) (model.Schedule, error)
	ListSchedules(shop string) ([]model.Schedule, error)
	ListActiveSchedules(shop string) ([]model.Schedule, error)
	ListUpcomingSchedules(shop string, after time.Time, limit int) ([]model.Schedule, error)
	UpdateSchedule(s model.Schedule) (model.Schedule, error)
	DeleteSchedule(shop string, id int) error

	// activation functions
	CreateActivation(scheduleID int, at time.Time, status string, data json.RawMessage) (model.Activation, error)
	ListActivations(shop string, scheduleID int) ([]model.Activation, error)
	ListDueAutoActivations(now time.Time) ([]model.Schedule, error)

	// a/b test functions
	CreateABTest(shop, name string) (model.ABTest, error)
	GetABTest(shop string, id int) (model.ABTest, error)
	ListABTests(shop string) ([]model.ABTest, error)
	UpdateABTestStatus(shop string, id int, status string) error
	DeleteABTest(shop string, id int) error
	AddABVariant(testID int, name string, templateID, weight int) (model.ABVariant, error)
	ListABVariants(testID int) ([]model.ABVariant, error)
	GetRunningABTest(shop string) (*model.ABTest, []model.ABVariant, error)

	// analytics functions
	InsertPopupEvent(e model.PopupEvent) error
	GetDailyStats(shop string, since time.Time) ([]model.DailyStat, error)

	// backup functions
	CreateBackup(b model.Backup) error
	GetBackup(shop, id string) (model.Backup, error)
	ListBackups(shop string) ([]model.Backup, error)

	Ping() error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(database *sqlx.DB) Store {
	if database == nil {
		database = DB
	}
	return &pgStore{db: database}
}

func (s *pgStore) Ping() error {
	return s.db.Ping()
}
