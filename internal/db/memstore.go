package db

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

// memStore is an in-memory Store used by handler tests; it mirrors the
// postgres semantics the handlers rely on (not-found mapping, cascade delete,
// activation dedupe).
type memStore struct {
	mu sync.Mutex

	nextID      int
	shops       map[string]model.Shop
	settings    map[string]model.PopupSettings
	templates   map[int]model.Template
	schedules   map[int]model.Schedule
	activations []model.Activation
	tests       map[int]model.ABTest
	variants    map[int][]model.ABVariant
	events      []model.PopupEvent
	backups     map[string]model.Backup
}

var _ Store = (*memStore)(nil)

func NewMemStore() Store {
	return &memStore{
		shops:     map[string]model.Shop{},
		settings:  map[string]model.PopupSettings{},
		templates: map[int]model.Template{},
		schedules: map[int]model.Schedule{},
		tests:     map[int]model.ABTest{},
		variants:  map[int][]model.ABVariant{},
		backups:   map[string]model.Backup{},
	}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateShop(domain, hashedSecret string) (model.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sh := model.Shop{ID: m.id(), Domain: domain, HashedSecret: hashedSecret, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.shops[domain] = sh
	return sh, nil
}

func (m *memStore) GetShopByDomain(domain string) (*model.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sh, ok := m.shops[domain]
	if !ok {
		return nil, ErrNotFound
	}
	return &sh, nil
}

func (m *memStore) GetPopupSettings(shop string) (model.PopupSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.settings[shop]
	if !ok {
		return model.PopupSettings{}, ErrNotFound
	}
	return p, nil
}

func (m *memStore) UpsertPopupSettings(p model.PopupSettings) (model.PopupSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.settings[p.Shop]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = m.id()
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()
	m.settings[p.Shop] = p
	return p, nil
}

func (m *memStore) CreateTemplate(shop, name, category string, config json.RawMessage) (model.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := model.Template{ID: m.id(), Shop: shop, Name: name, Category: category, Config: config, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.templates[t.ID] = t
	return t, nil
}

func (m *memStore) GetTemplate(shop string, id int) (model.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok || t.Shop != shop {
		return model.Template{}, ErrNotFound
	}
	return t, nil
}

func (m *memStore) ListTemplates(shop string) ([]model.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Template
	for _, t := range m.templates {
		if t.Shop == shop {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateTemplate(t model.Template) (model.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.templates[t.ID]
	if !ok || existing.Shop != t.Shop {
		return model.Template{}, ErrNotFound
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now()
	m.templates[t.ID] = t
	return t, nil
}

func (m *memStore) DeleteTemplate(shop string, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.templates[id]; ok && t.Shop == shop {
		delete(m.templates, id)
	}
	return nil
}

func (m *memStore) TemplateInUse(shop string, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.schedules {
		if s.Shop == shop && s.TemplateID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateSchedule(s model.Schedule) (model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.id()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	m.schedules[s.ID] = s
	return s, nil
}

func (m *memStore) GetSchedule(shop string, id int) (model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok || s.Shop != shop {
		return model.Schedule{}, ErrNotFound
	}
	return s, nil
}

func (m *memStore) ListSchedules(shop string) ([]model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Schedule
	for _, s := range m.schedules {
		if s.Shop == shop {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) ListActiveSchedules(shop string) ([]model.Schedule, error) {
	all, _ := m.ListSchedules(shop)
	var out []model.Schedule
	for _, s := range all {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ListUpcomingSchedules(shop string, after time.Time, limit int) ([]model.Schedule, error) {
	all, _ := m.ListSchedules(shop)
	var out []model.Schedule
	for _, s := range all {
		if s.IsActive && s.StartDate.After(after) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) UpdateSchedule(s model.Schedule) (model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.schedules[s.ID]
	if !ok || existing.Shop != s.Shop {
		return model.Schedule{}, ErrNotFound
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now()
	m.schedules[s.ID] = s
	return s, nil
}

func (m *memStore) DeleteSchedule(shop string, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.schedules[id]; ok && s.Shop == shop {
		delete(m.schedules, id)
		kept := m.activations[:0]
		for _, a := range m.activations {
			if a.ScheduleID != id {
				kept = append(kept, a)
			}
		}
		m.activations = kept
	}
	return nil
}

func (m *memStore) CreateActivation(scheduleID int, at time.Time, status string, data json.RawMessage) (model.Activation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := model.Activation{ID: m.id(), ScheduleID: scheduleID, ActivationTime: at, Status: status, ActivationData: data}
	m.activations = append(m.activations, a)
	return a, nil
}

func (m *memStore) ListActivations(shop string, scheduleID int) ([]model.Activation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[scheduleID]
	if !ok || s.Shop != shop {
		return nil, nil
	}
	var out []model.Activation
	for _, a := range m.activations {
		if a.ScheduleID == scheduleID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActivationTime.After(out[j].ActivationTime) })
	return out, nil
}

func (m *memStore) ListDueAutoActivations(now time.Time) ([]model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Schedule
	for _, s := range m.schedules {
		if !s.AutoActivate || !s.IsActive || s.StartDate.After(now) {
			continue
		}
		if s.EndDate != nil && s.EndDate.Before(now) {
			continue
		}
		recorded := false
		for _, a := range m.activations {
			if a.ScheduleID == s.ID && !a.ActivationTime.Before(s.StartDate) {
				recorded = true
				break
			}
		}
		if !recorded {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) CreateABTest(shop, name string) (model.ABTest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := model.ABTest{ID: m.id(), Shop: shop, Name: name, Status: model.ABTestDraft, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.tests[t.ID] = t
	return t, nil
}

func (m *memStore) GetABTest(shop string, id int) (model.ABTest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tests[id]
	if !ok || t.Shop != shop {
		return model.ABTest{}, ErrNotFound
	}
	return t, nil
}

func (m *memStore) ListABTests(shop string) ([]model.ABTest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ABTest
	for _, t := range m.tests {
		if t.Shop == shop {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateABTestStatus(shop string, id int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tests[id]
	if !ok || t.Shop != shop {
		return ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	m.tests[id] = t
	return nil
}

func (m *memStore) DeleteABTest(shop string, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tests[id]; ok && t.Shop == shop {
		delete(m.tests, id)
		delete(m.variants, id)
	}
	return nil
}

func (m *memStore) AddABVariant(testID int, name string, templateID, weight int) (model.ABVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := model.ABVariant{ID: m.id(), TestID: testID, Name: name, TemplateID: templateID, Weight: weight, CreatedAt: time.Now()}
	m.variants[testID] = append(m.variants[testID], v)
	return v, nil
}

func (m *memStore) ListABVariants(testID int) ([]model.ABVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ABVariant(nil), m.variants[testID]...), nil
}

func (m *memStore) GetRunningABTest(shop string) (*model.ABTest, []model.ABVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// most recently updated running test wins, matching the pg query
	var best *model.ABTest
	for _, t := range m.tests {
		if t.Shop != shop || t.Status != model.ABTestRunning {
			continue
		}
		t := t
		if best == nil || t.UpdatedAt.After(best.UpdatedAt) ||
			(t.UpdatedAt.Equal(best.UpdatedAt) && t.ID > best.ID) {
			best = &t
		}
	}
	if best == nil {
		return nil, nil, nil
	}
	return best, append([]model.ABVariant(nil), m.variants[best.ID]...), nil
}

func (m *memStore) InsertPopupEvent(e model.PopupEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.id()
	m.events = append(m.events, e)
	return nil
}

func (m *memStore) GetDailyStats(shop string, since time.Time) ([]model.DailyStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byDay := map[time.Time]*model.DailyStat{}
	for _, e := range m.events {
		if e.Shop != shop || e.OccurredAt.Before(since) {
			continue
		}
		day := e.OccurredAt.UTC().Truncate(24 * time.Hour)
		stat, ok := byDay[day]
		if !ok {
			stat = &model.DailyStat{Day: day}
			byDay[day] = stat
		}
		switch e.EventType {
		case model.EventImpression:
			stat.Impressions++
		case model.EventConversion:
			stat.Conversions++
		case model.EventDismissal:
			stat.Dismissals++
		}
	}
	var out []model.DailyStat
	for _, stat := range byDay {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (m *memStore) CreateBackup(b model.Backup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backups[b.ID] = b
	return nil
}

func (m *memStore) GetBackup(shop, id string) (model.Backup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.backups[id]
	if !ok || b.Shop != shop {
		return model.Backup{}, ErrNotFound
	}
	return b, nil
}

func (m *memStore) ListBackups(shop string) ([]model.Backup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Backup
	for _, b := range m.backups {
		if b.Shop == shop {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) Ping() error { return nil }
