package model

import "time"

// A/B test lifecycle states.
const (
	ABTestDraft     = "draft"
	ABTestRunning   = "running"
	ABTestPaused    = "paused"
	ABTestCompleted = "completed"
)

type ABTest struct {
	ID        int       `db:"id" json:"id"`
	Shop      string    `db:"shop" json:"shop"`
	Name      string    `db:"name" json:"name"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ABVariant maps a test to a template with an integer weight used for
// deterministic traffic split.
type ABVariant struct {
	ID         int       `db:"id" json:"id"`
	TestID     int       `db:"test_id" json:"test_id"`
	Name       string    `db:"name" json:"name"`
	TemplateID int       `db:"template_id" json:"template_id"`
	Weight     int       `db:"weight" json:"weight"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
