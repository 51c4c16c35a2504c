/*
 * Created by Zed 05.12.2023, 21:13
 */

package domain

import (
	"github.com/google/uuid"
	"time"
)

// Report is the outcome of one initializer run.
type Report struct {
	RunID     uuid.UUID
	Key       string
	Mode      SeedMode
	ScriptSHA string
	Existed   bool
	Seeded    bool
	Previous  string
	Value     string
}

// Overwritten reports whether an existing different value was replaced.
func (r Report) Overwritten() bool {
	return r.Existed && r.Seeded && r.Previous != r.Value
}

type RunRecord struct {
	RunID     uuid.UUID `gorm:"type:char(36);primaryKey;column:run_id"`
	Key       string    `gorm:"size:128;index"`
	Mode      string    `gorm:"size:16"`
	ScriptSHA string    `gorm:"size:40;column:script_sha"`
	Seeded    bool
	Value     string `gorm:"size:32"`
	CreatedAt time.Time
}

func (r *RunRecord) TableName() string {
	return "ctrprep_runs"
}

func NewRunRecord(r Report) *RunRecord {
	return &RunRecord{
		RunID:     r.RunID,
		Key:       r.Key,
		Mode:      r.Mode.String(),
		ScriptSHA: r.ScriptSHA,
		Seeded:    r.Seeded,
		Value:     r.Value,
	}
}
