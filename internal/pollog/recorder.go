package pollog

import (
	"context"
	"time"
)

// Record is one poll cycle outcome.
type Record struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Stage      string    `gorm:"index:idx_poll_records_stage_started,priority:1;size:64;not null" json:"stage"`
	StartedAt  time.Time `gorm:"index:idx_poll_records_stage_started,priority:2;not null" json:"startedAt"`
	DurationMS int64     `gorm:"not null" json:"durationMs"`
	OK         bool      `gorm:"not null" json:"ok"`
	Entries    int       `gorm:"not null" json:"entries"`
	Error      string    `gorm:"type:text" json:"error,omitempty"`
}

func (Record) TableName() string { return "poll_records" }

type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// Nop discards every record.
type Nop struct{}

func (Nop) Record(context.Context, Record) error { return nil }
