package store

import "time"

// runRow is the gorm model backing the runs table. The document column is
// the source of truth; current_stage and status mirror fields inside it so
// listings never have to parse documents.
type runRow struct {
	ID           string `gorm:"primaryKey;size:64"`
	CurrentStage string `gorm:"index;size:32"`
	Status       string `gorm:"index;size:16"`
	Document     string `gorm:"type:text;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (runRow) TableName() string { return "runs" }

// RunSummary is one row of a run listing.
type RunSummary struct {
	ID           string    `json:"id"`
	CurrentStage string    `json:"currentStage"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
