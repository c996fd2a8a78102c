package database

import "time"

// PollRow is one party's share in one published poll, in long format: a
// poll with five parties is stored as five rows.
type PollRow struct {
	ID        uint      `gorm:"primaryKey"`
	Date      time.Time `gorm:"column:date;type:date;not null;index"`
	Pollster  string    `gorm:"column:pollster;not null"`
	URL       string    `gorm:"column:url"`
	VoterType string    `gorm:"column:voter_type;not null;index"`
	Party     string    `gorm:"column:party;not null"`
	Share     float64   `gorm:"column:share;not null"`
}

// TableName implements the Tabler interface for the PollRow struct
func (PollRow) TableName() string {
	return DefaultTable
}
