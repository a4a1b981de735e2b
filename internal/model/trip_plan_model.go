package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TripPlan struct {
	Id                    uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId             string         `gorm:"type:varchar(64);not null;index"`
	TripId                string         `gorm:"type:varchar(64);index"`
	Occasion              string         `gorm:"type:varchar(255)"`
	Location              string         `gorm:"type:varchar(255)"`
	StartDate             string         `gorm:"type:varchar(10)"`
	Duration              int            `gorm:"not null;default:1"`
	IsDemoMode            bool           `gorm:"not null;default:false"`
	Fallback              bool           `gorm:"not null;default:false"`
	ReusabilityPercentage int            `gorm:"not null;default:0"`
	Plan                  datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt             time.Time      `gorm:"autoCreateTime"`
}

func (TripPlan) TableName() string {
	return "trip_plans"
}
