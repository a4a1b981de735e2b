package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ClosetItem struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId          string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_closet_session_sku"`
	Sku                string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_closet_session_sku"`
	Name               string         `gorm:"type:varchar(255);not null"`
	Category           string         `gorm:"type:varchar(32);not null"`
	Price              float64        `gorm:"type:numeric(10,2)"`
	Colors             string         `gorm:"type:varchar(255)"`
	WeatherSuitability string         `gorm:"type:varchar(64)"`
	Formality          string         `gorm:"type:varchar(64)"`
	Layering           string         `gorm:"type:varchar(64)"`
	Tags               datatypes.JSON `gorm:"type:jsonb"`
	Notes              string         `gorm:"type:text"`
	Image              string         `gorm:"type:text"`
	ProductUrl         string         `gorm:"type:text"`
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
}

func (ClosetItem) TableName() string {
	return "closet_items"
}
