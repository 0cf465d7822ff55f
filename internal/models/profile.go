package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Profile struct {
	BaseModel
	UserID      string `gorm:"type:uuid;uniqueIndex;not null"`
	DisplayName string `gorm:"not null"`
	Headline    string
	Bio         string `gorm:"type:text"`
	City        string
	Country     string
	HourlyRate  float64
	Languages   datatypes.JSON `gorm:"type:jsonb"` // ["english", "spanish"]
	IsPublic    bool           `gorm:"default:true"`
	Rating      float64        `gorm:"default:0"`

	// Relations
	Education  []ProfileEducation  `gorm:"foreignKey:ProfileID"`
	Experience []ProfileExperience `gorm:"foreignKey:ProfileID"`
	Skills     []ProfileSkill      `gorm:"foreignKey:ProfileID"`
	Tags       []ProfileTag        `gorm:"foreignKey:ProfileID"`
	Views      []ProfileView       `gorm:"foreignKey:ProfileID"`
}

type ProfileEducation struct {
	BaseModel
	ProfileID string `gorm:"type:uuid;not null;index"`
	School    string `gorm:"not null"`
	Degree    string
	Field     string
	StartYear int
	EndYear   *int
}

type ProfileExperience struct {
	BaseModelWithDeleted
	ProfileID   string `gorm:"type:uuid;not null;index"`
	Company     string `gorm:"not null"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	StartDate   time.Time
	EndDate     *time.Time
	IsCurrent   bool `gorm:"default:false"`
}

// ProfileView is an append-only analytics log. ViewerID is nil for
// anonymous views. Rows are never updated or deleted.
type ProfileView struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ProfileID string    `gorm:"type:uuid;not null;index"`
	ViewerID  *string   `gorm:"type:uuid;index"`
	Source    string    `gorm:"type:varchar(50)"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (v *ProfileView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
