package models

import "time"

// Tag and Skill are shared label dictionaries referenced by the
// composite-key join tables below.

type Tag struct {
	BaseModel
	Name string `gorm:"size:64;uniqueIndex;not null"`
}

type Skill struct {
	BaseModel
	Name string `gorm:"size:64;uniqueIndex;not null"`
}

// Free-text tag tables. GigTag and ProjectTag forbid the same label twice on
// one parent via a composite unique index; ApplicationTag and JobTag only
// index the parent.

type ApplicationTag struct {
	BaseModel
	ApplicationID string `gorm:"type:uuid;not null;index"`
	Tag           string `gorm:"size:64;not null"`
}

type JobTag struct {
	BaseModel
	JobID string `gorm:"type:uuid;not null;index"`
	Tag   string `gorm:"size:64;not null"`
}

type GigTag struct {
	BaseModel
	GigID string `gorm:"type:uuid;not null;index;uniqueIndex:uniq_gig_tag,priority:1"`
	Tag   string `gorm:"size:64;not null;uniqueIndex:uniq_gig_tag,priority:2"`
}

type ProjectTag struct {
	BaseModel
	ProjectID string `gorm:"type:uuid;not null;index;uniqueIndex:uniq_project_tag,priority:1"`
	Tag       string `gorm:"size:64;not null;uniqueIndex:uniq_project_tag,priority:2"`
}

// Dictionary-backed join tables. The FK pair is the primary key, so a
// duplicate link is rejected by the store itself; no surrogate id exists.

type GroupTag struct {
	GroupID   string    `gorm:"type:uuid;primaryKey"`
	TagID     string    `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	// Relations
	TagRef Tag `gorm:"foreignKey:TagID"`
}

type ProfileSkill struct {
	ProfileID string    `gorm:"type:uuid;primaryKey"`
	SkillID   string    `gorm:"type:uuid;primaryKey"`
	Level     int       `gorm:"default:0"` // self-declared, 0..5
	CreatedAt time.Time `gorm:"autoCreateTime"`

	// Relations
	SkillRef Skill `gorm:"foreignKey:SkillID"`
}

type ProfileTag struct {
	ProfileID string    `gorm:"type:uuid;primaryKey"`
	TagID     string    `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	// Relations
	TagRef Tag `gorm:"foreignKey:TagID"`
}
