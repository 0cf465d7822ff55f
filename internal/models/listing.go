package models

import "gorm.io/datatypes"

// Gig is a fixed-scope service offered by a freelancer.
type Gig struct {
	BaseModelWithDeleted
	OwnerID     string `gorm:"type:uuid;not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Price       float64
	Status      ListingStatus `gorm:"type:varchar(20);default:'draft';index"`

	// Relations
	Tags []GigTag `gorm:"foreignKey:GigID"`
}

// Job is a client-posted opening that freelancers apply to.
type Job struct {
	BaseModelWithDeleted
	PostedBy    string `gorm:"type:uuid;not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	BudgetMin   *int
	BudgetMax   *int
	Status      ListingStatus `gorm:"type:varchar(20);default:'draft';index"`

	// Relations
	Tags         []JobTag      `gorm:"foreignKey:JobID"`
	Applications []Application `gorm:"foreignKey:JobID"`
}

type Project struct {
	BaseModelWithDeleted
	ClientID     string        `gorm:"type:uuid;not null;index"`
	FreelancerID *string       `gorm:"type:uuid;index"`
	Title        string        `gorm:"not null"`
	Description  string        `gorm:"type:text"`
	Status       ListingStatus `gorm:"type:varchar(20);default:'active';index"`

	// Relations
	Tags []ProjectTag `gorm:"foreignKey:ProjectID"`
}

type Application struct {
	BaseModel
	JobID       string `gorm:"type:uuid;not null;index"`
	ApplicantID string `gorm:"type:uuid;not null;index"`
	CoverLetter string `gorm:"type:text"`
	BidAmount   *float64
	Status      ApplicationStatus `gorm:"type:varchar(20);default:'pending';index"`
	Answers     datatypes.JSON    `gorm:"type:jsonb"`

	// Relations
	Tags []ApplicationTag `gorm:"foreignKey:ApplicationID"`
}

type Group struct {
	BaseModel
	OwnerID     string `gorm:"type:uuid;not null;index"`
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`

	// Relations
	Tags []GroupTag `gorm:"foreignKey:GroupID"`
}
