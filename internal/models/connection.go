package models

import "time"

// Connection is a directed link request between two users. Pair uniqueness
// is enforced by the connections_unique_pair index created in the
// add_connection_indexes migration, scoped by deleted_at so a removed
// connection can be re-requested.
type Connection struct {
	BaseModelWithDeleted
	RequesterID string           `gorm:"type:uuid;not null"`
	AddresseeID string           `gorm:"type:uuid;not null"`
	Status      ConnectionStatus `gorm:"type:varchar(20);default:'pending'"`
	Message     string
	RespondedAt *time.Time
}
