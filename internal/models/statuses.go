package models

type UserStatus string
type UserRole string
type DisputeStatus string
type MessageVisibility string
type RefundStatus string
type ConnectionStatus string
type ApplicationStatus string
type ListingStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleFreelancer UserRole = "freelancer"
	UserRoleClient     UserRole = "client"
	UserRoleAdmin      UserRole = "admin"

	DisputeStatusOpen     DisputeStatus = "open"
	DisputeStatusResolved DisputeStatus = "resolved"

	// Who may read a dispute message: both parties, or staff only.
	MessageVisibilityParty    MessageVisibility = "party"
	MessageVisibilityInternal MessageVisibility = "internal"

	RefundStatusPending   RefundStatus = "pending"
	RefundStatusProcessed RefundStatus = "processed"
	RefundStatusFailed    RefundStatus = "failed"

	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusDeclined ConnectionStatus = "declined"
	ConnectionStatusBlocked  ConnectionStatus = "blocked"

	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"

	ListingStatusDraft    ListingStatus = "draft"
	ListingStatusActive   ListingStatus = "active"
	ListingStatusPaused   ListingStatus = "paused"
	ListingStatusClosed   ListingStatus = "closed"
	ListingStatusArchived ListingStatus = "archived"
)
