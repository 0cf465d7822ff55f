package models

// ReferenceKind is the closed set of entity kinds a polymorphic
// (reference_type, reference_id) pair may point at. The store declares no
// FK for these pairs; writers must pass a known kind and readers resolve
// the row at runtime (repositories.ResolveReference).
type ReferenceKind string

const (
	ReferenceKindGig         ReferenceKind = "gig"
	ReferenceKindJob         ReferenceKind = "job"
	ReferenceKindProject     ReferenceKind = "project"
	ReferenceKindApplication ReferenceKind = "application"
	ReferenceKindConnection  ReferenceKind = "connection"
)

// Known reports whether k names one of the resolvable kinds.
func (k ReferenceKind) Known() bool {
	switch k {
	case ReferenceKindGig, ReferenceKindJob, ReferenceKindProject,
		ReferenceKindApplication, ReferenceKindConnection:
		return true
	}
	return false
}

// Reference is a typed polymorphic pointer.
type Reference struct {
	Kind ReferenceKind
	ID   string
}
