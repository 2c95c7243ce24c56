package domain

// PrincipalKind tags the two kinds of authenticated actors. The kind is
// resolved once at login time and carried in the token; request handling
// never probes both account tables to figure out who is calling.
type PrincipalKind string

const (
	PrincipalKindReader PrincipalKind = "READER"
	PrincipalKindStaff  PrincipalKind = "STAFF"
)

// Principal identifies the authenticated actor of a request.
type Principal struct {
	Kind PrincipalKind `json:"kind"`
	ID   int32         `json:"id"`
}

func (p Principal) IsStaff() bool {
	return p.Kind == PrincipalKindStaff
}
