package analyzer

// Role names one of the operations a container exposes.
type Role string

const (
	Partition Role = "partition"
	Map       Role = "map"
	Filter    Role = "filter"
	Reduce    Role = "reduce"
	Transform Role = "transform"
	Process   Role = "process"
)

var roles = []Role{Partition, Map, Filter, Reduce, Transform, Process}

// Roles returns every recognized role in declaration order.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	for _, known := range roles {
		if r == known {
			return true
		}
	}
	return false
}

// Terminal reports whether invoking r ends a chain.
func (r Role) Terminal() bool {
	return r == Reduce || r == Process
}

func (r Role) String() string { return string(r) }
