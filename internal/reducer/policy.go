package reducer

import "fmt"

// RemovePolicy decides what RemoveObject does with the hierarchy around the
// removed object.
type RemovePolicy int

const (
	// RemoveOrphan prunes the id from its parent's children and detaches
	// the removed object's direct children, which become roots.
	RemoveOrphan RemovePolicy = iota

	// RemoveCascade removes the whole subtree rooted at the object.
	RemoveCascade

	// RemoveLeave removes only the object itself and repairs nothing.
	// Siblings keep dangling parent/children links, which CheckIntegrity
	// reports. It reproduces the historical editor behaviour.
	RemoveLeave
)

// String returns the configuration name of the policy.
func (p RemovePolicy) String() string {
	switch p {
	case RemoveOrphan:
		return "orphan"
	case RemoveCascade:
		return "cascade"
	case RemoveLeave:
		return "leave"
	default:
		return fmt.Sprintf("RemovePolicy(%d)", int(p))
	}
}

// ParseRemovePolicy parses "orphan", "cascade" or "leave".
func ParseRemovePolicy(s string) (RemovePolicy, error) {
	switch s {
	case "orphan", "":
		return RemoveOrphan, nil
	case "cascade":
		return RemoveCascade, nil
	case "leave":
		return RemoveLeave, nil
	default:
		return 0, fmt.Errorf("unknown remove policy %q (want orphan, cascade or leave)", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so the policy can be read
// straight from environment variables and flags.
func (p *RemovePolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseRemovePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p RemovePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
