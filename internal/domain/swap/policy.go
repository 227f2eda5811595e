package swap

import "fmt"

type Role string

const (
	RoleRequester Role = "requester"
	RoleProvider  Role = "provider"
)

// Policy decides which participant may drive an allowed transition.
// With StrictRoles off every participant may drive every allowed edge.
type Policy struct {
	StrictRoles bool
}

func (p Policy) Authorize(role Role, from, to Status) error {
	if !p.StrictRoles {
		return nil
	}
	if from == StatusPending {
		switch to {
		case StatusAccepted, StatusRejected:
			if role != RoleProvider {
				return fmt.Errorf("%w: only the provider may %s a request", ErrForbidden, verb(to))
			}
		case StatusCancelled:
			if role != RoleRequester {
				return fmt.Errorf("%w: only the requester may cancel a pending request", ErrForbidden)
			}
		}
	}
	return nil
}

func verb(s Status) string {
	switch s {
	case StatusAccepted:
		return "accept"
	case StatusRejected:
		return "reject"
	default:
		return string(s)
	}
}
