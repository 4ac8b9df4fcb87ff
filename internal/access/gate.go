package access

import "errors"

// ErrAuthenticationRequired is returned when a gated operation is attempted
// without credentials. Rows hidden by a scope surface as not found instead.
var (
	ErrAuthenticationRequired = errors.New("authentication credentials were not provided")
	ErrReadOnly               = errors.New("resource is read-only")
)

type Action uint8

const (
	ActionList Action = iota
	ActionRetrieve
	ActionCreate
	ActionUpdate
	ActionDelete
)

func (a Action) mutates() bool {
	return a == ActionCreate || a == ActionUpdate || a == ActionDelete
}

// UserScope is the self-only rule for the user resource: anonymous callers
// see nothing and may not write; authenticated callers see and modify only
// their own row. Creation is open to any authenticated caller.
func UserScope(id Identity, action Action) (Scope, error) {
	uid, ok := id.UserID()
	if !ok {
		if action.mutates() {
			return NoRows(), ErrAuthenticationRequired
		}
		return NoRows(), nil
	}
	if action == ActionCreate {
		return AllRows(), nil
	}
	return OnlyRow(uid), nil
}

// ProfileScope is the read-only rule for profiles: everybody sees every
// row and nobody writes.
func ProfileScope(_ Identity, action Action) (Scope, error) {
	if action.mutates() {
		return NoRows(), ErrReadOnly
	}
	return AllRows(), nil
}

// AddressScope lets anyone read every address and any authenticated caller
// modify any address.
func AddressScope(id Identity, action Action) (Scope, error) {
	if action.mutates() {
		if err := RequireAuthenticated(id); err != nil {
			return NoRows(), err
		}
	}
	return AllRows(), nil
}

func RequireAuthenticated(id Identity) error {
	if !id.IsAuthenticated() {
		return ErrAuthenticationRequired
	}
	return nil
}
