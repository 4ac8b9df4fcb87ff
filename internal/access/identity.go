package access

import "strconv"

// Identity is the caller of a request: either anonymous or an
// authenticated user with a stable id.
type Identity struct {
	userID        uint
	authenticated bool
}

func Anonymous() Identity {
	return Identity{}
}

func Authenticated(userID uint) Identity {
	return Identity{userID: userID, authenticated: true}
}

func (i Identity) IsAuthenticated() bool {
	return i.authenticated
}

// UserID returns the caller's id and whether the caller is authenticated.
func (i Identity) UserID() (uint, bool) {
	return i.userID, i.authenticated
}

func (i Identity) String() string {
	if !i.authenticated {
		return "anonymous"
	}
	return strconv.FormatUint(uint64(i.userID), 10)
}
