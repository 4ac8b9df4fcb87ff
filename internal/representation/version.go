package representation

import "errors"

// Version is an API version token taken from the URL path.
type Version string

const (
	V1 Version = "v1"
	V2 Version = "v2"
)

var ErrUnknownVersion = errors.New("invalid version in URL path")

var versions = map[string]Version{
	string(V1): V1,
	string(V2): V2,
}

// ParseVersion validates a version token. Unknown tokens are rejected,
// never defaulted.
func ParseVersion(token string) (Version, error) {
	v, ok := versions[token]
	if !ok {
		return "", ErrUnknownVersion
	}
	return v, nil
}
