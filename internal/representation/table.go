package representation

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind      = errors.New("unknown resource kind")
	ErrUnknownOperation = errors.New("unknown operation")
)

type tableKey struct {
	kind    Kind
	version Version
}

var addressFields = []Field{
	{Name: "id", Source: "id", Type: TypeID, Access: ReadOnly},
	{Name: "address1", Source: "address1", Type: TypeString, Required: true},
	{Name: "address2", Source: "address2", Type: TypeString},
	{Name: "area", Source: "area", Type: TypeString},
	{Name: "city", Source: "city", Type: TypeString, Required: true},
	{Name: "county", Source: "county", Type: TypeString},
	{Name: "postcode", Source: "postcode", Type: TypeString},
	{Name: "country", Source: "country", Type: TypeString, Required: true},
}

func userFields(acceptAddressIDs bool) []Field {
	fields := []Field{
		{Name: "id", Source: "id", Type: TypeID, Access: ReadOnly},
		{Name: "username", Source: "username", Type: TypeString, Required: true, CreateOnly: true},
		{Name: "first_name", Source: "first_name", Type: TypeString},
		{Name: "last_name", Source: "last_name", Type: TypeString},
		{Name: "name", Source: "name", Type: TypeString},
		{Name: "email", Source: "email", Type: TypeString},
		{Name: "avatar", Source: "avatar", Type: TypeMedia, Access: ReadOnly},
		{Name: "bio", Source: "bio", Type: TypeString},
		{Name: "salutation", Source: "salutation", Type: TypeString},
		{Name: "date_of_birth", Source: "date_of_birth", Type: TypeDate},
		{Name: "gender", Source: "gender", Type: TypeString},
		{Name: "phone_home", Source: "phone_home", Type: TypeNullString},
		{Name: "phone_work", Source: "phone_work", Type: TypeNullString},
		{Name: "mobile", Source: "mobile", Type: TypeNullString},
		{Name: "date_joined", Source: "date_joined", Type: TypeDateTime, Access: ReadOnly},
	}
	if acceptAddressIDs {
		fields = append(fields, Field{Name: "addresses", Source: "addresses", Type: TypeIDList, Access: WriteOnly})
	}
	return append(fields, Field{
		Name: "addresses_nested", Source: "addresses", Type: TypeRelated,
		Access: ReadOnly, Nesting: EmbedFull, Related: KindAddress,
	})
}

func profileFields(nesting Nesting) []Field {
	return []Field{
		{Name: "id", Source: "id", Type: TypeID, Access: ReadOnly},
		{Name: "username", Source: "username", Type: TypeString, Access: ReadOnly},
		{Name: "first_name", Source: "first_name", Type: TypeString, Access: ReadOnly},
		{Name: "last_name", Source: "last_name", Type: TypeString, Access: ReadOnly},
		{Name: "name", Source: "name", Type: TypeString, Access: ReadOnly},
		{Name: "avatar", Source: "avatar", Type: TypeMedia, Access: ReadOnly},
		{Name: "bio", Source: "bio", Type: TypeString, Access: ReadOnly},
		{Name: "salutation", Source: "salutation", Type: TypeString, Access: ReadOnly},
		{Name: "gender", Source: "gender", Type: TypeString, Access: ReadOnly},
		{Name: "date_joined", Source: "date_joined", Type: TypeDateTime, Access: ReadOnly},
		{
			Name: "addresses_nested", Source: "addresses", Type: TypeRelated,
			Access: ReadOnly, Nesting: nesting, Related: KindAddress,
		},
	}
}

// table is the single source of truth for every (kind, version) shape.
// v1 users cannot change their address set; v1 profiles link addresses
// instead of embedding them.
var table = map[tableKey][]Field{
	{KindAddress, V1}: addressFields,
	{KindAddress, V2}: addressFields,
	{KindUser, V1}:    userFields(false),
	{KindUser, V2}:    userFields(true),
	{KindProfile, V1}: profileFields(EmbedLink),
	{KindProfile, V2}: profileFields(EmbedFull),
}

// Resolve returns the field projection for kind at version for op. Read
// operations drop write-only fields, writes drop read-only ones.
func Resolve(kind Kind, version Version, op Operation) (FieldSpec, error) {
	if _, ok := versions[string(version)]; !ok {
		return FieldSpec{}, ErrUnknownVersion
	}
	if op > OpWrite {
		return FieldSpec{}, ErrUnknownOperation
	}
	fields, ok := table[tableKey{kind, version}]
	if !ok {
		return FieldSpec{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	projected := make([]Field, 0, len(fields))
	for _, f := range fields {
		if op == OpWrite && f.Writable() || op != OpWrite && f.Readable() {
			projected = append(projected, f)
		}
	}
	return FieldSpec{Kind: kind, Version: version, Operation: op, Fields: projected}, nil
}

