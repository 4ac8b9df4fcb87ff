package representation

// Kind names a resource whose representation can be resolved.
type Kind string

const (
	KindUser    Kind = "user"
	KindProfile Kind = "profile"
	KindAddress Kind = "address"
)

// Collection is the URL segment under /api/{version}/ serving the kind.
func (k Kind) Collection() string {
	switch k {
	case KindUser:
		return "user"
	case KindProfile:
		return "profiles"
	case KindAddress:
		return "addresses"
	}
	return string(k)
}

type Operation uint8

const (
	OpList Operation = iota
	OpDetail
	OpWrite
)

func (o Operation) String() string {
	switch o {
	case OpList:
		return "list"
	case OpDetail:
		return "detail"
	case OpWrite:
		return "write"
	}
	return "unknown"
}

type Access uint8

const (
	ReadWrite Access = iota
	ReadOnly
	WriteOnly
)

// Nesting is the strategy for rendering a related collection.
type Nesting uint8

const (
	NestNone Nesting = iota
	EmbedFull
	EmbedLink
)

// Type is the wire type of a field.
type Type uint8

const (
	TypeID Type = iota
	TypeString
	TypeNullString
	TypeDate
	TypeDateTime
	TypeMedia
	TypeIDList
	TypeRelated
)

type Field struct {
	Name    string
	Source  string
	Type    Type
	Access  Access
	Nesting Nesting
	// Related is the kind rendered for TypeRelated fields.
	Related Kind
	// Required fields must be present on create and full update.
	Required bool
	// CreateOnly fields are accepted on create and ignored afterwards.
	CreateOnly bool
}

func (f Field) Readable() bool { return f.Access != WriteOnly }

func (f Field) Writable() bool { return f.Access != ReadOnly }

// FieldSpec is the resolved projection of one kind for one version and
// operation. Fields keep their wire order.
type FieldSpec struct {
	Kind      Kind
	Version   Version
	Operation Operation
	Fields    []Field
}

// Field looks up a field by wire name.
func (s FieldSpec) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns the wire names in order.
func (s FieldSpec) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
