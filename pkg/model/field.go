package model

type FieldKind string

const (
	FieldKindText        FieldKind = "text"
	FieldKindEmail       FieldKind = "email"
	FieldKindPhone       FieldKind = "phone"
	FieldKindDate        FieldKind = "date"
	FieldKindTime        FieldKind = "time"
	FieldKindEnum        FieldKind = "enum"
	FieldKindMultiSelect FieldKind = "multi-select"
	FieldKindBoolean     FieldKind = "boolean"
	FieldKindLongText    FieldKind = "long-text"
)

// FieldDefinition is the static description of one form field.
// Messages overrides the default error message per validation tag.
type FieldDefinition struct {
	Name        string            `json:"name"`
	Label       string            `json:"label"`
	Section     string            `json:"section"`
	Kind        FieldKind         `json:"kind"`
	Required    bool              `json:"required"`
	MinLen      int               `json:"min_length,omitempty"`
	MaxLen      int               `json:"max_length,omitempty"`
	Options     []Option          `json:"options,omitempty"`
	DependsOn   []string          `json:"depends_on,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Messages    map[string]string `json:"-"`
}

func (d FieldDefinition) ZeroValue() Value {
	switch d.Kind {
	case FieldKindMultiSelect:
		return Set()
	case FieldKindBoolean:
		return Flag(false)
	default:
		return Text("")
	}
}

func (d FieldDefinition) HasOption(value string) bool {
	for _, o := range d.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}
