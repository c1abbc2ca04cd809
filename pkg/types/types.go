// Package types models the types of the M formula language as used by
// static inspection: the primitive types plus a handful of synthetic kinds
// for partial knowledge.
package types

import "fmt"

// Kind enumerates type kinds.
type Kind uint8

const (
	// Unknown marks a node the analyzer has no rule for.
	Unknown Kind = iota
	// NotApplicable marks nodes that have no type, like constants.
	NotApplicable

	Action
	Any
	AnyNonNull
	Binary
	Date
	DateTime
	DateTimeZone
	Duration
	Function
	List
	Logical
	None
	Null
	Number
	Record
	Table
	Text
	Time
	Type
)

var kindNames = [...]string{
	Unknown:       "unknown",
	NotApplicable: "not applicable",
	Action:        "action",
	Any:           "any",
	AnyNonNull:    "anynonnull",
	Binary:        "binary",
	Date:          "date",
	DateTime:      "datetime",
	DateTimeZone:  "datetimezone",
	Duration:      "duration",
	Function:      "function",
	List:          "list",
	Logical:       "logical",
	None:          "none",
	Null:          "null",
	Number:        "number",
	Record:        "record",
	Table:         "table",
	Text:          "text",
	Time:          "time",
	Type:          "type",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// T is a type: a kind plus nullability.
type T struct {
	Kind     Kind
	Nullable bool
}

func (t T) String() string {
	if t.Nullable {
		return "nullable " + t.Kind.String()
	}
	return t.Kind.String()
}

// Of returns the non-nullable type of the given kind.
func Of(k Kind) T { return T{Kind: k} }

// NullableOf returns the nullable type of the given kind.
func NullableOf(k Kind) T { return T{Kind: k, Nullable: true} }

// primitiveNames is the closed whitelist of primitive-type identifiers. The
// `type` keyword and the null literal are also legal primitive types but are
// not identifiers, so they are handled by the parser directly.
var primitiveNames = map[string]Kind{
	"action":       Action,
	"any":          Any,
	"anynonnull":   AnyNonNull,
	"binary":       Binary,
	"date":         Date,
	"datetime":     DateTime,
	"datetimezone": DateTimeZone,
	"duration":     Duration,
	"function":     Function,
	"list":         List,
	"logical":      Logical,
	"none":         None,
	"number":       Number,
	"record":       Record,
	"table":        Table,
	"text":         Text,
	"time":         Time,
}

// PrimitiveKind maps a primitive-type identifier to its kind. The second
// return value is false for identifiers outside the whitelist.
func PrimitiveKind(name string) (Kind, bool) {
	k, ok := primitiveNames[name]
	return k, ok
}
