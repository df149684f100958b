// Package descriptor defines the closed set of target types a record field
// may declare. A Type is a small immutable value: primitives carry only a
// kind, lists carry one element descriptor, and record references carry the
// id of a declared record schema. The conversion engine dispatches on Kind;
// nothing in this package has behavior beyond construction and inspection.
package descriptor

import "fmt"

// Kind discriminates the tagged Type variant.
type Kind int

const (
	Invalid Kind = iota
	Int
	Float
	String
	Bool
	Date
	Object
	List
	Record
)

// Type describes a conversion target. The zero value is invalid; use the
// exported primitive values or the ListOf/RecordOf constructors.
type Type struct {
	kind     Kind
	elem     *Type
	recordID string
}

// Primitive target types. These are the only Type values with no payload.
var (
	IntType    = Type{kind: Int}
	FloatType  = Type{kind: Float}
	StringType = Type{kind: String}
	BoolType   = Type{kind: Bool}
	DateType   = Type{kind: Date}
	ObjectType = Type{kind: Object}
)

// ListOf returns a list type wrapping exactly one element descriptor.
func ListOf(elem Type) Type {
	return Type{kind: List, elem: &elem}
}

// RecordOf returns a reference to the record schema declared under id.
// The id is not resolved here; resolution happens at conversion time.
func RecordOf(id string) Type {
	return Type{kind: Record, recordID: id}
}

// Kind returns the variant tag of t.
func (t Type) Kind() Kind { return t.kind }

// Elem returns the element type of a list. It panics when t is not a list,
// mirroring the access discipline of cty.Type.
func (t Type) Elem() Type {
	if t.kind != List || t.elem == nil {
		panic("descriptor: Elem called on non-list type")
	}
	return *t.elem
}

// RecordID returns the referenced record id. It panics when t is not a
// record reference.
func (t Type) RecordID() string {
	if t.kind != Record {
		panic("descriptor: RecordID called on non-record type")
	}
	return t.recordID
}

// Equals reports whether two descriptors describe the same target,
// comparing list element types structurally.
func (t Type) Equals(o Type) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case List:
		if t.elem == nil || o.elem == nil {
			return t.elem == o.elem
		}
		return t.elem.Equals(*o.elem)
	case Record:
		return t.recordID == o.recordID
	default:
		return true
	}
}

// Validate walks t and reports the first malformation: an invalid kind, a
// list with no (or an invalid) element descriptor, or a record reference
// with an empty id. Schemas are validated at declaration time so that the
// engine never meets a malformed descriptor mid-conversion.
func (t Type) Validate() error {
	switch t.kind {
	case Int, Float, String, Bool, Date, Object:
		return nil
	case List:
		if t.elem == nil {
			return fmt.Errorf("list type must wrap exactly one element descriptor")
		}
		if err := t.elem.Validate(); err != nil {
			return fmt.Errorf("in list element: %w", err)
		}
		return nil
	case Record:
		if t.recordID == "" {
			return fmt.Errorf("record reference must name a record id")
		}
		return nil
	default:
		return fmt.Errorf("invalid type descriptor")
	}
}

// FriendlyName returns a human-oriented name for diagnostics.
func (t Type) FriendlyName() string {
	switch t.kind {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Date:
		return "date"
	case Object:
		return "object"
	case List:
		if t.elem == nil {
			return "list(?)"
		}
		return fmt.Sprintf("list(%s)", t.elem.FriendlyName())
	case Record:
		return fmt.Sprintf("record(%s)", t.recordID)
	default:
		return "invalid"
	}
}
