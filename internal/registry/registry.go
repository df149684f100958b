package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/vk/recast/internal/descriptor"
	"github.com/vk/recast/internal/validate"
)

// Field is one declared field of a record schema: its conversion target,
// optionality, optional default value, and validators.
//
// HasDefault distinguishes "no default" from an explicit null default; a
// null default materializes the field with value nil, which is meaningful
// for nullable targets such as record references.
type Field struct {
	Name       string
	Type       descriptor.Type
	Optional   bool
	Default    any
	HasDefault bool
	Validators []validate.Validator
}

// Schema is the merged, inheritance-resolved field set for one record id.
// It is immutable after Declare returns it into the registry.
type Schema struct {
	ID     string
	Parent string

	fields []Field
	index  map[string]int
}

// Fields returns the merged field list in deterministic order: the parent's
// merged order first (child redeclarations replace in place), then fields
// the child introduced, in declaration order. Callers must not mutate it.
func (s *Schema) Fields() []Field { return s.fields }

// Field looks up a merged field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Registry holds every declared record schema. Declarations are expected
// during a startup phase, but the table is guarded for hosts that interleave
// declarations with conversion traffic: writes are exclusive, reads shared.
// There is no deletion; the registry only grows.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Schema
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{records: make(map[string]*Schema)}
}

// UnknownRecordError reports a lookup of a record id that was never declared.
type UnknownRecordError struct {
	ID string
}

func (e *UnknownRecordError) Error() string {
	return fmt.Sprintf("unknown record type %q", e.ID)
}

// MalformedDescriptorError reports a field declared with an invalid type
// descriptor. This is a schema-author error caught at declaration time, so
// the engine never meets a malformed descriptor during conversion.
type MalformedDescriptorError struct {
	Record string
	Field  string
	Err    error
}

func (e *MalformedDescriptorError) Error() string {
	return fmt.Sprintf("record %q, field %q: malformed type descriptor: %v", e.Record, e.Field, e.Err)
}

func (e *MalformedDescriptorError) Unwrap() error { return e.Err }

// Declare registers a record schema under id, merging it with the parent's
// already-merged fields when parent is non-empty. The parent must have been
// declared first. A field the child redeclares by name fully replaces the
// parent's field; validators merge independently, so a redeclared field
// with no validators of its own still inherits the parent's validator list.
func (r *Registry) Declare(id, parent string, fields []Field) error {
	if id == "" {
		return fmt.Errorf("record id must not be empty")
	}

	own := make(map[string]int, len(fields))
	declared := make([]Field, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("record %q: field %d has no name", id, i)
		}
		if _, dup := own[f.Name]; dup {
			return fmt.Errorf("record %q: duplicate field %q", id, f.Name)
		}
		if err := f.Type.Validate(); err != nil {
			return &MalformedDescriptorError{Record: id, Field: f.Name, Err: err}
		}
		// A field with a default can never be required-and-absent.
		if f.HasDefault {
			f.Optional = true
		}
		own[f.Name] = i
		declared[i] = f
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; exists {
		return fmt.Errorf("record %q is already declared", id)
	}

	var parentSchema *Schema
	if parent != "" {
		parentSchema = r.records[parent]
		if parentSchema == nil {
			return &UnknownRecordError{ID: parent}
		}
	}

	merged := mergeFields(parentSchema, declared, own)
	index := make(map[string]int, len(merged))
	for i, f := range merged {
		index[f.Name] = i
	}

	r.records[id] = &Schema{ID: id, Parent: parent, fields: merged, index: index}
	slog.Debug("Record schema declared.", "record", id, "parent", parent, "fields", len(merged))
	return nil
}

// mergeFields performs the single-level inheritance merge. The parent's
// fields are already merged, so no ancestor walk is needed.
func mergeFields(parent *Schema, declared []Field, own map[string]int) []Field {
	if parent == nil {
		return declared
	}

	merged := make([]Field, 0, len(parent.fields)+len(declared))
	overridden := make(map[string]struct{}, len(own))

	for _, pf := range parent.fields {
		i, redeclared := own[pf.Name]
		if !redeclared {
			merged = append(merged, pf)
			continue
		}
		cf := declared[i]
		if len(cf.Validators) == 0 {
			cf.Validators = pf.Validators
		}
		merged = append(merged, cf)
		overridden[pf.Name] = struct{}{}
	}

	for _, cf := range declared {
		if _, done := overridden[cf.Name]; !done {
			merged = append(merged, cf)
		}
	}
	return merged
}

// Resolve returns the merged schema for id. This is the only registry read
// the conversion engine performs.
func (r *Registry) Resolve(id string) (*Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.records[id]
	if !ok {
		return nil, &UnknownRecordError{ID: id}
	}
	return s, nil
}

// Records returns the declared record ids in sorted order, for diagnostics.
func (r *Registry) Records() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
