package erd

import (
	"sync"

	"github.com/matzehuels/erdviz/pkg/errors"
)

// Attribute is a single column of an entity.
type Attribute struct {
	Name       string // Column name, matched by highlight rules
	Type       string // Database type, display only
	Nullable   bool
	PrimaryKey bool
}

// NamespaceResolver maps a logical entity name to a cluster label.
type NamespaceResolver interface {
	Namespace(entityName string) string
}

// NamespaceFunc adapts a function to [NamespaceResolver].
type NamespaceFunc func(entityName string) string

// Namespace calls f(entityName).
func (f NamespaceFunc) Namespace(entityName string) string { return f(entityName) }

// Entity is a schema table with its ordered attributes.
//
// The zero value is usable. Entity must not be copied after first use
// because it carries the namespace memo.
type Entity struct {
	Name       string       // Logical name (e.g. "Billing::Invoice")
	Table      string       // Physical table name, optional
	Attributes []*Attribute // Ordered columns

	nsOnce sync.Once
	nsMu   sync.RWMutex
	ns     string
}

// AddAttribute appends a copy of a to the entity and returns it.
func (e *Entity) AddAttribute(a Attribute) *Attribute {
	attr := &a
	e.Attributes = append(e.Attributes, attr)
	return attr
}

// Attribute returns the attribute with the given name.
func (e *Entity) Attribute(name string) (*Attribute, bool) {
	for _, a := range e.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Namespace returns the entity's cluster label, resolving it through r on
// the first call with a non-nil r. Later calls return the cached value
// regardless of r, even if r's answer would now differ. A nil r before
// resolution yields "" and caches nothing. Safe for concurrent use.
func (e *Entity) Namespace(r NamespaceResolver) string {
	if r == nil {
		e.nsMu.RLock()
		defer e.nsMu.RUnlock()
		return e.ns
	}
	e.nsOnce.Do(func() {
		ns := r.Namespace(e.Name)
		e.nsMu.Lock()
		e.ns = ns
		e.nsMu.Unlock()
	})
	return e.ns
}

// Relationship is a directed association between two entities.
type Relationship struct {
	From  string // Source entity name
	To    string // Target entity name
	Label string // Optional edge label (e.g. the foreign key column)
}

// Schema is an ordered collection of entities and their relationships.
type Schema struct {
	Name          string
	Entities      []*Entity
	Relationships []Relationship
}

// NewSchema creates an empty schema.
func NewSchema(name string) *Schema {
	return &Schema{Name: name}
}

// AddEntity appends a new entity and returns it for attribute population.
func (s *Schema) AddEntity(name, table string) *Entity {
	e := &Entity{Name: name, Table: table}
	s.Entities = append(s.Entities, e)
	return e
}

// AddRelationship appends a relationship. Endpoints are checked by [Schema.Validate].
func (s *Schema) AddRelationship(r Relationship) {
	s.Relationships = append(s.Relationships, r)
}

// Entity returns the entity with the given name.
func (s *Schema) Entity(name string) (*Entity, bool) {
	for _, e := range s.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Validate checks structural integrity: entity names are valid and unique,
// attribute names are valid and unique per entity, and relationships
// reference known entities.
func (s *Schema) Validate() error {
	seen := make(map[string]bool, len(s.Entities))
	for _, e := range s.Entities {
		if err := errors.ValidateIdentifier("entity", e.Name); err != nil {
			return err
		}
		if seen[e.Name] {
			return errors.New(errors.ErrCodeInvalidSchema, "duplicate entity %q", e.Name)
		}
		seen[e.Name] = true

		attrs := make(map[string]bool, len(e.Attributes))
		for _, a := range e.Attributes {
			if err := errors.ValidateIdentifier("attribute", a.Name); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidSchema, err, "entity %s", e.Name)
			}
			if attrs[a.Name] {
				return errors.New(errors.ErrCodeInvalidSchema, "entity %s: duplicate attribute %q", e.Name, a.Name)
			}
			attrs[a.Name] = true
		}
	}

	for _, r := range s.Relationships {
		if !seen[r.From] {
			return errors.New(errors.ErrCodeInvalidSchema, "relationship %s->%s: unknown source entity", r.From, r.To)
		}
		if !seen[r.To] {
			return errors.New(errors.ErrCodeInvalidSchema, "relationship %s->%s: unknown target entity", r.From, r.To)
		}
	}
	return nil
}
