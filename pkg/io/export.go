package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/erdviz/pkg/erd"
)

type document struct {
	Name          string         `json:"name,omitempty" yaml:"name,omitempty"`
	Entities      []entity       `json:"entities" yaml:"entities"`
	Relationships []relationship `json:"relationships,omitempty" yaml:"relationships,omitempty"`
}

type entity struct {
	Name       string      `json:"name" yaml:"name"`
	Table      string      `json:"table,omitempty" yaml:"table,omitempty"`
	Attributes []attribute `json:"attributes" yaml:"attributes"`
}

type attribute struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	Nullable   bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	PrimaryKey bool   `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
}

type relationship struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

func toDocument(s *erd.Schema) document {
	doc := document{
		Name:     s.Name,
		Entities: make([]entity, len(s.Entities)),
	}
	for i, e := range s.Entities {
		ent := entity{Name: e.Name, Table: e.Table, Attributes: make([]attribute, len(e.Attributes))}
		for j, a := range e.Attributes {
			ent.Attributes[j] = attribute{Name: a.Name, Type: a.Type, Nullable: a.Nullable, PrimaryKey: a.PrimaryKey}
		}
		doc.Entities[i] = ent
	}
	for _, r := range s.Relationships {
		doc.Relationships = append(doc.Relationships, relationship{From: r.From, To: r.To, Label: r.Label})
	}
	return doc
}

// WriteJSON encodes a schema as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(s *erd.Schema, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(s)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a schema to a JSON file at path.
func ExportJSON(s *erd.Schema, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(s, f)
}
