// Package erd defines the schema model rendered by erdviz.
//
// # Overview
//
// A [Schema] is an ordered list of [Entity] values (one per table) and the
// [Relationship] edges between them. Each entity owns an ordered list of
// [Attribute] values (one per column). Order is significant: the highlight
// rules scan attributes in their defined order, and the renderer emits rows
// in the same order.
//
// The model is read-only from the renderer's perspective, with one
// exception: each entity carries a lazily computed namespace used to group
// entities into clusters. The namespace is resolved at most once per entity
// instance via [Entity.Namespace] and cached for the instance's lifetime.
//
// # Basic Usage
//
//	s := erd.NewSchema("shop")
//	acct := s.AddEntity("Account", "accounts")
//	acct.AddAttribute(erd.Attribute{Name: "id", Type: "integer", PrimaryKey: true})
//	acct.AddAttribute(erd.Attribute{Name: "email", Type: "string"})
//	if err := s.Validate(); err != nil {
//	    return err
//	}
package erd
