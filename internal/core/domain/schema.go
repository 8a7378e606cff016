// Package domain contains the core types of the synchronization engine.
package domain

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint is a deterministic identifier of a Schema snapshot. Two
// schemas with the same fingerprint are treated as identical regardless
// of the key ordering of the documents they were extracted from.
type Fingerprint string

// TypeRef references a named type in a schema, optionally as an array of
// that type. A zero TypeRef means "no payload".
type TypeRef struct {
	Name  string `json:"name" msgpack:"name"`
	Array bool   `json:"array,omitempty" msgpack:"array"`
}

// IsZero reports whether the reference carries no payload type.
func (r TypeRef) IsZero() bool {
	return r.Name == ""
}

// Field is a single field of a named type.
type Field struct {
	Name     string `json:"name" msgpack:"name"`
	Type     string `json:"type" msgpack:"type"`
	Optional bool   `json:"optional,omitempty" msgpack:"optional"`
}

// TypeDef is the structural definition of a named type. Fields are kept
// sorted by name so that structural comparison and serialization are
// deterministic.
type TypeDef struct {
	Fields []Field `json:"fields" msgpack:"fields"`
}

// Operation describes one exposed backend operation.
type Operation struct {
	Name      string  `json:"name" msgpack:"name"`
	Method    string  `json:"method" msgpack:"method"`
	Path      string  `json:"path" msgpack:"path"`
	Request   TypeRef `json:"request,omitempty" msgpack:"request"`
	Response  TypeRef `json:"response,omitempty" msgpack:"response"`
	Streaming bool    `json:"streaming,omitempty" msgpack:"streaming"`
}

// Schema is an immutable snapshot of a backend's declared interface.
// It is produced only by the extractor after validation and is never
// mutated in place.
type Schema struct {
	Title      string             `json:"title,omitempty" msgpack:"title"`
	Version    string             `json:"version,omitempty" msgpack:"version"`
	Types      map[string]TypeDef `json:"types" msgpack:"types"`
	Operations []Operation        `json:"operations" msgpack:"operations"`
}

// Normalize sorts operations and type fields so that two structurally
// equal schemas serialize to identical bytes. The extractor calls this
// once at construction.
func (s *Schema) Normalize() {
	sort.Slice(s.Operations, func(i, j int) bool {
		return s.Operations[i].Name < s.Operations[j].Name
	})
	for name, t := range s.Types {
		sort.Slice(t.Fields, func(i, j int) bool {
			return t.Fields[i].Name < t.Fields[j].Name
		})
		s.Types[name] = t
	}
}

// Fingerprint computes the content fingerprint of the schema over its
// canonical JSON serialization. encoding/json emits map keys in sorted
// order, so key ordering of the source document cannot influence the
// result.
func (s *Schema) Fingerprint() Fingerprint {
	data, err := json.Marshal(s)
	if err != nil {
		// Schema contains only marshalable types; this cannot happen
		// for a value produced by the extractor.
		panic(err)
	}
	return Fingerprint(fmt.Sprintf("%016x", xxhash.Sum64(data)))
}

// Operation returns the named operation, if present.
func (s *Schema) Operation(name string) (Operation, bool) {
	for _, op := range s.Operations {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}

// StreamingOperations returns the operations flagged as streaming.
func (s *Schema) StreamingOperations() []Operation {
	var ops []Operation
	for _, op := range s.Operations {
		if op.Streaming {
			ops = append(ops, op)
		}
	}
	return ops
}

// TypeRefCounts returns, per named type, the number of operations that
// reference it through their request or response payloads.
func (s *Schema) TypeRefCounts() map[string]int {
	counts := make(map[string]int, len(s.Types))
	for _, op := range s.Operations {
		if !op.Request.IsZero() {
			counts[op.Request.Name]++
		}
		if !op.Response.IsZero() {
			counts[op.Response.Name]++
		}
	}
	return counts
}
