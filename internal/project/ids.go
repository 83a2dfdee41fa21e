// Package project implements §4.4's Project Resolver: per-file symbol
// allocation, import application, signature filling, and cross-module
// recursive-type checking, culminating in an immutable metadata snapshot
// every module is analyzed against (§4.5).
package project

import "github.com/airylang/airyc/internal/vfs"

// ModuleID names a file and its parsed module; it is simply the file's
// vfs.FileID, since one Airy source file is always exactly one module.
type ModuleID = vfs.FileID

// VariableID identifies a local, global, or parameter binding, scoped to
// one module (arena index into that Module's variables slice).
type VariableID int

// ScopeID identifies a lexical scope, scoped to one module.
type ScopeID int

// ReferenceID identifies a recorded use-site, scoped to one module.
type ReferenceID int

// FieldID identifies a struct field, qualified by the module that
// defines the owning struct so cross-module references resolve without
// holding a direct pointer (§9 "Cross-module reference by ID").
type FieldID struct {
	Module ModuleID
	Index  int
}

// FunctionID identifies a function, qualified by its defining module.
type FunctionID struct {
	Module ModuleID
	Index  int
}

// StructID identifies a struct definition, qualified by its defining
// module. Shares its shape with types.StructID (see ToTypeID) so a
// types.Type can carry the same identity without this package importing
// types for the reverse direction.
type StructID struct {
	Module ModuleID
	Index  int
}
