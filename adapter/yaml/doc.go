// Package yaml provides the structured-document adapter for YAML files.
//
// This package uses github.com/goccy/go-yaml. The document is decoded into an
// ordered tree (yaml.MapSlice for mappings) so Save keeps the original key
// order. Query strings are either YAMLPath expressions or colon-separated
// key paths, which are converted internally:
//
//	"$.api.permissions[0]"  -> used as is
//	"api:permissions"       -> "$.api.permissions"
//
// Set only accepts plain key paths ("a:b" or "$.a.b"); selectors such as
// indexes, wildcards or recursive descent cannot be synthesized.
// Key sequences walk mappings by key and sequences by numeric index.
package yaml
