// Package manifest reads and validates the package.json of a scaffolded
// project. Validation runs against an embedded JSON Schema that requires the
// project name and the convenience scripts registered by the quality stage.
package manifest
