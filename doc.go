// Package oasmd renders OpenAPI 3.x documents as Markdown meant for machine
// (LLM) consumption.
//
// The pipeline is:
//
// - source: JSON or YAML bytes -> ordered value tree (declaration order kept)
// - openapi: value tree -> read-only Document model
// - internal/resolve + internal/view: $ref resolution with per-descent cycle detection
// - internal/render: schemas and operations -> markdown blocks
// - internal/assemble: categories, index and components appendix -> output units
// - markdown: blocks -> text
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Soft failures (unresolved references, malformed operations) are collected as Issues and
//   rendered inline; only a structurally invalid root fails the run.
// - Nothing here performs I/O. The output package and cmd/oasmd write files.
//
// Typical usage:
//
//	res, err := oasmd.GenerateFrom("openapi.yaml", data, oasmd.DefaultOptions())
//	for _, u := range res.Units {
//		fmt.Println(u.Key, len(u.Text))
//	}
package oasmd
