// Package openapi is the typed, read-only model of an OpenAPI 3.x document.
//
// Build converts the ordered value tree produced by the source package into
// a Document. Declaration order of paths, methods, parameters, properties and
// content types is preserved. The model never changes after Build returns.
package openapi

import "github.com/reoring/oasmd/tree"

// Methods lists the path item keys that are operations, in canonical order.
var Methods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// Document is the root of the model.
type Document struct {
	// Raw is the source tree; deep references are resolved against it.
	Raw        *tree.Object
	OpenAPI    string
	Info       Info
	Servers    []Server
	Tags       []Tag
	Paths      []*PathItem
	Security   []SecurityRequirement
	Components Components
}

// Info is the document's info object.
type Info struct {
	Title       string
	Version     string
	Description string
}

// Server is one entry of servers.
type Server struct {
	URL         string
	Description string
}

// Tag is a top-level tag declaration.
type Tag struct {
	Name        string
	Description string
}

// Components holds the named reusable schemas.
type Components struct {
	Schemas *Schemas
}

// Schemas is an ordered name -> schema mapping.
type Schemas struct {
	names  []string
	byName map[string]*Schema
}

// Names returns schema names in declaration order.
func (s *Schemas) Names() []string {
	if s == nil {
		return nil
	}
	return s.names
}

// Get returns the schema registered under name.
func (s *Schemas) Get(name string) (*Schema, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.byName[name]
	return v, ok
}

// Len returns the number of schemas.
func (s *Schemas) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

func (s *Schemas) add(name string, sc *Schema) {
	if s.byName == nil {
		s.byName = make(map[string]*Schema)
	}
	if _, ok := s.byName[name]; !ok {
		s.names = append(s.names, name)
	}
	s.byName[name] = sc
}

// PathItem groups the operations declared under one path.
type PathItem struct {
	Path       string
	Operations []*Operation
}

// Operation is one HTTP method on one path.
type Operation struct {
	Method      string // lower case
	Path        string
	Pointer     string
	Tags        []string
	Summary     string
	Description string
	OperationID string
	Deprecated  bool
	Parameters  []*Parameter
	RequestBody *RequestBody
	// Responses is nil when the operation has no responses object.
	Responses []*Response
	// Security is nil when neither the operation nor the document declares it.
	Security []SecurityRequirement
}

// Parameter is an operation or path-level parameter.
type Parameter struct {
	// Ref is the $ref the parameter was reached through, if any.
	Ref         string
	Unresolved  bool
	Name        string
	In          string
	Description string
	Required    bool
	Deprecated  bool
	Schema      *Schema
	Content     []*MediaType
}

// RequestBody is an operation's request body.
type RequestBody struct {
	Ref         string
	Unresolved  bool
	Description string
	Required    bool
	Content     []*MediaType
}

// Response is one entry of an operation's responses.
type Response struct {
	Code        string
	Ref         string
	Unresolved  bool
	Description string
	Headers     []*Header
	Content     []*MediaType
}

// Header is a response header.
type Header struct {
	Name        string
	Ref         string
	Unresolved  bool
	Description string
	Required    bool
	Schema      *Schema
}

// MediaType is one content-type entry of a content map.
type MediaType struct {
	ContentType string
	Schema      *Schema
}

// SecurityRequirement is one alternative of a security list; all schemes
// inside it apply together.
type SecurityRequirement struct {
	Schemes []SecurityScheme
}

// SecurityScheme names a scheme and the scopes required from it.
type SecurityScheme struct {
	Name   string
	Scopes []string
}
