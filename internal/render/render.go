// Package render is the seam between the core and whatever produces
// response bodies. The core only picks a template name and assembles the
// context; the renderer turns that into bytes.
package render

import "encoding/json"

// Context is the mapping a feed handler assembles for its template.
type Context map[string]interface{}

// Renderer produces a response body for a template name and context.
type Renderer interface {
	Render(template string, ctx Context) ([]byte, error)
}

// Template names the handlers select per feed kind.
const (
	TemplateIndex   = "index"
	TemplateGroup   = "group"
	TemplateProfile = "profile"
	TemplateFollow  = "follow"
	TemplatePost    = "post"
)

// JSONRenderer renders the context as a JSON document tagged with the
// template name.
type JSONRenderer struct{}

func (JSONRenderer) Render(template string, ctx Context) ([]byte, error) {
	doc := make(map[string]interface{}, len(ctx)+1)
	for k, v := range ctx {
		doc[k] = v
	}
	doc["template"] = template
	return json.Marshal(doc)
}
