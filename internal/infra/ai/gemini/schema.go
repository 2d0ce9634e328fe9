package gemini

import (
	"google.golang.org/genai"

	"github.com/bryanwahyu/drcalm/internal/domain/analysis"
)

var schemaTypes = map[analysis.FieldType]genai.Type{
	analysis.TypeObject:  genai.TypeObject,
	analysis.TypeString:  genai.TypeString,
	analysis.TypeArray:   genai.TypeArray,
	analysis.TypeBoolean: genai.TypeBoolean,
}

// toSchema converts the neutral schema tree into a genai response schema.
func toSchema(f analysis.Field) *genai.Schema {
	s := &genai.Schema{
		Type:        schemaTypes[f.Type],
		Description: f.Description,
	}
	if len(f.Enum) > 0 {
		s.Enum = append([]string(nil), f.Enum...)
	}
	if f.Items != nil {
		s.Items = toSchema(*f.Items)
	}
	if len(f.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(f.Properties))
		for name, p := range f.Properties {
			s.Properties[name] = toSchema(p)
		}
	}
	if len(f.PropertyOrder) > 0 {
		s.PropertyOrdering = append([]string(nil), f.PropertyOrder...)
	}
	if len(f.Required) > 0 {
		s.Required = append([]string(nil), f.Required...)
	}
	return s
}
