package openai

import (
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/bryanwahyu/drcalm/internal/domain/analysis"
)

var dataTypes = map[analysis.FieldType]jsonschema.DataType{
	analysis.TypeObject:  jsonschema.Object,
	analysis.TypeString:  jsonschema.String,
	analysis.TypeArray:   jsonschema.Array,
	analysis.TypeBoolean: jsonschema.Boolean,
}

// toDefinition converts the neutral schema tree into a JSON schema definition.
func toDefinition(f analysis.Field) jsonschema.Definition {
	d := jsonschema.Definition{
		Type:        dataTypes[f.Type],
		Description: f.Description,
	}
	if len(f.Enum) > 0 {
		d.Enum = append([]string(nil), f.Enum...)
	}
	if f.Items != nil {
		items := toDefinition(*f.Items)
		d.Items = &items
	}
	if len(f.Properties) > 0 {
		d.Properties = make(map[string]jsonschema.Definition, len(f.Properties))
		for name, p := range f.Properties {
			d.Properties[name] = toDefinition(p)
		}
	}
	if len(f.Required) > 0 {
		d.Required = append([]string(nil), f.Required...)
	}
	return d
}
