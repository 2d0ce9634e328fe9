package analysis

// FieldType is the JSON type of a schema field.
type FieldType string

const (
	TypeObject  FieldType = "object"
	TypeString  FieldType = "string"
	TypeArray   FieldType = "array"
	TypeBoolean FieldType = "boolean"
)

// Field is a provider-neutral description of structured model output.
// AI adapters translate it into their own schema types. Descriptions are
// generation hints, not validation rules.
type Field struct {
	Type        FieldType
	Description string
	Enum        []string
	Items       *Field
	Properties  map[string]Field
	// PropertyOrder keeps the declaration order for providers that honour it.
	PropertyOrder []string
	Required      []string
}

func str(desc string) Field { return Field{Type: TypeString, Description: desc} }

func strList(desc string) Field {
	return Field{Type: TypeArray, Description: desc, Items: &Field{Type: TypeString}}
}

func enumValues[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

var resultOrder = []string{
	"summary",
	"professionalExplanation",
	"explanation",
	"cardSummary",
	"potentialCauses",
	"riskLevel",
	"affectedSystem",
	"standardIllustrationId",
	"visualConcept",
	"visualLabel",
	"visualExplanation",
	"actionVisualConcept",
	"actionVisualCaptions",
	"actionPlan",
	"anxietyRelief",
	"redFlags",
	"references",
}

// RequiredFields are the result keys the model must always return.
var RequiredFields = []string{
	"summary", "professionalExplanation", "explanation", "cardSummary", "potentialCauses",
	"riskLevel", "affectedSystem", "visualConcept", "visualLabel",
	"visualExplanation", "actionPlan", "anxietyRelief", "redFlags", "references",
}

// ResultSchema returns the output contract for the structured text call.
func ResultSchema() Field {
	return Field{
		Type: TypeObject,
		Properties: map[string]Field{
			"summary":                 str("Formal medical term."),
			"professionalExplanation": str("Detailed Doctor style interpretation (approx 150-200 words). Must use newlines to separate paragraphs."),
			"explanation":             str("Detailed Plain language explanation (approx 150-200 words). Must use newlines to separate paragraphs."),
			"cardSummary":             str("A neutral, concise plain-language summary of the mechanism. Strictly around 50 Chinese characters. Do not use ellipses."),
			"potentialCauses":         strList(""),
			"riskLevel": {
				Type:        TypeString,
				Description: "Must be one of: 'Low', 'Medium', 'High'",
				Enum:        enumValues(RiskLevels),
			},
			"affectedSystem": {
				Type:        TypeString,
				Description: "Must be one of: 'Respiratory', 'Digestive', 'Cardiovascular', 'Nervous', 'Musculoskeletal', 'Skin', 'General'",
				Enum:        enumValues(BodySystems),
			},
			"standardIllustrationId": str("ID string from list if match found (e.g. 'GASTRITIS', 'PANCREATITIS', 'CIRRHOSIS'), else empty string."),
			"visualConcept":          str("Visual description for pathology image."),
			"visualLabel":            str("Short title (Max 6 chars). e.g. '发炎的胃'"),
			"visualExplanation":      str("Simple caption (Max 15 words). e.g. '胃壁红肿，像皮肤擦伤一样。'"),
			"actionVisualConcept":    str("Description for action plan image. STRICTLY VISUAL DESCRIPTION ONLY."),
			"actionVisualCaptions":   strList("3 captions explaining the action and its benefit. e.g. '多喝温水 - 稀释胃酸'"),
			"actionPlan": {
				Type: TypeArray,
				Items: &Field{
					Type: TypeObject,
					Properties: map[string]Field{
						"title":       {Type: TypeString},
						"description": {Type: TypeString},
						"isUrgent":    {Type: TypeBoolean},
					},
					PropertyOrder: []string{"title", "description", "isUrgent"},
					Required:      []string{"title", "description", "isUrgent"},
				},
			},
			"anxietyRelief": {Type: TypeString},
			"redFlags":      strList(""),
			"references":    strList(""),
		},
		PropertyOrder: resultOrder,
		Required:      RequiredFields,
	}
}
