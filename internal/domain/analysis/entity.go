package analysis

import "strings"

// RiskLevel enum
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskLevels lists every accepted risk level in display order.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// BodySystem enum
type BodySystem string

const (
	SystemRespiratory     BodySystem = "Respiratory"
	SystemDigestive       BodySystem = "Digestive"
	SystemCardiovascular  BodySystem = "Cardiovascular"
	SystemNervous         BodySystem = "Nervous"
	SystemMusculoskeletal BodySystem = "Musculoskeletal"
	SystemSkin            BodySystem = "Skin"
	SystemGeneral         BodySystem = "General"
)

// BodySystems lists every accepted affected system.
var BodySystems = []BodySystem{
	SystemRespiratory,
	SystemDigestive,
	SystemCardiovascular,
	SystemNervous,
	SystemMusculoskeletal,
	SystemSkin,
	SystemGeneral,
}

// ParseRiskLevel matches s case-insensitively against the known levels.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	s = strings.TrimSpace(s)
	for _, l := range RiskLevels {
		if strings.EqualFold(string(l), s) {
			return l, true
		}
	}
	return "", false
}

// ParseBodySystem matches s case-insensitively against the known systems.
func ParseBodySystem(s string) (BodySystem, bool) {
	s = strings.TrimSpace(s)
	for _, b := range BodySystems {
		if strings.EqualFold(string(b), s) {
			return b, true
		}
	}
	return "", false
}

// ActionStep value object
type ActionStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsUrgent    bool   `json:"isUrgent"`
}

// Result is the merged analysis returned to the caller. Everything up to
// References comes from the structured text call; the last three fields are
// filled by the image phase and may stay empty.
type Result struct {
	Summary                 string       `json:"summary"`
	ProfessionalExplanation string       `json:"professionalExplanation"`
	Explanation             string       `json:"explanation"`
	CardSummary             string       `json:"cardSummary"`
	PotentialCauses         []string     `json:"potentialCauses"`
	RiskLevel               RiskLevel    `json:"riskLevel"`
	AffectedSystem          BodySystem   `json:"affectedSystem"`
	VisualConcept           string       `json:"visualConcept"`
	VisualLabel             string       `json:"visualLabel"`
	VisualExplanation       string       `json:"visualExplanation"`
	ActionVisualConcept     string       `json:"actionVisualConcept"`
	ActionVisualCaptions    []string     `json:"actionVisualCaptions,omitempty"`
	ActionPlan              []ActionStep `json:"actionPlan"`
	AnxietyRelief           string       `json:"anxietyRelief"`
	RedFlags                []string     `json:"redFlags"`
	References              []string     `json:"references"`

	StandardIllustrationID string `json:"standardIllustrationId,omitempty"`
	ImageURL               string `json:"imageUrl,omitempty"`
	ActionImageURL         string `json:"actionImageUrl,omitempty"`
}

// Image is raw image bytes returned by an image generator.
type Image struct {
	Data     []byte
	MIMEType string
}
