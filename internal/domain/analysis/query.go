package analysis

import "strings"

// BodyPart enum used by the guided picker.
type BodyPart string

const (
	PartHead    BodyPart = "Head"
	PartChest   BodyPart = "Chest"
	PartAbdomen BodyPart = "Abdomen"
	PartArms    BodyPart = "Arms"
	PartLegs    BodyPart = "Legs"
	PartGeneral BodyPart = "General"
)

// BodyParts in picker order.
var BodyParts = []BodyPart{PartHead, PartChest, PartAbdomen, PartArms, PartLegs, PartGeneral}

// ParseBodyPart matches s case-insensitively against the picker regions.
func ParseBodyPart(s string) (BodyPart, bool) {
	s = strings.TrimSpace(s)
	for _, p := range BodyParts {
		if strings.EqualFold(string(p), s) {
			return p, true
		}
	}
	return "", false
}

// SymptomOptions are the follow-up symptom tags offered per body part.
var SymptomOptions = map[BodyPart][]string{
	PartHead:    {"头痛", "头晕", "发热", "失眠", "视力模糊", "耳鸣", "颈部僵硬"},
	PartChest:   {"胸闷", "心慌", "咳嗽", "呼吸困难", "刺痛", "压迫感", "咳痰"},
	PartAbdomen: {"胃痛", "腹胀", "拉肚子", "便秘", "反酸", "恶心", "食欲不振"},
	PartArms:    {"酸痛", "麻木", "无力", "关节痛", "肿胀", "活动受限", "皮疹"},
	PartLegs:    {"膝盖痛", "水肿", "抽筋", "发麻", "行走困难", "静脉曲张", "脚踝扭伤"},
	PartGeneral: {"高烧", "低烧", "疲劳", "浑身无力", "体重下降", "异常出汗", "发冷"},
}

// GuidedQuery is the picker input: a body region, symptom tags and notes.
type GuidedQuery struct {
	BodyPart string   `json:"bodyPart"`
	Symptoms []string `json:"symptoms"`
	Notes    string   `json:"notes"`
}

// IsEmpty reports whether the picker carries anything worth analysing.
// A body part alone is not enough.
func (q GuidedQuery) IsEmpty() bool {
	return len(q.cleanSymptoms()) == 0 && strings.TrimSpace(q.Notes) == ""
}

func (q GuidedQuery) cleanSymptoms() []string {
	out := make([]string, 0, len(q.Symptoms))
	for _, s := range q.Symptoms {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// BuildQuery turns picker selections into one natural-language request.
// It returns "" when the query is empty.
func BuildQuery(q GuidedQuery) string {
	if q.IsEmpty() {
		return ""
	}
	var b strings.Builder
	if part := strings.TrimSpace(q.BodyPart); part != "" {
		b.WriteString("部位：" + part + "。")
	}
	if symptoms := q.cleanSymptoms(); len(symptoms) > 0 {
		b.WriteString(" 主要症状：" + strings.Join(symptoms, ", ") + "。")
	}
	if notes := strings.TrimSpace(q.Notes); notes != "" {
		b.WriteString(" 补充描述：" + notes)
	}
	return strings.TrimSpace(b.String())
}
