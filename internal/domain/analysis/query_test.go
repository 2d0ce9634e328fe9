package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name string
		in   GuidedQuery
		want string
	}{
		{
			name: "body part and symptoms",
			in:   GuidedQuery{BodyPart: "Abdomen", Symptoms: []string{"胃痛", "反酸"}},
			want: "部位：Abdomen。 主要症状：胃痛, 反酸。",
		},
		{
			name: "with notes",
			in:   GuidedQuery{BodyPart: "Head", Symptoms: []string{"头痛"}, Notes: "持续三天"},
			want: "部位：Head。 主要症状：头痛。 补充描述：持续三天",
		},
		{
			name: "notes only",
			in:   GuidedQuery{Notes: "  晚上咳嗽 "},
			want: "补充描述：晚上咳嗽",
		},
		{
			name: "blank symptoms dropped",
			in:   GuidedQuery{BodyPart: "Chest", Symptoms: []string{" ", "胸闷"}},
			want: "部位：Chest。 主要症状：胸闷。",
		},
		{
			name: "body part alone is empty",
			in:   GuidedQuery{BodyPart: "Legs"},
			want: "",
		},
		{
			name: "nothing",
			in:   GuidedQuery{},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.in))
		})
	}
}

func TestSymptomOptionsCoverEveryBodyPart(t *testing.T) {
	for _, p := range BodyParts {
		assert.Len(t, SymptomOptions[p], 7, string(p))
	}
	assert.Len(t, SymptomOptions, len(BodyParts))
}

func TestParseBodyPart(t *testing.T) {
	p, ok := ParseBodyPart(" abdomen ")
	assert.True(t, ok)
	assert.Equal(t, PartAbdomen, p)

	_, ok = ParseBodyPart("Tail")
	assert.False(t, ok)
}
