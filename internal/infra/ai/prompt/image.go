package prompt

import (
	"fmt"
	"strings"
)

// DefaultActionConcept is used when the model returns no action visual concept.
const DefaultActionConcept = "Panel 1: Rest; Panel 2: Hydrate; Panel 3: Observe."

// PathologyImagePrompt builds the prompt for the single pathology illustration.
func PathologyImagePrompt(label, concept string) string {
	return fmt.Sprintf("Medical illustration, %s. Style: Minimalist flat vector, educational, clean lines, soothing palette (sage green, soft orange, white). High contrast. No text labels. Content: %s",
		strings.TrimSpace(label), strings.TrimSpace(concept))
}

// ActionImagePrompt builds the 3-panel action plan prompt. The panels line up
// with the three action captions, so the image itself must carry no text.
func ActionImagePrompt(concept string) string {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		concept = DefaultActionConcept
	}
	return `Horizontal 3-panel instructional medical illustration (triptych).
Style: Minimalist flat vector, clean, functional, easy to understand.
Palette: soft sage green, muted teal, warm orange accent. White background.
Layout: Three distinct panels arranged horizontally.
Content: ` + concept + `.
IMPORTANT: NO TEXT, NO LABELS, NO LETTERS, NO NUMBERS inside the image. Purely visual instructions.
Ensure scenes are clearly separated. Simple shapes.`
}
