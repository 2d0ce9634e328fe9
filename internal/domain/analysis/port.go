package analysis

import "context"

// TextGenerator port (structured text generation)
type TextGenerator interface {
	// GenerateStructured returns the raw JSON text produced for prompt under
	// the given system instruction and output schema.
	GenerateStructured(ctx context.Context, prompt, systemInstruction string, schema Field) (string, error)
}

// ImageGenerator port (image generation)
type ImageGenerator interface {
	// GenerateImage returns nil, nil when the model produced no image.
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
}

// Recorder receives outcome counters from the orchestrator.
type Recorder interface {
	AnalysisDone(ok bool)
	ImageDone(kind ImageKind, outcome ImageOutcome)
}

// ImageKind names the two secondary image tasks.
type ImageKind string

const (
	ImagePathology ImageKind = "pathology"
	ImageAction    ImageKind = "action"
)

// ImageOutcome enum
type ImageOutcome string

const (
	ImageGenerated ImageOutcome = "generated"
	ImageEmpty     ImageOutcome = "empty"
	ImageFailed    ImageOutcome = "failed"
	ImageSkipped   ImageOutcome = "skipped"
)
