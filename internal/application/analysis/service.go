package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/drcalm/internal/application"
	domain "github.com/bryanwahyu/drcalm/internal/domain/analysis"
	"github.com/bryanwahyu/drcalm/internal/domain/illustration"
	"github.com/bryanwahyu/drcalm/internal/infra/ai/prompt"
)

const (
	DefaultTextTimeout  = 90 * time.Second
	DefaultImageTimeout = 60 * time.Second

	defaultImageMIME = "image/png"
)

// Service implements the analyze use-case.
// Service is safe for concurrent use; every call works on its own Result.
type Service struct {
	text    domain.TextGenerator
	images  domain.ImageGenerator
	catalog illustration.Catalog

	log      *zap.Logger
	recorder domain.Recorder
	clock    application.Clock

	systemInstruction string
	textTimeout       time.Duration
	imageTimeout      time.Duration
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithRecorder(r domain.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithClock(c application.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithTimeouts sets the per-call deadlines. Zero keeps the default.
func WithTimeouts(text, image time.Duration) Option {
	return func(s *Service) {
		if text > 0 {
			s.textTimeout = text
		}
		if image > 0 {
			s.imageTimeout = image
		}
	}
}

// NewService wires the orchestrator. images may be nil, in which case no
// image is ever generated. catalog may be nil, in which case every result
// falls through to pathology image generation.
func NewService(text domain.TextGenerator, images domain.ImageGenerator, catalog illustration.Catalog, opts ...Option) *Service {
	s := &Service{
		text:              text,
		images:            images,
		catalog:           catalog,
		log:               zap.NewNop(),
		recorder:          nopRecorder{},
		clock:             application.SystemClock{},
		systemInstruction: prompt.GetSystemPrompt(),
		textTimeout:       DefaultTextTimeout,
		imageTimeout:      DefaultImageTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze turns a symptom description into a Result. The structured text
// call must succeed; image calls only decide whether ImageURL and
// ActionImageURL are set.
func (s *Service) Analyze(ctx context.Context, request string) (*domain.Result, error) {
	if strings.TrimSpace(request) == "" {
		return nil, domain.ErrEmptyRequest
	}
	start := s.clock.Now()

	res, err := s.analyzeText(ctx, request)
	if err != nil {
		s.recorder.AnalysisDone(false)
		s.log.Error("analysis failed",
			zap.Duration("duration", application.Since(s.clock, start)),
			zap.Error(err))
		return nil, err
	}

	s.renderImages(ctx, res)
	s.recorder.AnalysisDone(true)

	s.log.Info("analysis completed",
		zap.String("risk_level", string(res.RiskLevel)),
		zap.String("affected_system", string(res.AffectedSystem)),
		zap.String("illustration_id", res.StandardIllustrationID),
		zap.Bool("image", res.ImageURL != ""),
		zap.Bool("action_image", res.ActionImageURL != ""),
		zap.Duration("duration", application.Since(s.clock, start)))
	return res, nil
}

func (s *Service) analyzeText(ctx context.Context, request string) (*domain.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.textTimeout)
	defer cancel()

	raw, err := s.text.GenerateStructured(ctx, request, s.systemInstruction, domain.ResultSchema())
	if err != nil {
		return nil, fmt.Errorf("generate analysis: %w", err)
	}
	res, err := domain.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return res, nil
}

// renderImages runs both image calls concurrently and waits for both.
// Goroutines never return an error so one failure cannot cancel the other.
func (s *Service) renderImages(ctx context.Context, res *domain.Result) {
	if s.images == nil {
		s.recorder.ImageDone(domain.ImagePathology, domain.ImageSkipped)
		s.recorder.ImageDone(domain.ImageAction, domain.ImageSkipped)
		return
	}

	var (
		g         errgroup.Group
		imageURL  string
		actionURL string
	)

	if s.hasStandardIllustration(res.StandardIllustrationID) {
		s.recorder.ImageDone(domain.ImagePathology, domain.ImageSkipped)
	} else {
		pathologyPrompt := prompt.PathologyImagePrompt(res.VisualLabel, res.VisualConcept)
		g.Go(func() error {
			imageURL = s.generateImage(ctx, domain.ImagePathology, pathologyPrompt)
			return nil
		})
	}

	actionPrompt := prompt.ActionImagePrompt(res.ActionVisualConcept)
	g.Go(func() error {
		actionURL = s.generateImage(ctx, domain.ImageAction, actionPrompt)
		return nil
	})

	_ = g.Wait()
	res.ImageURL = imageURL
	res.ActionImageURL = actionURL
}

func (s *Service) hasStandardIllustration(id string) bool {
	if s.catalog == nil || strings.TrimSpace(id) == "" {
		return false
	}
	return s.catalog.Lookup(id) != ""
}

// generateImage returns a data URI, or "" when the call failed or produced
// nothing.
func (s *Service) generateImage(ctx context.Context, kind domain.ImageKind, p string) string {
	ctx, cancel := context.WithTimeout(ctx, s.imageTimeout)
	defer cancel()

	start := s.clock.Now()
	img, err := s.images.GenerateImage(ctx, p)
	if err != nil {
		s.recorder.ImageDone(kind, domain.ImageFailed)
		s.log.Warn("image generation failed",
			zap.String("kind", string(kind)),
			zap.Duration("duration", application.Since(s.clock, start)),
			zap.Error(err))
		return ""
	}
	if img == nil || len(img.Data) == 0 {
		s.recorder.ImageDone(kind, domain.ImageEmpty)
		s.log.Info("image model returned no image", zap.String("kind", string(kind)))
		return ""
	}

	s.recorder.ImageDone(kind, domain.ImageGenerated)
	return DataURI(img)
}

// DataURI encodes img as data:<mime>;base64,<data>.
func DataURI(img *domain.Image) string {
	mime := strings.TrimSpace(img.MIMEType)
	if mime == "" {
		mime = defaultImageMIME
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

type nopRecorder struct{}

func (nopRecorder) AnalysisDone(bool)                               {}
func (nopRecorder) ImageDone(domain.ImageKind, domain.ImageOutcome) {}
