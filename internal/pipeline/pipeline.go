// Package pipeline assembles a CapitalEvent from one headline: adapter
// cleaning, normalization, frame matching, entity validation, the optional
// inference overlay, fallback entities, filters and decision gates.
package pipeline

import (
	"context"
	"io"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/capevent/internal/cache"
	"github.com/ppiankov/capevent/internal/extract"
	"github.com/ppiankov/capevent/internal/extract/adapters"
	"github.com/ppiankov/capevent/internal/llm"
	"github.com/ppiankov/capevent/internal/model"
	"github.com/ppiankov/capevent/internal/ontology"
	"github.com/ppiankov/capevent/internal/score"
	"github.com/ppiankov/capevent/internal/validate"
)

// Filter reasons
const (
	FilteredTopicHeadline   = "topic_headline"
	FilteredNoValidEntities = "no_valid_entities"
)

type options struct {
	logger        *slog.Logger
	classifier    llm.Classifier
	classifierSet bool
	registry      *ontology.Registry
	cache         cache.Cache
	cacheSet      bool
	adapters      *adapters.Registry
}

// Option configures a Pipeline
type Option func(*options)

// WithLogger sets the logger. The engine only logs at debug level, plus
// warnings for overlay failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClassifier sets the inference overlay; nil disables it even when the
// config names a provider
func WithClassifier(c llm.Classifier) Option {
	return func(o *options) {
		o.classifier = c
		o.classifierSet = true
	}
}

// WithOntology shares a known-entity registry, e.g. one fed by a watcher
func WithOntology(r *ontology.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithCache sets the result cache; nil disables caching
func WithCache(c cache.Cache) Option {
	return func(o *options) {
		o.cache = c
		o.cacheSet = true
	}
}

// WithAdapters replaces the publisher adapter registry
func WithAdapters(r *adapters.Registry) Option {
	return func(o *options) {
		o.adapters = r
	}
}

// Pipeline orchestrates extraction for single headlines. It is safe for
// concurrent use: the only shared mutable state is the ontology registry,
// which swaps whole snapshots atomically.
type Pipeline struct {
	matcher    *extract.Matcher
	adapters   *adapters.Registry
	authority  *validate.AuthorityClassifier
	scorer     *score.Scorer
	registry   *ontology.Registry
	classifier llm.Classifier
	cache      cache.Cache
	fx         map[string]float64
	fxKey      string
	logger     *slog.Logger
	config     *model.Config
}

// NewPipeline creates a new pipeline. Collaborators not supplied through
// options are built from cfg; a nil cfg uses defaults.
func NewPipeline(cfg *model.Config, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	classifier := o.classifier
	if !o.classifierSet && cfg.Overlay.Provider != "" {
		c, err := llm.NewClassifier(llm.ConfigFromModel(cfg.Overlay))
		if err != nil {
			logger.Warn("overlay disabled", "provider", cfg.Overlay.Provider, "error", err)
		} else {
			classifier = c
		}
	}

	resultCache := o.cache
	if !o.cacheSet {
		resultCache = cache.New(cfg.Cache)
	}

	registry := o.registry
	if registry == nil {
		registry = ontology.NewRegistry()
	}

	adapterRegistry := o.adapters
	if adapterRegistry == nil {
		adapterRegistry = adapters.NewRegistry()
	}

	fx := cfg.FX
	if len(fx) == 0 {
		fx = model.DefaultFX()
	}

	return &Pipeline{
		matcher:    extract.NewMatcher(),
		adapters:   adapterRegistry,
		authority:  validate.NewAuthorityClassifier(&cfg.Authority),
		scorer:     score.NewScorer(),
		registry:   registry,
		classifier: classifier,
		cache:      resultCache,
		fx:         fx,
		fxKey:      fxFingerprint(fx),
		logger:     logger,
		config:     cfg,
	}
}

// SetKnownEntities replaces the ontology whitelist. In-flight extractions
// keep the snapshot they started with.
func (p *Pipeline) SetKnownEntities(names []string) {
	snap := p.registry.SetKnownEntities(names)
	p.logger.Debug("ontology replaced", "version", snap.Version(), "entities", snap.Len())
}

// Ontology exposes the registry so watchers can feed it
func (p *Pipeline) Ontology() *ontology.Registry {
	return p.registry
}

// OverlayName returns the active classifier name, or "" when disabled
func (p *Pipeline) OverlayName() string {
	if p.classifier == nil {
		return ""
	}
	return p.classifier.Name()
}

// Extract turns one headline into a CapitalEvent. It never fails: classifier
// errors are logged and skipped, unusable headlines come back FILTERED.
func (p *Pipeline) Extract(ctx context.Context, h model.Headline) *model.CapitalEvent {
	snap := p.registry.Snapshot()
	eventID := EventID(h.Publisher, h.URL)

	var key string
	if p.cache != nil {
		key = cache.Key(eventID, h.Title, h.PublishedAt, snap.Digest(), p.fxKey,
			p.OverlayName(), model.EngineVersion)
		if event, ok := cache.GetEvent(p.cache, key); ok {
			p.logger.Debug("cache hit", "event_id", eventID)
			return event
		}
	}

	event := p.extract(ctx, h, snap, eventID)

	if p.cache != nil {
		if err := cache.PutEvent(p.cache, key, event); err != nil {
			p.logger.Debug("cache write failed", "event_id", eventID, "error", err)
		}
	}
	return event
}

func (p *Pipeline) extract(ctx context.Context, h model.Headline, snap *ontology.Snapshot, eventID string) *model.CapitalEvent {
	notes := []string{}

	// 1. Publisher cleanup and normalization
	cleaned, adapterNotes := p.adapters.Clean(h.Title, h.Publisher, h.URL)
	title, normNotes := extract.NormalizeTitle(cleaned)
	notes = append(notes, adapterNotes...)
	notes = append(notes, normNotes...)

	// 2. One snapshot for the whole headline
	validator := validate.NewEntityValidator(snap)
	accept := validator.IsValidEntityName

	// 3. Frame and slot entities
	frame := p.matcher.Match(title, accept)
	notes = append(notes, frame.Notes...)
	slots := resolveSlots(frame, validator)
	notes = append(notes, slots.notes...)
	entities := slots.entities

	// 4. Amount, round and semantic context never depend on the frame
	amount := extract.ParseAmount(title, p.fx)
	round := extract.ParseRound(title)
	semantic := extract.MineContext(afterVerb(title, frame))

	// 5. Event type from the frame
	frameType := frame.FrameType
	eventType := score.MapEventType(frame.FrameType, frame.PatternID)
	confidence := frame.Confidence
	subject := slots.subject

	// 6. Inference overlay
	overlayUsed := false
	if p.classifier != nil {
		verdict, err := p.classifier.Classify(ctx, title)
		if err != nil {
			p.logger.Warn("overlay classify failed", "provider", p.classifier.Name(), "event_id", eventID, "error", err)
			notes = append(notes, "overlay_error:"+p.classifier.Name())
		} else {
			res := DecideOverlay(OverlayState{
				FrameType:  frameType,
				EventType:  eventType,
				Confidence: confidence,
				Subject:    subject,
			}, p.classifier.Name(), verdict, accept)
			notes = append(notes, res.Notes...)
			if res.Applied {
				overlayUsed = true
				frameType, eventType, confidence = res.FrameType, res.EventType, res.Confidence
				if res.SubjectAdded && !hasEntity(entities, *res.Subject) {
					subject = res.Subject
					entities = append(entities, model.Entity{
						Name:          *res.Subject,
						Role:          model.RoleSubject,
						Provenance:    model.ProvenanceOverlay,
						Confidence:    verdict.Confidence,
						OntologyKnown: validator.IsKnown(*res.Subject),
					})
				}
			}
		}
	}

	// 7. Heuristic entities when nothing matched
	if frame.FrameType == model.FrameUnknown && len(entities) == 0 {
		fb := extract.FallbackEntities(title, accept)
		if len(fb.Entities) > 0 {
			entities = markKnown(fb.Entities, validator)
			notes = append(notes, "fallback:"+fb.Strategy)
		}
	}

	// 8. Filters
	topic := extract.IsTopicHeadline(title)
	var filteredReason string
	switch {
	case topic:
		filteredReason = FilteredTopicHeadline
	case len(entities) == 0:
		filteredReason = FilteredNoValidEntities
	}
	if filteredReason != "" {
		eventType = model.EventFiltered
		confidence = 0
		notes = append(notes, "filtered:"+filteredReason)
	}

	// 9. Gates
	gates := p.scorer.Evaluate(score.GateInput{
		EventType:    eventType,
		Confidence:   confidence,
		Entities:     entities,
		TopicFlagged: topic,
		EntityValid:  validate.IsValidEntityName,
	})
	if !gates.GraphSafe {
		notes = append(notes, "graph_unsafe:"+gates.GraphUnsafeReason)
	}

	if entities == nil {
		entities = []model.Entity{}
	}

	event := &model.CapitalEvent{
		SchemaVersion:   model.SchemaVersion,
		EngineVersion:   model.EngineVersion,
		EventID:         eventID,
		OccurredAt:      occurredAt(h),
		Source:          p.source(h),
		EventType:       eventType,
		Verb:            frame.VerbLabel,
		FrameType:       frameType,
		FrameConfidence: confidence,
		Subject:         subject,
		Object:          slots.object,
		Tertiary:        slots.tertiary,
		Entities:        entities,
		SemanticContext: semantic,
		Amount:          amount,
		Round:           round,
		Notes:           notes,
		Extraction: model.Extraction{
			PatternID:      frame.PatternID,
			FilteredReason: filteredReason,
			FallbackUsed:   gates.FallbackUsed,
			Decision:       gates.Decision,
			GraphSafe:      gates.GraphSafe,
			RejectReason:   gates.RejectReason,
			OverlayUsed:    overlayUsed,
		},
	}

	p.logger.Debug("extracted headline",
		"event_id", eventID,
		"event_type", eventType,
		"pattern", frame.PatternID,
		"entities", len(entities),
		"graph_safe", gates.GraphSafe,
		"snapshot", snap.Version(),
	)
	return event
}

func (p *Pipeline) source(h model.Headline) model.Source {
	src := model.Source{
		Publisher: h.Publisher,
		URL:       h.URL,
		Title:     h.Title,
	}
	if h.PublishedAt != "" {
		published := h.PublishedAt
		src.PublishedAt = &published
	}
	if tier := p.authority.Classify(h.URL); tier != model.TierUnknown {
		src.Authority = tier.String()
	}
	return src
}

// occurredAt uses the headline's own timestamp only, never the wall clock,
// so extraction stays idempotent
func occurredAt(h model.Headline) *string {
	t, ok := h.PublishedTime()
	if !ok {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func hasEntity(entities []model.Entity, name string) bool {
	for _, e := range entities {
		if e.Name == name {
			return true
		}
	}
	return false
}

// fxFingerprint renders the rate table in a stable order for cache keys
func fxFingerprint(fx map[string]float64) string {
	codes := make([]string, 0, len(fx))
	for code := range fx {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%s=%g", code, fx[code]))
	}
	return strings.Join(parts, ",")
}
