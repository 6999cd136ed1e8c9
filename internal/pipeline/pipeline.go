package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/ignite/payment-assist/internal/email"
	"github.com/ignite/payment-assist/internal/records"
	"github.com/ignite/payment-assist/internal/segment"
)

// Classifier is the trained segment model's request-time contract:
// deterministic, single integer code per input vector, no online learning.
// *segment.Model satisfies it; tests substitute stubs.
type Classifier interface {
	Predict(segment.FeatureVector) (int, error)
	Version() string
	NumClasses() int
}

// Prediction is the result of classifying one customer.
type Prediction struct {
	CustomerID string `json:"customer_id"`
	Code       int    `json:"segment_code"`
	Label      string `json:"predicted_segment"`
}

// GenerateResult is the result of generating a collections email.
type GenerateResult struct {
	CustomerID string             `json:"customer_id"`
	Segment    string             `json:"segment"`
	Email      email.EmailContent `json:"email"`
}

// Pipeline wires the components together. All of them are read-only after
// construction, so a single Pipeline serves unlimited concurrent requests
// without locking.
type Pipeline struct {
	store     *records.Store
	projector *segment.Projector
	model     Classifier
	codec     *segment.LabelCodec
	generator *email.Generator
	cache     *PredictionCache
}

// New assembles a pipeline. A nil model or codec produces a pipeline that
// fails every operation with ErrNotReady, preserving liveness inspection
// when artifact loading failed.
func New(store *records.Store, model Classifier, codec *segment.LabelCodec, generator *email.Generator, cache *PredictionCache) *Pipeline {
	if store == nil {
		store = records.EmptyStore("unconfigured")
	}
	if generator == nil {
		generator = email.NewGenerator()
	}
	return &Pipeline{
		store:     store,
		projector: segment.NewProjector(store.Columns()),
		model:     model,
		codec:     codec,
		generator: generator,
		cache:     cache,
	}
}

// Store exposes the record store for health checks.
func (p *Pipeline) Store() *records.Store { return p.store }

// Ready reports whether the classifier artifacts loaded.
func (p *Pipeline) Ready() bool { return p.model != nil && p.codec != nil }

// ValidateArtifacts verifies the model's output space is a subset of the
// codec's key space, catching model/codec version skew at startup instead of
// per request.
func (p *Pipeline) ValidateArtifacts() error {
	if !p.Ready() {
		return ErrNotReady
	}
	for code := 0; code < p.model.NumClasses(); code++ {
		if _, err := p.codec.Decode(code); err != nil {
			return fmt.Errorf("model emits code %d with no label: %w", code, err)
		}
	}
	return nil
}

// Classify resolves a customer's record, projects its feature vector, runs
// the classifier, and decodes the label. Unknown customers fail with
// ErrNotFound and never reach the classifier.
func (p *Pipeline) Classify(ctx context.Context, customerID string) (*Prediction, error) {
	if !p.Ready() {
		return nil, notReadyErr(records.NormalizeID(customerID))
	}

	rec, err := p.store.Lookup(customerID)
	if err != nil {
		return nil, notFoundErr(records.NormalizeID(customerID), err)
	}

	if pred, ok := p.cache.Get(ctx, rec.CustomerID); ok {
		return pred, nil
	}

	pred, err := p.classifyRecord(rec)
	if err != nil {
		return nil, err
	}

	p.cache.Set(ctx, pred)
	return pred, nil
}

// Generate runs the classify steps, then renders the segment-specific email
// with the customer's personalization fields and the caller's billing
// parameters. Absent personalization attributes degrade to neutral
// placeholders; an unknown segment code still fails, matching Classify.
func (p *Pipeline) Generate(ctx context.Context, customerID string, amountDue float64, dueDate string) (*GenerateResult, error) {
	if !p.Ready() {
		return nil, notReadyErr(records.NormalizeID(customerID))
	}

	rec, err := p.store.Lookup(customerID)
	if err != nil {
		return nil, notFoundErr(records.NormalizeID(customerID), err)
	}

	pred, ok := p.cache.Get(ctx, rec.CustomerID)
	if !ok {
		pred, err = p.classifyRecord(rec)
		if err != nil {
			return nil, err
		}
		p.cache.Set(ctx, pred)
	}

	personalization := email.PersonalizationFrom(rec)
	content := p.generator.Render(pred.Code, rec.CustomerID, amountDue, dueDate, personalization)

	return &GenerateResult{
		CustomerID: rec.CustomerID,
		Segment:    pred.Label,
		Email:      content,
	}, nil
}

// classifyRecord is the shared project → predict → decode path.
func (p *Pipeline) classifyRecord(rec *records.CustomerRecord) (*Prediction, error) {
	vector := p.projector.Project(rec)

	code, err := p.model.Predict(vector)
	if err != nil {
		return nil, internalErr(rec.CustomerID, fmt.Errorf("predict: %w", err))
	}

	label, err := p.codec.Decode(code)
	if err != nil {
		if errors.Is(err, segment.ErrUnknownCode) {
			return nil, unknownCodeErr(rec.CustomerID, err)
		}
		return nil, internalErr(rec.CustomerID, err)
	}

	return &Prediction{
		CustomerID: rec.CustomerID,
		Code:       code,
		Label:      label,
	}, nil
}
