package analysis

import (
	"context"
	"cooked/internal/classify"
	"cooked/internal/extract"
	"cooked/internal/metrics"
	"cooked/internal/rating"
	"cooked/internal/schedule"
	"cooked/internal/score"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/iter"
)

// UpstreamError reports a failed call to an external collaborator
// (the classifier model or the extraction model).
type UpstreamError struct {
	Collaborator string
	Err          error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Collaborator, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Analyzer scores whole schedules: it validates the input, resolves each course's
// type and professor rating, scores every course and aggregates the result.
//
// Per-course lookups run concurrently, bounded by concurrency, and results keep
// the input order. External calls are made once, without retry.
type Analyzer struct {
	classifier  classify.Classifier // resolves types of classes submitted without one
	ratings     rating.Lookup       // professor ratings; nil disables lookups
	extractor   extract.Extractor   // turns documents into class inputs
	calculator  *score.Calculator   // deterministic scoring
	concurrency int                 // maximum concurrent per-course lookups
}

// Analyze validates and scores a schedule.
// Invalid input is rejected with *schedule.ValidationError before any lookup.
// A failed rating lookup is logged and the class is scored without professor data;
// a failed classification aborts the analysis with *UpstreamError.
func (a *Analyzer) Analyze(ctx context.Context, inputs []schedule.ClassInput) (schedule.AnalysisResult, error) {
	inputs = schedule.Normalize(inputs)
	if err := schedule.Validate(inputs); err != nil {
		return schedule.AnalysisResult{}, err
	}

	mapper := iter.Mapper[schedule.ClassInput, schedule.ClassScore]{MaxGoroutines: a.concurrency}
	classes, err := mapper.MapErr(inputs, func(in *schedule.ClassInput) (schedule.ClassScore, error) {
		return a.scoreClass(ctx, *in)
	})
	if err != nil {
		return schedule.AnalysisResult{}, err
	}

	result := a.calculator.Aggregate(classes)
	metrics.ObserveOverallScore(result.OverallScore)
	slog.Info("[Analyzer] schedule analyzed",
		"classes", len(result.Classes),
		"totalUnits", result.TotalUnits,
		"overallScore", result.OverallScore,
		"label", result.VerbalLabel)

	return result, nil
}

// AnalyzeDocument extracts the classes of a document and analyzes them.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, doc extract.Document) (schedule.AnalysisResult, error) {
	inputs, err := a.Extract(ctx, doc)
	if err != nil {
		return schedule.AnalysisResult{}, err
	}
	return a.Analyze(ctx, inputs)
}

// Extract turns a document into class inputs without scoring them.
// ErrNoClasses, ErrUnsupportedDocument and ErrUnreadableDocument are returned as is,
// other failures are wrapped in *UpstreamError.
func (a *Analyzer) Extract(ctx context.Context, doc extract.Document) ([]schedule.ClassInput, error) {
	inputs, err := a.extractor.Extract(ctx, doc)
	switch {
	case err == nil:
		return schedule.Normalize(inputs), nil
	case errors.Is(err, extract.ErrNoClasses),
		errors.Is(err, extract.ErrUnsupportedDocument),
		errors.Is(err, extract.ErrUnreadableDocument):
		return nil, err
	default:
		return nil, &UpstreamError{Collaborator: "extractor", Err: err}
	}
}

func (a *Analyzer) scoreClass(ctx context.Context, in schedule.ClassInput) (schedule.ClassScore, error) {
	courseType := in.Type
	if courseType == "" {
		var err error
		courseType, err = a.classifier.Classify(ctx, in.CourseName)
		if err != nil {
			return schedule.ClassScore{}, &UpstreamError{Collaborator: "classifier", Err: err}
		}
	}
	in.Type = courseType

	var professorRating *schedule.ProfessorRating
	if a.ratings != nil {
		var err error
		professorRating, err = a.ratings.LookupRating(ctx, in.Professor)
		if err != nil {
			slog.Warn("[Analyzer] rating lookup failed, scoring without professor data",
				"professor", in.Professor, "error", err)
			professorRating = nil
		}
	}
	if !professorRating.HasData() {
		professorRating = nil
	}

	classScore, explanation := a.calculator.ScoreClass(in, courseType, professorRating)
	return schedule.ClassScore{
		ClassInput:      in,
		ProfessorRating: professorRating,
		Score:           classScore,
		Explanation:     explanation,
	}, nil
}

// NewAnalyzer creates an analyzer.
// Parameters:
//   - classifier: course type classifier
//   - ratings: professor rating lookup, may be nil
//   - extractor: document extractor
//   - calculator: score calculator
//   - concurrency: maximum concurrent per-course lookups; 1 makes them sequential
func NewAnalyzer(
	classifier classify.Classifier,
	ratings rating.Lookup,
	extractor extract.Extractor,
	calculator *score.Calculator,
	concurrency int,
) *Analyzer {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Analyzer{
		classifier:  classifier,
		ratings:     ratings,
		extractor:   extractor,
		calculator:  calculator,
		concurrency: concurrency,
	}
}
