// Package pipeline wires the generate → sanitize → execute → introspect
// stages into one synchronous run. Every stage hands its output exclusively
// to the next; failure at any stage short-circuits into the final report.
// Only configuration problems are fatal to the process — everything the
// pipeline itself hits becomes a reportable outcome.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nibura2002/AI-MIDI-generator/internal/catalog"
	"github.com/nibura2002/AI-MIDI-generator/internal/compose"
	"github.com/nibura2002/AI-MIDI-generator/internal/llm"
	"github.com/nibura2002/AI-MIDI-generator/internal/logger"
	"github.com/nibura2002/AI-MIDI-generator/internal/metrics"
	"github.com/nibura2002/AI-MIDI-generator/internal/midifile"
	"github.com/nibura2002/AI-MIDI-generator/internal/observability"
	"github.com/nibura2002/AI-MIDI-generator/internal/runner"
	"github.com/nibura2002/AI-MIDI-generator/internal/sanitize"
	"github.com/nibura2002/AI-MIDI-generator/internal/store"
)

// Status is the terminal state of one pipeline run
type Status string

const (
	// StatusCompleted: execution succeeded and the artifact was inspected
	// (the summary may still carry a parse error for a malformed artifact)
	StatusCompleted Status = "completed"
	// StatusServiceError: the generation service call failed
	StatusServiceError Status = "service_error"
	// StatusExecutionFailed: the generated program exited non-zero or could
	// not be run
	StatusExecutionFailed Status = "execution_failed"
	// StatusArtifactMissing: execution succeeded but wrote no artifact
	StatusArtifactMissing Status = "artifact_missing"
)

// ProviderResolver picks a generation provider for a model name
type ProviderResolver interface {
	GetProvider(ctx context.Context, model string) (llm.Provider, error)
}

// Executor runs sanitized source as a child process
type Executor interface {
	Execute(ctx context.Context, runID, source string) (*runner.Outcome, error)
}

// Report aggregates everything one run produced. It is the sole object
// returned to the UI boundary.
type Report struct {
	RunID     string `json:"run_id"`
	Model     string `json:"model"`
	Status    Status `json:"status"`
	Prompt    string `json:"prompt"`
	RawOutput string `json:"raw_output,omitempty"`
	Source    string `json:"source,omitempty"`

	Outcome *runner.Outcome   `json:"outcome,omitempty"`
	Summary *midifile.Summary `json:"summary,omitempty"`

	// Request echo, so the summary panel can show requested vs detected
	RequestedTempo    int `json:"requested_tempo"`
	RequestedMeasures int `json:"requested_measures"`

	ArtifactPath string `json:"-"`
	Error        string `json:"error,omitempty"`
}

// Pipeline executes runs. Safe for concurrent use: every run gets its own
// uuid-derived work directory and artifact path, so simultaneous requests
// never share files.
type Pipeline struct {
	providers ProviderResolver
	executor  Executor
	catalog   *catalog.Catalog
	model     string

	// Optional collaborators
	history *store.Store
	metrics *metrics.Client
}

// New assembles a pipeline. history and metricsClient may be nil.
func New(providers ProviderResolver, executor Executor, cat *catalog.Catalog, model string,
	history *store.Store, metricsClient *metrics.Client) *Pipeline {
	return &Pipeline{
		providers: providers,
		executor:  executor,
		catalog:   cat,
		model:     model,
		history:   history,
		metrics:   metricsClient,
	}
}

// Run walks the stages for one validated request and always produces a
// report; the returned error is non-nil only for invalid input. Cancelling
// ctx aborts the generation call and kills the child process.
func (p *Pipeline) Run(ctx context.Context, req *compose.Request) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	runID := uuid.New().String()
	start := time.Now()
	report := &Report{
		RunID:             runID,
		Model:             p.model,
		RequestedTempo:    req.Tempo,
		RequestedMeasures: req.MeasureCount,
	}

	prompt, err := compose.BuildPrompt(req, p.catalog)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	report.Prompt = prompt

	trace := observability.GetClient().StartTrace(ctx, "midi_generation", map[string]interface{}{
		"run_id": runID,
		"genre":  req.Genre,
	})
	defer trace.Finish()

	p.generate(ctx, report, trace)
	if report.Status == StatusServiceError {
		p.finish(report, req, start)
		return report, nil
	}

	report.Source = sanitize.StripFences(report.RawOutput)

	p.execute(ctx, report, runID)
	if report.Status == StatusExecutionFailed {
		p.finish(report, req, start)
		return report, nil
	}

	p.inspect(report)
	p.finish(report, req, start)
	return report, nil
}

// generate calls the provider and stores the raw completion
func (p *Pipeline) generate(ctx context.Context, report *Report, trace *observability.Trace) {
	gen := trace.Generation("generate_source", p.model, nil)
	gen.Input(report.Prompt)
	defer gen.Finish()

	provider, err := p.providers.GetProvider(ctx, p.model)
	if err != nil {
		report.Status = StatusServiceError
		report.Error = err.Error()
		gen.SetLevel("ERROR")
		logger.Error("Provider resolution failed", err, logger.Fields{"run_id": report.RunID, "model": p.model})
		return
	}

	resp, err := provider.Generate(ctx, &llm.GenerationRequest{
		Model:        p.model,
		SystemPrompt: compose.SystemPrompt,
		Prompt:       report.Prompt,
	})
	if err != nil {
		report.Status = StatusServiceError
		report.Error = err.Error()
		gen.SetLevel("ERROR")
		logger.Error("Generation service call failed", err, logger.Fields{"run_id": report.RunID, "model": p.model})
		return
	}

	report.RawOutput = resp.Text
	gen.Output(resp.Text)
}

// execute runs the sanitized source and records the outcome
func (p *Pipeline) execute(ctx context.Context, report *Report, runID string) {
	outcome, err := p.executor.Execute(ctx, runID, report.Source)
	if err != nil {
		// Setup failure: the run never started, which is still reported
		// rather than escalated
		report.Status = StatusExecutionFailed
		report.Error = err.Error()
		logger.Error("Executor setup failed", err, logger.Fields{"run_id": runID})
		return
	}

	report.Outcome = outcome
	report.ArtifactPath = outcome.ArtifactPath
	if p.metrics != nil {
		p.metrics.RecordExecution(outcome.Success, outcome.Duration)
	}
	if !outcome.Success {
		report.Status = StatusExecutionFailed
	}
}

// inspect parses the artifact into a summary; a missing artifact is its own
// reportable condition, distinct from a malformed one
func (p *Pipeline) inspect(report *Report) {
	summary, err := midifile.Inspect(report.ArtifactPath)
	if err != nil {
		if errors.Is(err, midifile.ErrArtifactMissing) {
			report.Status = StatusArtifactMissing
			report.Error = fmt.Sprintf("execution succeeded but %s was not created", compose.ArtifactFileName)
			return
		}
		report.Status = StatusCompleted
		report.Summary = &midifile.Summary{ParseError: err.Error()}
		return
	}

	report.Status = StatusCompleted
	report.Summary = summary
}

// finish logs the terminal state, records metrics, and persists history
func (p *Pipeline) finish(report *Report, req *compose.Request, start time.Time) {
	duration := time.Since(start)
	logger.Info("Pipeline run reported", logger.Fields{
		"run_id":      report.RunID,
		"status":      string(report.Status),
		"duration_ms": duration.Milliseconds(),
	})

	if p.metrics != nil {
		p.metrics.RecordPipelineRun(string(report.Status), duration)
	}

	if p.history == nil {
		return
	}
	record := &store.GenerationRun{
		ID:              report.RunID,
		Genre:           req.Genre,
		Tempo:           req.Tempo,
		KeyCenter:       req.KeyCenter,
		ScaleType:       req.ScaleType,
		MeasureCount:    req.MeasureCount,
		BeatSubdivision: req.BeatSubdivision,
		Model:           report.Model,
		Status:          string(report.Status),
		ArtifactPath:    report.ArtifactPath,
		ErrorText:       report.Error,
	}
	if report.Outcome != nil && !report.Outcome.Success {
		record.ExitCode = report.Outcome.ExitCode
	}
	if report.Summary != nil {
		record.DetectedTempo = report.Summary.DetectedTempo
		record.DurationSeconds = report.Summary.DurationSeconds
	}
	if err := p.history.SaveRun(record); err != nil {
		logger.Error("Failed to persist generation run", err, logger.Fields{"run_id": report.RunID})
	}
}
