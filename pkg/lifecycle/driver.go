package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getmockd/crudcontract/pkg/engine"
	"github.com/getmockd/crudcontract/pkg/expect"
	"github.com/getmockd/crudcontract/pkg/logging"
	"github.com/getmockd/crudcontract/pkg/requestlog"
	"github.com/getmockd/crudcontract/pkg/scenario"
	"github.com/getmockd/crudcontract/pkg/transport"
	"github.com/getmockd/crudcontract/pkg/users"
)

// Driver runs plans against an engine.
type Driver struct {
	engine    *engine.Engine
	transport transport.Transport
	log       *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithTransport sends step calls through t instead of calling the engine
// in-process. Use it to drive an engine behind a running Server.
func WithTransport(t transport.Transport) Option {
	return func(d *Driver) {
		if t != nil {
			d.transport = t
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Driver) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDriver creates a Driver for e.
func NewDriver(e *engine.Engine, opts ...Option) *Driver {
	d := &Driver{
		engine: e,
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.transport == nil {
		d.transport = transport.NewHandler(e.Router())
	}
	d.log = logging.Component(d.log, "lifecycle")
	return d
}

// StepResult is the outcome of one step.
type StepResult struct {
	Name     string         `json:"name"`
	Status   int            `json:"status,omitempty"`
	State    scenario.State `json:"state,omitempty"`
	Duration time.Duration  `json:"duration"`
	Err      error          `json:"-"`
	Error    string         `json:"error,omitempty"`
}

// Passed reports whether the step met its expectation.
func (r StepResult) Passed() bool {
	return r.Err == nil
}

// Report is the outcome of a run. Journal is set when the run failed.
// Unmatched lists the requests answered by the fallback, which on the wire
// look the same as a stubbed 404.
type Report struct {
	Scenario    string              `json:"scenario"`
	Steps       []StepResult        `json:"steps"`
	Ambiguities []engine.Ambiguity  `json:"ambiguities,omitempty"`
	Unmatched   []*requestlog.Entry `json:"unmatched,omitempty"`
	Journal     []*requestlog.Entry `json:"journal,omitempty"`
}

// OK reports whether every step passed.
func (r *Report) OK() bool {
	for _, s := range r.Steps {
		if !s.Passed() {
			return false
		}
	}
	return len(r.Steps) > 0
}

// Summary renders one line per step.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario %q\n", r.Scenario)
	for i, s := range r.Steps {
		mark := "PASS"
		if !s.Passed() {
			mark = "FAIL"
		}
		fmt.Fprintf(&b, "  %d. %-20s %s status=%d state=%q\n", i+1, s.Name, mark, s.Status, s.State)
		if s.Err != nil {
			fmt.Fprintf(&b, "     %s\n", strings.ReplaceAll(s.Err.Error(), "\n", "\n     "))
		}
	}
	for _, a := range r.Ambiguities {
		fmt.Fprintf(&b, "  ambiguous: %s\n", a)
	}
	for _, u := range r.Unmatched {
		fmt.Fprintf(&b, "  unmatched: %s %s (answered %d by the fallback)\n", u.Method, u.Path, u.Status)
	}
	return b.String()
}

// StepError wraps the failure of a named step.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("[%s]: %s", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ErrAmbiguousMatch is returned when a run completed but a request matched
// more than one stub with equal specificity.
var ErrAmbiguousMatch = errors.New("ambiguous stub match")

// Run registers the plan's stubs, walks its steps in order and stops at the
// first failing step. The engine is reset when Run returns, whatever the
// outcome. The returned report is never nil.
func (d *Driver) Run(ctx context.Context, plan Plan) (report *Report, err error) {
	report = &Report{Scenario: plan.Scenario}

	defer d.engine.ResetAll()
	defer func() {
		report.Ambiguities = d.engine.Ambiguities()
		report.Unmatched = d.engine.Unmatched()
		if err == nil && len(report.Ambiguities) > 0 {
			err = fmt.Errorf("%w: %s", ErrAmbiguousMatch, report.Ambiguities[0])
		}
		if err != nil {
			report.Journal = d.engine.Journal().Chronological()
		}
	}()

	if _, err := d.engine.RegisterStubs(plan.Stubs); err != nil {
		return report, fmt.Errorf("failed to register stubs: %w", err)
	}
	d.log.Debug("plan registered", "scenario", plan.Scenario, "stubs", len(plan.Stubs), "steps", len(plan.Steps))

	client := users.NewClient(d.transport)
	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result := d.runStep(ctx, client, plan.Scenario, step)
		report.Steps = append(report.Steps, result)
		if result.Err != nil {
			d.log.Warn("step failed", "scenario", plan.Scenario, "step", step.Name, "error", result.Err)
			return report, &StepError{Step: step.Name, Err: result.Err}
		}
		d.log.Debug("step passed", "scenario", plan.Scenario, "step", step.Name, "status", result.Status)
	}
	return report, nil
}

func (d *Driver) runStep(ctx context.Context, client *users.Client, scenarioName string, step Step) StepResult {
	start := time.Now()
	result := StepResult{Name: step.Name}

	resp, err := step.Call(ctx, client)
	if err == nil {
		result.Status = resp.StatusCode
		err = check(step, resp)
	}
	result.State, _ = d.engine.ScenarioState(scenarioName)
	if err == nil && !step.Expect.State.IsZero() && result.State != step.Expect.State {
		err = &expect.AssertionMismatchError{
			Step:     step.Name,
			Subject:  "scenario state",
			Expected: step.Expect.State,
			Actual:   result.State,
		}
	}
	if err != nil {
		result.Err = err
		result.Error = err.Error()
	}
	result.Duration = time.Since(start)
	return result
}

func check(step Step, resp *transport.Response) error {
	exp := step.Expect
	if exp.Status != 0 {
		if err := expect.Status(step.Name, resp, exp.Status); err != nil {
			return err
		}
	}
	if exp.Record != nil {
		if err := expect.Record(step.Name, resp.Body, *exp.Record); err != nil {
			return err
		}
	}
	if err := expect.Fields(step.Name, resp.Body, exp.Fields); err != nil {
		return err
	}
	return expect.Conditions(step.Name, resp, exp.Conditions)
}
