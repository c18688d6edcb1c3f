// Package workflow drives the consulting pipeline: profile and market analysis
// in parallel, item recommendation, one roadmap per item in parallel, then
// deterministic assembly of the final report. Joins are all-or-nothing and
// roadmap order always mirrors item order.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/agent"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/report"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/schema"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/session"
)

// AppName scopes all workflow sessions.
const AppName = "codyssey"

const sessionUser = "workflow_user"

// expectedItemCount is the number of items the recommender is instructed to
// return.
const expectedItemCount = 3

// State is a lifecycle phase of one workflow run.
type State string

const (
	StateInit               State = "INIT"
	StateProfilingAndMarket State = "PROFILING_AND_MARKET"
	StateRecommending       State = "RECOMMENDING"
	StateRoadmapping        State = "ROADMAPPING"
	StateAssembling         State = "ASSEMBLING"
	StateDone               State = "DONE"
	StateFailed             State = "FAILED"
)

// RunStore persists run lifecycle and the final report. Implementations must
// tolerate being called from the workflow goroutine.
type RunStore interface {
	CreateRun(ctx context.Context, sessionID string, region string) (int64, error)
	MarkRun(ctx context.Context, runID int64, state string) error
	SaveFinalReport(ctx context.Context, runID int64, rep *schema.FinalReport) error
}

// Orchestrator owns the agents and runs the pipeline. One Orchestrator serves
// any number of concurrent runs; each run gets its own session.
type Orchestrator struct {
	cm       model.BaseChatModel
	sessions session.Service
	store    RunStore
	log      *logrus.Logger

	strictItemCount bool
	runnerOpts      []agent.Option

	profiler    *agent.Agent
	analyst     *agent.Agent
	recommender *agent.Agent
	architect   *agent.Agent
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithStore persists run state and final reports.
func WithStore(st RunStore) OrchestratorOption {
	return func(o *Orchestrator) { o.store = st }
}

// WithLogger overrides the default logger.
func WithLogger(log *logrus.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.log = log }
}

// WithStrictItemCount makes any item count other than three a hard failure.
// By default a mismatch is only logged; zero items always fails.
func WithStrictItemCount() OrchestratorOption {
	return func(o *Orchestrator) { o.strictItemCount = true }
}

// WithRunnerOptions forwards options to the per-run agent runner, e.g. rate
// limiting or per-call timeouts.
func WithRunnerOptions(opts ...agent.Option) OrchestratorOption {
	return func(o *Orchestrator) { o.runnerOpts = append(o.runnerOpts, opts...) }
}

// WithSessionService overrides the in-memory session service.
func WithSessionService(svc session.Service) OrchestratorOption {
	return func(o *Orchestrator) { o.sessions = svc }
}

// NewOrchestrator builds the pipeline around one chat model.
func NewOrchestrator(cm model.BaseChatModel, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		cm:          cm,
		sessions:    session.NewInMemoryService(),
		log:         logrus.StandardLogger(),
		profiler:    agent.NewProfiler(),
		analyst:     agent.NewMarketAnalyst(),
		recommender: agent.NewItemRecommender(),
		architect:   agent.NewRoadmapArchitect(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Result is the outcome of an asynchronous run.
type Result struct {
	Report *schema.FinalReport
	Err    error
}

// Go starts a run in the background and delivers exactly one Result on the
// returned channel.
func (o *Orchestrator) Go(ctx context.Context, personal schema.PersonalInfo, project schema.ProjectInfo) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		rep, err := o.Run(ctx, personal, project)
		ch <- Result{Report: rep, Err: err}
		close(ch)
	}()
	return ch
}

// Run executes the full pipeline synchronously. Any stage failure aborts the
// run; sibling calls already in flight are cancelled through the group
// context.
func (o *Orchestrator) Run(ctx context.Context, personal schema.PersonalInfo, project schema.ProjectInfo) (*schema.FinalReport, error) {
	if err := schema.ValidatePersonalInfo(&personal); err != nil {
		return nil, err
	}
	if err := schema.ValidateProjectInfo(&project); err != nil {
		return nil, err
	}

	run := &runContext{
		orchestrator: o,
		sessionID:    uuid.NewString(),
		state:        StateInit,
	}
	sess, err := o.sessions.Create(AppName, sessionUser, run.sessionID)
	if err != nil {
		return nil, fmt.Errorf("create workflow session: %w", err)
	}
	defer o.sessions.Delete(AppName, sessionUser, run.sessionID)
	run.runner = agent.NewRunner(o.cm, sess, o.runnerOpts...)

	if o.store != nil {
		runID, serr := o.store.CreateRun(ctx, run.sessionID, project.Region)
		if serr != nil {
			return nil, fmt.Errorf("create run record: %w", serr)
		}
		run.runID = runID
	}

	rep, err := run.execute(ctx, personal, project)
	if err != nil {
		run.transition(StateFailed)
		run.persistState(ctx)
		return nil, err
	}
	run.transition(StateDone)
	run.persistState(ctx)
	if o.store != nil {
		if serr := o.store.SaveFinalReport(ctx, run.runID, rep); serr != nil {
			o.log.Errorf("workflow [%s] persist report failed: %v", run.sessionID, serr)
		}
	}
	return rep, nil
}

// runContext tracks per-run mutable state.
type runContext struct {
	orchestrator *Orchestrator
	runner       *agent.Runner
	sessionID    string
	runID        int64
	state        State
}

func (rc *runContext) transition(next State) {
	rc.orchestrator.log.Infof("workflow [%s] %s -> %s", rc.sessionID, rc.state, next)
	rc.state = next
}

func (rc *runContext) persistState(ctx context.Context) {
	o := rc.orchestrator
	if o.store == nil {
		return
	}
	if err := o.store.MarkRun(ctx, rc.runID, string(rc.state)); err != nil {
		o.log.Errorf("workflow [%s] mark run %s failed: %v", rc.sessionID, rc.state, err)
	}
}

func (rc *runContext) execute(ctx context.Context, personal schema.PersonalInfo, project schema.ProjectInfo) (*schema.FinalReport, error) {
	o := rc.orchestrator

	// Phase 1: profiler and market analyst run concurrently and both must
	// succeed before anything downstream starts.
	rc.transition(StateProfilingAndMarket)
	rc.persistState(ctx)

	profileQuery, err := agent.BuildQuery(personal)
	if err != nil {
		return nil, err
	}
	marketQuery, err := agent.BuildQuery(project)
	if err != nil {
		return nil, err
	}

	var profileRaw, marketRaw json.RawMessage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := rc.runner.Invoke(gctx, o.profiler, profileQuery)
		if err != nil {
			return err
		}
		profileRaw = raw
		return nil
	})
	g.Go(func() error {
		raw, err := rc.runner.Invoke(gctx, o.analyst, marketQuery)
		if err != nil {
			return err
		}
		marketRaw = raw
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The market list is decoded immediately after the join: an empty list
	// must abort the run before the recommender is ever invoked.
	marketList, err := schema.DecodeMarketAnalysisList(marketRaw)
	if err != nil {
		return nil, err
	}
	if len(marketList.MarketAnalyses) == 0 {
		return nil, &EmptyMarketDataError{Region: project.Region}
	}
	o.log.Infof("workflow [%s] market analysis covered %d sub-districts of %s",
		rc.sessionID, len(marketList.MarketAnalyses), project.Region)

	// Phase 2: recommend items from the combined phase-1 artifacts. The
	// profile and market payloads pass through as the agents produced them.
	rc.transition(StateRecommending)
	rc.persistState(ctx)

	itemQuery, err := agent.BuildQuery(profileRaw, project, marketRaw)
	if err != nil {
		return nil, err
	}
	itemsRaw, err := rc.runner.Invoke(ctx, o.recommender, itemQuery)
	if err != nil {
		return nil, err
	}

	itemList, err := schema.DecodeRecommendedItemList(itemsRaw)
	if err != nil {
		return nil, err
	}
	if n := len(itemList.RecommendedItems); n != expectedItemCount {
		if n == 0 || o.strictItemCount {
			return nil, &CardinalityMismatchError{Expected: expectedItemCount, Got: n}
		}
		o.log.Warnf("workflow [%s] recommender returned %d items, expected %d",
			rc.sessionID, n, expectedItemCount)
	}

	// Phase 3: one roadmap per item, fanned out concurrently. Results are
	// stored by input index so roadmaps[i] always belongs to items[i]
	// regardless of completion order.
	rc.transition(StateRoadmapping)
	rc.persistState(ctx)

	itemRaws, err := splitItems(itemsRaw)
	if err != nil {
		return nil, err
	}
	roadmapRaws := make([]json.RawMessage, len(itemRaws))
	g, gctx = errgroup.WithContext(ctx)
	for i, itemRaw := range itemRaws {
		g.Go(func() error {
			query, err := agent.BuildQuery(profileRaw, project, itemRaw)
			if err != nil {
				return err
			}
			raw, err := rc.runner.Invoke(gctx, o.architect, query)
			if err != nil {
				return err
			}
			roadmapRaws[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Phase 4: strict typed decoding of every artifact, then pure assembly.
	rc.transition(StateAssembling)
	rc.persistState(ctx)

	persona, err := schema.DecodePersonaProfile(profileRaw)
	if err != nil {
		return nil, err
	}
	roadmaps := make([]schema.Roadmap, len(roadmapRaws))
	for i, raw := range roadmapRaws {
		rm, err := schema.DecodeRoadmap(raw)
		if err != nil {
			return nil, err
		}
		roadmaps[i] = *rm
	}

	return report.Assemble(persona, marketList.MarketAnalyses, itemList.RecommendedItems, roadmaps), nil
}

// splitItems re-slices the recommender answer into one raw JSON document per
// item, preserving each item's exact serialized form for the architect.
func splitItems(itemsRaw json.RawMessage) ([]json.RawMessage, error) {
	var wrapper struct {
		RecommendedItems []json.RawMessage `json:"recommended_items"`
	}
	if err := json.Unmarshal(itemsRaw, &wrapper); err != nil {
		return nil, fmt.Errorf("split recommended items: %w", err)
	}
	return wrapper.RecommendedItems, nil
}
