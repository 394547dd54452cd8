package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
	"github.com/suraj-yadav-aiml/ctpipe/internal/ports"
	ucgate "github.com/suraj-yadav-aiml/ctpipe/internal/usecase/gate"
)

// ReproPipeline reproduces a pipeline: it loads the stage graph, runs stale
// stages in topological order, skips dependents of failures, and evaluates
// the gate when every stage completed.
type ReproPipeline struct {
	root      string
	pipelines ports.PipelineLoader
	configs   ports.ProjectConfigLoader
	runner    ports.StageRunner
	fetcher   ports.DatasetFetcher
	stater    ports.StageStater
	resolver  *domain.VarResolver
}

func NewReproPipeline(
	root string,
	pl ports.PipelineLoader,
	cl ports.ProjectConfigLoader,
	runner ports.StageRunner,
	fetcher ports.DatasetFetcher,
	stater ports.StageStater,
) *ReproPipeline {
	return &ReproPipeline{
		root:      root,
		pipelines: pl,
		configs:   cl,
		runner:    runner,
		fetcher:   fetcher,
		stater:    stater,
		resolver:  domain.NewVarResolver(),
	}
}

// ReproOptions tunes a single reproduction.
type ReproOptions struct {
	// Force reruns every selected stage even when the lock says it is fresh.
	Force bool

	// Stage limits the reproduction to the named stage and its transitive
	// upstreams. Empty means the whole pipeline.
	Stage string

	// DryRun reports what would run without executing anything: stale stages
	// come back planned with a "would run" reason, fresh ones as cached. The
	// lock file and the gate are left untouched.
	DryRun bool
}

// Execute runs the pipeline. The returned PipelineRun always describes what
// happened; err is non-nil for load/graph problems, for stage failures
// (KindExecution) and for a failed gate (KindGate).
func (uc *ReproPipeline) Execute(ctx context.Context, pipelinePath, configPath, paramsPath string, opts ReproOptions) (domain.PipelineRun, error) {
	pipeline, err := uc.pipelines.LoadPipeline(pipelinePath)
	if err != nil {
		return domain.PipelineRun{}, err
	}

	project, err := uc.configs.LoadProject(configPath)
	if err != nil {
		return domain.PipelineRun{}, err
	}

	params, err := uc.configs.LoadParams(paramsPath)
	if err != nil {
		return domain.PipelineRun{}, err
	}

	rt, err := uc.resolver.NewRuntime(project.Vars())
	if err != nil {
		return domain.PipelineRun{}, err
	}

	resolved := make([]domain.StageSpec, 0, len(pipeline.Stages))
	for _, s := range pipeline.Stages {
		rs, rerr := rt.ResolveStage(s)
		if rerr != nil {
			return domain.PipelineRun{}, rerr
		}
		resolved = append(resolved, rs)
	}

	graph, err := buildGraph(resolved)
	if err != nil {
		return domain.PipelineRun{}, err
	}

	plan := graph.order
	if opts.Stage != "" {
		plan, err = selectUpTo(graph, opts.Stage)
		if err != nil {
			return domain.PipelineRun{}, err
		}
	}

	run := domain.PipelineRun{
		PipelinePath: pipelinePath,
		StartedAt:    time.Now(),
		Stages:       make([]domain.StageResult, 0, len(plan)),
	}

	// stage env is shared by every cmd stage of the run
	env := append(params.Env(), project.Vars().Env()...)
	env = append(env, "CTPIPE_RUN_ID="+rt.RunID())

	failed := map[string]bool{}

	for _, stage := range plan {
		if ctx.Err() != nil {
			failed[stage.Name] = true
			run.Stages = append(run.Stages, domain.StageResult{
				Name:      stage.Name,
				Kind:      stage.Kind,
				State:     domain.StageSkipped,
				Reason:    "run canceled",
				StartedAt: time.Now(),
			})
			continue
		}
		run.Stages = append(run.Stages, uc.runStage(ctx, stage, graph, failed, params, project, env, opts))
	}

	run.FinishedAt = time.Now()

	if run.Failures() > 0 {
		return run, &domain.OpError{
			Op:   "repro",
			Kind: domain.KindExecution,
			Path: pipelinePath,
			Err:  fmt.Errorf("%d of %d stages did not complete", run.Failures(), len(run.Stages)),
		}
	}

	// Gate only makes sense for full, successful reproductions.
	if opts.Stage == "" && !opts.DryRun && len(pipeline.Gate) > 0 {
		scores, gerr := os.ReadFile(uc.abs(project.Evaluation.ScoresFile))
		if gerr != nil {
			return run, &domain.OpError{
				Op:   "repro.gate",
				Kind: domain.KindGate,
				Path: project.Evaluation.ScoresFile,
				Err:  gerr,
			}
		}

		run.Gate = ucgate.Evaluate(pipeline.Gate, scores)
		if !run.GatePassed() {
			return run, &domain.OpError{
				Op:   "repro.gate",
				Kind: domain.KindGate,
				Path: project.Evaluation.ScoresFile,
				Err:  fmt.Errorf("%d gate rule(s) failed", gateFailures(run.Gate)),
			}
		}
	}

	return run, nil
}

func (uc *ReproPipeline) runStage(
	ctx context.Context,
	stage domain.StageSpec,
	graph *stageGraph,
	failed map[string]bool,
	params domain.Params,
	project domain.ProjectConfig,
	env []string,
	opts ReproOptions,
) domain.StageResult {
	res := domain.StageResult{
		Name:      stage.Name,
		Kind:      stage.Kind,
		StartedAt: time.Now(),
	}

	for _, up := range graph.upstream[stage.Name] {
		if failed[up] {
			failed[stage.Name] = true
			res.State = domain.StageSkipped
			res.Reason = fmt.Sprintf("upstream %q did not complete", up)
			return res
		}
	}

	if !opts.Force {
		fresh, reason, err := uc.stater.Status(stage, params)
		if err != nil {
			failed[stage.Name] = true
			res.State = domain.StageFailed
			res.Error = domain.NewRunError(err)
			return res
		}
		if fresh {
			res.State = domain.StageCached
			return res
		}
		res.Reason = reason
	}

	if opts.DryRun {
		res.State = domain.StagePlanned
		if opts.Force {
			res.Reason = "would run (forced)"
		} else {
			res.Reason = "would run: " + res.Reason
		}
		return res
	}

	start := time.Now()
	var err error
	switch stage.Kind {
	case domain.StageDataIngestion:
		err = uc.fetcher.Fetch(ctx, uc.absIngestion(project.DataIngestion))
	default:
		err = uc.runner.RunStage(ctx, stage, env)
	}
	res.DurationMS = time.Since(start).Milliseconds()

	if err != nil {
		failed[stage.Name] = true
		res.State = domain.StageFailed
		if ctx.Err() != nil {
			res.Error = domain.NewRunError(ctx.Err())
		} else {
			res.Error = domain.NewRunError(err)
		}
		return res
	}

	if err := uc.stater.Commit(stage, params); err != nil {
		failed[stage.Name] = true
		res.State = domain.StageFailed
		res.Error = domain.NewRunError(err)
		return res
	}

	res.State = domain.StageDone
	return res
}

// selectUpTo narrows the plan to target and its transitive upstreams,
// keeping topological order.
func selectUpTo(graph *stageGraph, target string) ([]domain.StageSpec, error) {
	found := false
	for _, s := range graph.order {
		if s.Name == target {
			found = true
			break
		}
	}
	if !found {
		return nil, &domain.OpError{
			Op:   "repro.select",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("stage %q not in pipeline", target),
		}
	}

	wanted := map[string]bool{target: true}
	var mark func(name string)
	mark = func(name string) {
		for _, up := range graph.upstream[name] {
			if !wanted[up] {
				wanted[up] = true
				mark(up)
			}
		}
	}
	mark(target)

	out := make([]domain.StageSpec, 0, len(wanted))
	for _, s := range graph.order {
		if wanted[s.Name] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (uc *ReproPipeline) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(uc.root, path)
}

// absIngestion pins ingestion paths to the workspace root so the fetcher
// works no matter where the tool was invoked from.
func (uc *ReproPipeline) absIngestion(cfg domain.DataIngestionConfig) domain.DataIngestionConfig {
	cfg.RootDir = uc.abs(cfg.RootDir)
	cfg.LocalDataFile = uc.abs(cfg.LocalDataFile)
	cfg.UnzipDir = uc.abs(cfg.UnzipDir)
	return cfg
}

func gateFailures(results []domain.GateResult) int {
	n := 0
	for _, g := range results {
		if !g.Passed {
			n++
		}
	}
	return n
}
