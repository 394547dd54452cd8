package usecase

import (
	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
	"github.com/suraj-yadav-aiml/ctpipe/internal/ports"
)

// StageStatus is one row of the `status` report: would this stage run on the
// next reproduction, and why.
type StageStatus struct {
	Name   string
	Kind   domain.StageKind
	Fresh  bool
	Reason string
}

// PipelineStatus reports staleness for every stage without running anything.
type PipelineStatus struct {
	pipelines ports.PipelineLoader
	configs   ports.ProjectConfigLoader
	stater    ports.StageStater
	resolver  *domain.VarResolver
}

func NewPipelineStatus(pl ports.PipelineLoader, cl ports.ProjectConfigLoader, stater ports.StageStater) *PipelineStatus {
	return &PipelineStatus{
		pipelines: pl,
		configs:   cl,
		stater:    stater,
		resolver:  domain.NewVarResolver(),
	}
}

func (uc *PipelineStatus) Execute(pipelinePath, configPath, paramsPath string) ([]StageStatus, error) {
	pipeline, err := uc.pipelines.LoadPipeline(pipelinePath)
	if err != nil {
		return nil, err
	}

	project, err := uc.configs.LoadProject(configPath)
	if err != nil {
		return nil, err
	}

	params, err := uc.configs.LoadParams(paramsPath)
	if err != nil {
		return nil, err
	}

	rt, err := uc.resolver.NewRuntime(project.Vars())
	if err != nil {
		return nil, err
	}

	resolved := make([]domain.StageSpec, 0, len(pipeline.Stages))
	for _, s := range pipeline.Stages {
		rs, rerr := rt.ResolveStage(s)
		if rerr != nil {
			return nil, rerr
		}
		resolved = append(resolved, rs)
	}

	graph, err := buildGraph(resolved)
	if err != nil {
		return nil, err
	}

	out := make([]StageStatus, 0, len(graph.order))
	for _, stage := range graph.order {
		fresh, reason, serr := uc.stater.Status(stage, params)
		if serr != nil {
			return nil, serr
		}
		out = append(out, StageStatus{
			Name:   stage.Name,
			Kind:   stage.Kind,
			Fresh:  fresh,
			Reason: reason,
		})
	}
	return out, nil
}
