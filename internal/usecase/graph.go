package usecase

import (
	"fmt"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

// stageGraph is the execution plan for one reproduction: stages in
// topological order plus the upstream edges used for cache checks and for
// skipping dependents of a failed stage.
type stageGraph struct {
	order    []domain.StageSpec
	upstream map[string][]string
}

// buildGraph derives edges from two sources: explicit `after` declarations
// and out/dep overlap (a stage consuming another stage's out runs after it).
// Stage paths must already be placeholder-resolved so overlaps compare real
// paths.
func buildGraph(stages []domain.StageSpec) (*stageGraph, error) {
	names := make(map[string]bool, len(stages))
	for _, s := range stages {
		if names[s.Name] {
			return nil, graphErr(fmt.Errorf("stage %q declared twice", s.Name))
		}
		names[s.Name] = true
	}

	producers := map[string]string{}
	for _, s := range stages {
		for _, out := range s.Outs {
			if other, ok := producers[out]; ok && other != s.Name {
				return nil, graphErr(fmt.Errorf("out %q produced by both %q and %q", out, other, s.Name))
			}
			producers[out] = s.Name
		}
	}

	upstream := make(map[string][]string, len(stages))
	for _, s := range stages {
		seen := map[string]bool{}
		var ups []string

		add := func(name string) {
			if name == s.Name || seen[name] {
				return
			}
			seen[name] = true
			ups = append(ups, name)
		}

		for _, name := range s.After {
			if !names[name] {
				return nil, graphErr(fmt.Errorf("stage %q runs after unknown stage %q", s.Name, name))
			}
			add(name)
		}
		for _, dep := range s.Deps {
			if producer, ok := producers[dep]; ok {
				add(producer)
			}
		}

		upstream[s.Name] = ups
	}

	if err := detectCycles(stages, upstream); err != nil {
		return nil, err
	}

	return &stageGraph{
		order:    topoOrder(stages, upstream),
		upstream: upstream,
	}, nil
}

// detectCycles walks the upstream edges with a DFS, tracking the in-progress
// path to spot back edges.
func detectCycles(stages []domain.StageSpec, upstream map[string][]string) error {
	visiting := map[string]bool{}
	visited := map[string]bool{}

	var visit func(name string) error
	visit = func(name string) error {
		visiting[name] = true
		for _, up := range upstream[name] {
			if visiting[up] {
				return graphErr(fmt.Errorf("dependency cycle involving %q", up))
			}
			if !visited[up] {
				if err := visit(up); err != nil {
					return err
				}
			}
		}
		delete(visiting, name)
		visited[name] = true
		return nil
	}

	for _, s := range stages {
		if !visited[s.Name] {
			if err := visit(s.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// topoOrder emits stages whose upstreams are all emitted, preserving the
// pipeline file's declaration order among ready stages. Assumes the graph is
// already known to be acyclic.
func topoOrder(stages []domain.StageSpec, upstream map[string][]string) []domain.StageSpec {
	emitted := map[string]bool{}
	order := make([]domain.StageSpec, 0, len(stages))

	for len(order) < len(stages) {
		progressed := false
		for _, s := range stages {
			if emitted[s.Name] {
				continue
			}
			ready := true
			for _, up := range upstream[s.Name] {
				if !emitted[up] {
					ready = false
					break
				}
			}
			if ready {
				emitted[s.Name] = true
				order = append(order, s)
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	return order
}

func graphErr(err error) error {
	return &domain.OpError{
		Op:   "pipeline.graph",
		Kind: domain.KindInvalidConfig,
		Err:  err,
	}
}
