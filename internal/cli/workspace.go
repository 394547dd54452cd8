package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
	"github.com/suraj-yadav-aiml/ctpipe/internal/infra/config"
	"github.com/suraj-yadav-aiml/ctpipe/internal/infra/execrunner"
	"github.com/suraj-yadav-aiml/ctpipe/internal/infra/fetch"
	"github.com/suraj-yadav-aiml/ctpipe/internal/infra/hashlock"
	"github.com/suraj-yadav-aiml/ctpipe/internal/infra/runstore"
	"github.com/suraj-yadav-aiml/ctpipe/internal/infra/workspacefinder"
	"github.com/suraj-yadav-aiml/ctpipe/internal/infra/yamlpipeline"
	"github.com/suraj-yadav-aiml/ctpipe/internal/ports"
)

// dataTokenEnv is read from the process env (optionally seeded from the
// workspace .env file) and sent as a bearer token on dataset downloads.
const dataTokenEnv = "CTPIPE_DATA_TOKEN"

type workspaceCtx struct {
	root string
	cfg  domain.Config

	pipelines ports.PipelineLoader
	configs   ports.ProjectConfigLoader
	runner    ports.StageRunner
	fetcher   ports.DatasetFetcher
	stater    ports.StageStater
	store     ports.ArtifactStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	// Secrets such as the dataset token live in .env, never in config.yaml.
	_ = godotenv.Load(filepath.Join(root, ".env"))

	client := fetch.NewClient(fetch.DefaultConfig())
	fetcher := fetch.NewFetcher(client, fetch.WithToken(os.Getenv(dataTokenEnv)))

	return &workspaceCtx{
		root:      root,
		cfg:       cfg,
		pipelines: yamlpipeline.NewLoader(),
		configs:   config.NewLoader(),
		runner:    execrunner.NewRunner(execrunner.WithDir(root)),
		fetcher:   fetcher,
		stater:    hashlock.NewStater(root),
		store:     runstore.NewJSONStore(root, cfg),
	}, nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `ctpipe init`): %w", wd, err)
	}
	return root, nil
}

// configPath, paramsPath and pipelinePath resolve the workspace-relative
// defaults from ctpipe.yaml, honoring an explicit override.
func (ws *workspaceCtx) configPath() string {
	return filepath.Join(ws.root, ws.cfg.Paths.ConfigFile)
}

func (ws *workspaceCtx) paramsPath() string {
	return filepath.Join(ws.root, ws.cfg.Paths.ParamsFile)
}

func (ws *workspaceCtx) pipelinePath(override string) string {
	p := strings.TrimSpace(override)
	if p == "" {
		p = ws.cfg.Paths.PipelineFile
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(ws.root, p)
	}
	return filepath.Clean(p)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
