package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
	"github.com/suraj-yadav-aiml/ctpipe/internal/infra/logger"
	"github.com/suraj-yadav-aiml/ctpipe/internal/infra/runstore"
	"github.com/suraj-yadav-aiml/ctpipe/internal/usecase"
)

func reproCmd() *cobra.Command {
	var workspace string
	var pipeline string
	var stage string
	var force bool
	var dryRun bool
	var noSave bool
	var format string

	c := &cobra.Command{
		Use:   "repro [stage]",
		Short: "Reproduce the pipeline: run stale stages in dependency order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				stage = args[0]
			}
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			cleanup, _ := logger.Setup(logger.Config{Root: ws.root, Debug: rootDebug(cmd)})
			if cleanup != nil {
				defer func() { _ = cleanup() }()
			}
			log := logger.Named("repro")

			uc := usecase.NewReproPipeline(ws.root, ws.pipelines, ws.configs, ws.runner, ws.fetcher, ws.stater)

			run, runErr := uc.Execute(
				cmd.Context(),
				ws.pipelinePath(pipeline),
				ws.configPath(),
				ws.paramsPath(),
				usecase.ReproOptions{Force: force, Stage: stage, DryRun: dryRun},
			)

			var runID string
			if !noSave && !dryRun && len(run.Stages) > 0 {
				id, saveErr := ws.store.SaveRun(run)
				if saveErr != nil {
					log.Error("run.save_failed", "err", saveErr)
				} else {
					runID = id
					run.ID = id
					indexRemote(cmd, ws, id, run, log)
				}
			}

			if printErr := printRun(os.Stdout, run, runID, format); printErr != nil {
				return printErr
			}

			if runErr != nil {
				log.Error("repro.failed", "pipeline", run.PipelinePath, "failures", run.Failures())
				return runErr
			}

			log.Info("repro.done", "pipeline", run.PipelinePath, "stages", len(run.Stages), "run_id", runID)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&pipeline, "pipeline", "p", "", "Pipeline file (optional; defaults to the workspace pipeline)")
	c.Flags().StringVarP(&stage, "stage", "s", "", "Run only this stage and its upstreams")
	c.Flags().BoolVarP(&force, "force", "f", false, "Rerun stages even when the lock says they are fresh")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would run without executing anything")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save a run artifact under runs/")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

// indexRemote pushes the run summary to the configured DynamoDB table.
// Best-effort: a broken or unreachable index never fails the reproduction.
func indexRemote(cmd *cobra.Command, ws *workspaceCtx, id string, run domain.PipelineRun, log *slog.Logger) {
	if ws.cfg.Index.DynamoTable == "" {
		return
	}

	idx, err := runstore.NewDDBIndex(cmd.Context(), ws.cfg.Index)
	if err != nil {
		log.Warn("run.index_unavailable", "table", ws.cfg.Index.DynamoTable, "err", err)
		return
	}
	if err := idx.PutRun(cmd.Context(), id, run); err != nil {
		log.Warn("run.index_failed", "table", ws.cfg.Index.DynamoTable, "err", err)
	}
}

func printRun(w io.Writer, run domain.PipelineRun, runID string, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		payload := map[string]any{
			"run_id": runID,
			"run":    run,
		}
		return enc.Encode(payload)
	case "pretty", "":
		printPrettyRun(w, run, runID)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyRun(w io.Writer, run domain.PipelineRun, runID string) {
	total := run.FinishedAt.Sub(run.StartedAt)
	if run.StartedAt.IsZero() || run.FinishedAt.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "Pipeline: %s\n", run.PipelinePath)
	fmt.Fprintf(w, "Started:  %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", total.Round(time.Millisecond))
	if runID != "" {
		fmt.Fprintf(w, "Run ID:   %s\n", runID)
	}
	fmt.Fprintln(w)

	for _, s := range run.Stages {
		mark := "✓"
		switch {
		case s.Failed():
			mark = "✗"
		case s.State == domain.StagePlanned:
			mark = "·"
		}

		fmt.Fprintf(w, "- %s %s [%s]", mark, s.Name, s.State)
		if s.State == domain.StageDone {
			fmt.Fprintf(w, " %dms", s.DurationMS)
		}
		fmt.Fprintln(w)

		if s.Reason != "" {
			fmt.Fprintf(w, "    reason: %s\n", s.Reason)
		}
		if s.Error != nil {
			fmt.Fprintf(w, "    error: %s (%s)\n", s.Error.Message, s.Error.Kind)
		}
	}

	if len(run.Gate) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Gate:")
		for _, g := range run.Gate {
			mark := "✓"
			if !g.Passed {
				mark = "✗"
			}
			fmt.Fprintf(w, "  %s %s — %s\n", mark, g.Name, g.Message)
		}
	}

	fmt.Fprintln(w)
}
