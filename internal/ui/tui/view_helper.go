package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func renderRunDetails(theme Theme, run domain.PipelineRun) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render(run.ID))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Pipeline: %s\n", run.PipelinePath))
	b.WriteString(fmt.Sprintf("Started:  %s\n", run.StartedAt.Format(time.RFC3339)))
	if !run.FinishedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Duration: %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond)))
	}
	b.WriteString("\nStages:\n")

	for _, s := range run.Stages {
		mark := theme.Pass.Render("✓")
		if s.Failed() {
			mark = theme.Fail.Render("✗")
		}
		b.WriteString(fmt.Sprintf("  %s %-20s %-8s", mark, clampString(s.Name, 20), s.State))
		if s.State == domain.StageDone {
			b.WriteString(fmt.Sprintf(" %dms", s.DurationMS))
		}
		if s.Reason != "" {
			b.WriteString("  " + clampString(s.Reason, 48))
		}
		b.WriteString("\n")
		if s.Error != nil {
			b.WriteString(fmt.Sprintf("      %s: %s\n", s.Error.Kind, clampString(s.Error.Message, 64)))
		}
	}

	if len(run.Gate) > 0 {
		b.WriteString("\nGate:\n")
		for _, g := range run.Gate {
			mark := theme.Pass.Render("✓")
			if !g.Passed {
				mark = theme.Fail.Render("✗")
			}
			b.WriteString(fmt.Sprintf("  %s %s — %s\n", mark, g.Name, g.Message))
		}
	}

	return b.String()
}
