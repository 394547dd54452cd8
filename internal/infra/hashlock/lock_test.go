package hashlock

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestStater_NeverRun(t *testing.T) {
	s := NewStater(t.TempDir())

	fresh, reason, err := s.Status(domain.StageSpec{Name: "training"}, nil)
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if fresh {
		t.Fatalf("expected stale")
	}
	if reason != "never run" {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestStater_CommitThenFresh(t *testing.T) {
	tmp := t.TempDir()
	dep := filepath.Join(tmp, "data.csv")
	out := filepath.Join(tmp, "model.h5")
	writeFile(t, dep, "v1")
	writeFile(t, out, "weights")

	stage := domain.StageSpec{
		Name:   "training",
		Kind:   domain.StageCmd,
		Cmd:    "python train.py",
		Deps:   []string{dep},
		Outs:   []string{out},
		Params: []string{"EPOCHS"},
	}
	params := domain.Params{"EPOCHS": 10}

	s := NewStater(tmp)
	if err := s.Commit(stage, params); err != nil {
		t.Fatalf("Commit error: %v", err)
	}

	fresh, reason, err := s.Status(stage, params)
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if !fresh {
		t.Fatalf("expected fresh, got reason %q", reason)
	}
}

func TestStater_DetectsChanges(t *testing.T) {
	tmp := t.TempDir()
	dep := filepath.Join(tmp, "data.csv")
	out := filepath.Join(tmp, "model.h5")
	writeFile(t, dep, "v1")
	writeFile(t, out, "weights")

	stage := domain.StageSpec{
		Name:   "training",
		Kind:   domain.StageCmd,
		Cmd:    "python train.py",
		Deps:   []string{dep},
		Outs:   []string{out},
		Params: []string{"EPOCHS"},
	}
	params := domain.Params{"EPOCHS": 10}

	s := NewStater(tmp)
	if err := s.Commit(stage, params); err != nil {
		t.Fatalf("Commit error: %v", err)
	}

	// dep content change
	writeFile(t, dep, "v2")
	fresh, reason, _ := s.Status(stage, params)
	if fresh || !strings.Contains(reason, "dep changed") {
		t.Fatalf("expected dep change, got fresh=%v reason=%q", fresh, reason)
	}
	writeFile(t, dep, "v1")

	// param change
	fresh, reason, _ = s.Status(stage, domain.Params{"EPOCHS": 20})
	if fresh || reason != "params changed" {
		t.Fatalf("expected params change, got fresh=%v reason=%q", fresh, reason)
	}

	// missing out
	if err := os.Remove(out); err != nil {
		t.Fatalf("remove out: %v", err)
	}
	fresh, reason, _ = s.Status(stage, params)
	if fresh || !strings.Contains(reason, "out missing") {
		t.Fatalf("expected missing out, got fresh=%v reason=%q", fresh, reason)
	}
	writeFile(t, out, "weights")

	// definition change
	changed := stage
	changed.Cmd = "python train.py --fast"
	fresh, reason, _ = s.Status(changed, params)
	if fresh || reason != "stage definition changed" {
		t.Fatalf("expected def change, got fresh=%v reason=%q", fresh, reason)
	}
}

func TestStater_DirDepTracksTree(t *testing.T) {
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	writeFile(t, filepath.Join(dataDir, "a", "1.png"), "one")
	writeFile(t, filepath.Join(dataDir, "b", "2.png"), "two")

	stage := domain.StageSpec{Name: "ingest", Kind: domain.StageCmd, Cmd: "x", Deps: []string{dataDir}}

	s := NewStater(tmp)
	if err := s.Commit(stage, nil); err != nil {
		t.Fatalf("Commit error: %v", err)
	}

	fresh, _, _ := s.Status(stage, nil)
	if !fresh {
		t.Fatalf("expected fresh after commit")
	}

	// Adding a file anywhere in the tree makes the stage stale.
	writeFile(t, filepath.Join(dataDir, "b", "3.png"), "three")
	fresh, reason, _ := s.Status(stage, nil)
	if fresh {
		t.Fatalf("expected stale after tree change")
	}
	if !strings.Contains(reason, "dep changed") {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestStater_CorruptLockRerunsEverything(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "ctpipe.lock"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write lock: %v", err)
	}

	s := NewStater(tmp)
	fresh, reason, err := s.Status(domain.StageSpec{Name: "x", Cmd: "y"}, nil)
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if fresh {
		t.Fatalf("expected stale on corrupt lock")
	}
	if reason != "never run" {
		t.Fatalf("unexpected reason %q", reason)
	}
}
