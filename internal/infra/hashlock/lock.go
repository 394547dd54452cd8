package hashlock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
	"github.com/suraj-yadav-aiml/ctpipe/internal/ports"
)

const lockFileName = "ctpipe.lock"

// Stater tracks stage freshness in the workspace lock file. Relative dep and
// out paths are taken relative to the workspace root, so lock entries stay
// portable no matter where the tool is invoked from.
type Stater struct {
	rootDir  string
	lockPath string
}

func NewStater(root string) *Stater {
	return &Stater{
		rootDir:  root,
		lockPath: filepath.Join(root, lockFileName),
	}
}

func (s *Stater) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.rootDir, path)
}

var _ ports.StageStater = (*Stater)(nil)

type stageLock struct {
	DefHash    string            `json:"def_hash"`
	Deps       map[string]string `json:"deps,omitempty"`
	ParamsHash string            `json:"params_hash,omitempty"`
	Outs       []string          `json:"outs,omitempty"`
}

type lockFile map[string]stageLock

func (s *Stater) Status(stage domain.StageSpec, params domain.Params) (bool, string, error) {
	lf, err := s.load()
	if err != nil {
		return false, "", err
	}

	entry, ok := lf[stage.Name]
	if !ok {
		return false, "never run", nil
	}

	defHash, err := HashStageDef(stage)
	if err != nil {
		return false, "", lockErr("hashlock.status", err)
	}
	if defHash != entry.DefHash {
		return false, "stage definition changed", nil
	}

	for _, dep := range stage.Deps {
		h, err := HashPath(s.abs(dep))
		if err != nil {
			if os.IsNotExist(err) {
				return false, fmt.Sprintf("dep missing: %s", dep), nil
			}
			return false, "", lockErr("hashlock.status", err)
		}
		if entry.Deps[dep] != h {
			return false, fmt.Sprintf("dep changed: %s", dep), nil
		}
	}

	if len(stage.Params) > 0 {
		ph, err := HashParams(params.Subset(stage.Params))
		if err != nil {
			return false, "", lockErr("hashlock.status", err)
		}
		if ph != entry.ParamsHash {
			return false, "params changed", nil
		}
	}

	for _, out := range stage.Outs {
		if _, err := os.Stat(s.abs(out)); err != nil {
			return false, fmt.Sprintf("out missing: %s", out), nil
		}
	}

	return true, "", nil
}

func (s *Stater) Commit(stage domain.StageSpec, params domain.Params) error {
	lf, err := s.load()
	if err != nil {
		return err
	}

	entry := stageLock{Outs: stage.Outs}

	entry.DefHash, err = HashStageDef(stage)
	if err != nil {
		return lockErr("hashlock.commit", err)
	}

	if len(stage.Deps) > 0 {
		entry.Deps = make(map[string]string, len(stage.Deps))
		for _, dep := range stage.Deps {
			h, err := HashPath(s.abs(dep))
			if err != nil {
				return lockErr("hashlock.commit", err)
			}
			entry.Deps[dep] = h
		}
	}

	if len(stage.Params) > 0 {
		entry.ParamsHash, err = HashParams(params.Subset(stage.Params))
		if err != nil {
			return lockErr("hashlock.commit", err)
		}
	}

	lf[stage.Name] = entry
	return s.save(lf)
}

func (s *Stater) load() (lockFile, error) {
	b, err := os.ReadFile(s.lockPath)
	if err != nil {
		if os.IsNotExist(err) {
			return lockFile{}, nil
		}
		return nil, lockErr("hashlock.load", err)
	}

	var lf lockFile
	if err := json.Unmarshal(b, &lf); err != nil {
		// A corrupt lock means every stage reruns; that is the safe side.
		return lockFile{}, nil
	}
	if lf == nil {
		lf = lockFile{}
	}
	return lf, nil
}

func (s *Stater) save(lf lockFile) error {
	b, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return lockErr("hashlock.save", err)
	}

	// Atomic-ish write: tmp then rename.
	tmp := s.lockPath + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return lockErr("hashlock.save", err)
	}
	if err := os.Rename(tmp, s.lockPath); err != nil {
		_ = os.Remove(tmp)
		return lockErr("hashlock.save", err)
	}
	return nil
}

func lockErr(op string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindExecution,
		Err:  err,
	}
}
