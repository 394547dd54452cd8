package hashlock

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

// HashPath fingerprints a file or a directory tree. Directory hashes cover
// relative paths and file contents so renames and edits both register.
func HashPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	if !info.IsDir() {
		return hashFile(path)
	}

	type entry struct {
		rel  string
		hash string
	}
	var entries []entry

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		h, err := hashFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		entries = append(entries, entry{rel: filepath.ToSlash(rel), hash: h})
		return nil
	})
	if err != nil {
		return "", err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })

	sum := md5.New()
	for _, e := range entries {
		io.WriteString(sum, e.rel)
		io.WriteString(sum, "\x00")
		io.WriteString(sum, e.hash)
		io.WriteString(sum, "\x00")
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sum := md5.New()
	if _, err := io.Copy(sum, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}

// HashParams fingerprints a params subset via its canonical JSON encoding
// (json.Marshal sorts map keys).
func HashParams(p domain.Params) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:]), nil
}

// HashStageDef fingerprints the stage definition itself, so editing a
// command or its dep list invalidates the stage.
func HashStageDef(stage domain.StageSpec) (string, error) {
	b, err := json.Marshal(struct {
		Kind   domain.StageKind `json:"kind"`
		Cmd    string           `json:"cmd"`
		Deps   []string         `json:"deps"`
		Outs   []string         `json:"outs"`
		Params []string         `json:"params"`
	}{stage.Kind, stage.Cmd, stage.Deps, stage.Outs, stage.Params})
	if err != nil {
		return "", err
	}
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:]), nil
}
