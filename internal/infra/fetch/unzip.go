package fetch

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
)

// Unzip extracts src into dstDir. Entries escaping dstDir are rejected.
func Unzip(src, dstDir string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return &domain.OpError{
			Op:   "fetch.unzip",
			Kind: domain.KindExecution,
			Path: src,
			Err:  err,
		}
	}
	defer r.Close()

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return execErr("fetch.unzip", dstDir, err)
	}

	cleanDst := filepath.Clean(dstDir)
	for _, f := range r.File {
		if err := extractFile(f, cleanDst); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, dstDir string) error {
	dst := filepath.Join(dstDir, filepath.FromSlash(f.Name))
	if !strings.HasPrefix(dst, dstDir+string(os.PathSeparator)) && dst != dstDir {
		return &domain.OpError{
			Op:   "fetch.unzip",
			Kind: domain.KindExecution,
			Path: f.Name,
			Err:  fmt.Errorf("entry escapes destination directory"),
		}
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(dst, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return execErr("fetch.unzip", filepath.Dir(dst), err)
	}

	rc, err := f.Open()
	if err != nil {
		return execErr("fetch.unzip", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, f.Mode().Perm()|0o200)
	if err != nil {
		return execErr("fetch.unzip", dst, err)
	}

	_, copyErr := io.Copy(out, rc)
	closeErr := out.Close()
	if copyErr != nil {
		return execErr("fetch.unzip", dst, copyErr)
	}
	if closeErr != nil {
		return execErr("fetch.unzip", dst, closeErr)
	}
	return nil
}
