package domain

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// VarResolver resolves {{var}} placeholders in stage commands and paths.
// It supports built-ins: {{$timestamp}} and {{$runid}}.
//
// This lives in domain because it does not depend on YAML/FS. Only stdlib.
type VarResolver struct {
	now   func() time.Time
	runID func() (string, error)
}

// VarResolverOption configures VarResolver.
type VarResolverOption func(*VarResolver)

// WithNow overrides the clock (useful for tests).
func WithNow(now func() time.Time) VarResolverOption {
	return func(r *VarResolver) { r.now = now }
}

// WithRunID overrides run-ID generation (useful for tests).
func WithRunID(gen func() (string, error)) VarResolverOption {
	return func(r *VarResolver) { r.runID = gen }
}

func NewVarResolver(opts ...VarResolverOption) *VarResolver {
	r := &VarResolver{
		now:   time.Now,
		runID: randomRunID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RuntimeResolver caches built-ins for a single reproduction so repeated
// {{$runid}} across stages stays consistent.
type RuntimeResolver struct {
	base     Vars
	builtins Vars
	inner    *VarResolver
}

func (r *VarResolver) NewRuntime(vars Vars) (*RuntimeResolver, error) {
	ts := strconv.FormatInt(r.now().Unix(), 10)

	id, err := r.runID()
	if err != nil {
		return nil, &OpError{
			Op:   "vars.builtins.runid",
			Kind: KindExecution,
			Err:  err,
		}
	}

	baseCopy := Vars{}
	for k, v := range vars {
		baseCopy[k] = v
	}

	return &RuntimeResolver{
		base: baseCopy,
		builtins: Vars{
			"$timestamp": ts,
			"$runid":     id,
		},
		inner: r,
	}, nil
}

// RunID exposes the cached {{$runid}} built-in.
func (rr *RuntimeResolver) RunID() string {
	return rr.builtins["$runid"]
}

// ResolveString resolves placeholders in a string.
// Supported tokens: {{artifacts_root}}, {{scores_file}}, {{$timestamp}}, {{$runid}}.
func (rr *RuntimeResolver) ResolveString(s string) (string, error) {
	return rr.inner.resolveStringWith(rr.base, rr.builtins, s)
}

// ResolveStrings resolves placeholders across a slice (deps, outs).
func (rr *RuntimeResolver) ResolveStrings(in []string) ([]string, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		rv, err := rr.ResolveString(s)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, nil
}

// ResolveStage resolves placeholders in a stage's command, deps and outs.
// It returns a copy (does not mutate input).
func (rr *RuntimeResolver) ResolveStage(stage StageSpec) (StageSpec, error) {
	out := stage

	cmd, err := rr.ResolveString(stage.Cmd)
	if err != nil {
		return StageSpec{}, wrapField(err, "stage.cmd")
	}
	out.Cmd = cmd

	deps, err := rr.ResolveStrings(stage.Deps)
	if err != nil {
		return StageSpec{}, wrapField(err, "stage.deps")
	}
	out.Deps = deps

	outs, err := rr.ResolveStrings(stage.Outs)
	if err != nil {
		return StageSpec{}, wrapField(err, "stage.outs")
	}
	out.Outs = outs

	return out, nil
}

func (r *VarResolver) resolveStringWith(vars Vars, builtins Vars, s string) (string, error) {
	// Fast path: no token start.
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s) + 16)

	for i := 0; i < len(s); {
		// Look for "{{"
		if i+1 < len(s) && s[i] == '{' && s[i+1] == '{' {
			start := i + 2

			// Find "}}"
			end := strings.Index(s[start:], "}}")
			if end < 0 {
				return "", &OpError{
					Op:   "vars.resolve",
					Kind: KindInvalidConfig,
					Err:  errors.New("unclosed placeholder"),
				}
			}
			end = start + end

			name := strings.TrimSpace(s[start:end])
			if name == "" {
				return "", &OpError{
					Op:   "vars.resolve",
					Kind: KindInvalidConfig,
					Err:  errors.New("empty placeholder"),
				}
			}

			val, ok := builtins[name]
			if !ok {
				val, ok = vars[name]
			}
			if !ok {
				return "", &OpError{
					Op:   "vars.resolve",
					Kind: KindMissingVar,
					Err:  fmt.Errorf("missing variable: %s", name),
				}
			}

			b.WriteString(val)
			i = end + 2
			continue
		}

		b.WriteByte(s[i])
		i++
	}

	return b.String(), nil
}

func wrapField(err error, field string) error {
	// Keep Kind information, but add context about which field was being resolved.
	return &OpError{
		Op:   "vars.resolve",
		Kind: kindFrom(err),
		Err:  fmt.Errorf("%s: %w", field, err),
	}
}

func kindFrom(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindExecution
}

// randomRunID generates a short hex run identifier.
func randomRunID() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
