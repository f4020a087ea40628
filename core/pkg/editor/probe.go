package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Prerequisite is an environment check behind EditorInfo.IsAvailable.
// What "available" means is up to each editor: a binary on PATH, a directory
// with self-hosted assets, an API key in the environment, ...
type Prerequisite interface {
	// Check returns nil when the prerequisite is satisfied
	Check() error

	// String describes the prerequisite for error messages
	String() string
}

// ProbeError is returned by the bundled prerequisites
type ProbeError struct {
	Prerequisite string
	Reason       string
}

// Error implements error interface
func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Prerequisite, e.Reason)
}

type executable string

// Executable requires a program on PATH
func Executable(name string) Prerequisite {
	return executable(name)
}

func (e executable) Check() error {
	if _, err := exec.LookPath(string(e)); err != nil {
		return &ProbeError{Prerequisite: e.String(), Reason: "not found in PATH"}
	}
	return nil
}

func (e executable) String() string {
	return "executable " + string(e)
}

type pathProbe struct {
	path string
	dir  bool
}

// Directory requires an existing directory
func Directory(path string) Prerequisite {
	return pathProbe{path: path, dir: true}
}

// File requires an existing regular file
func File(path string) Prerequisite {
	return pathProbe{path: path}
}

func (p pathProbe) Check() error {
	if p.path == "" {
		return &ProbeError{Prerequisite: p.String(), Reason: "path is empty"}
	}
	st, err := os.Stat(p.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &ProbeError{Prerequisite: p.String(), Reason: "does not exist"}
	case err != nil:
		return &ProbeError{Prerequisite: p.String(), Reason: err.Error()}
	case p.dir && !st.IsDir():
		return &ProbeError{Prerequisite: p.String(), Reason: "not a directory"}
	case !p.dir && !st.Mode().IsRegular():
		return &ProbeError{Prerequisite: p.String(), Reason: "not a regular file"}
	}
	return nil
}

func (p pathProbe) String() string {
	if p.dir {
		return "directory " + p.path
	}
	return "file " + p.path
}

type envVar string

// EnvVar requires a non-empty environment variable
func EnvVar(key string) Prerequisite {
	return envVar(key)
}

func (e envVar) Check() error {
	if strings.TrimSpace(os.Getenv(string(e))) == "" {
		return &ProbeError{Prerequisite: e.String(), Reason: "not set"}
	}
	return nil
}

func (e envVar) String() string {
	return "environment variable " + string(e)
}

type funcProbe struct {
	desc string
	fn   func() error
}

// Func wraps an arbitrary check
func Func(desc string, fn func() error) Prerequisite {
	return funcProbe{desc: desc, fn: fn}
}

func (f funcProbe) Check() error {
	if f.fn == nil {
		return nil
	}
	return f.fn()
}

func (f funcProbe) String() string {
	return f.desc
}

type allOf []Prerequisite

// All requires every prerequisite; nil entries are ignored
func All(ps ...Prerequisite) Prerequisite {
	out := make(allOf, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Check returns every failure joined
func (a allOf) Check() error {
	var errs []error
	for _, p := range a {
		if err := p.Check(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a allOf) String() string {
	parts := make([]string, len(a))
	for i, p := range a {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
