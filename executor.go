package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/agilira/orpheus/pkg/orpheus"
	"gopkg.in/yaml.v3"
)

// RunCmd executes a rule's argv-style command as a child process and waits
// for it to finish. Unless the quiet flag is set, the command line is
// echoed first, elements joined by single spaces, so it appears before any
// of the child's own output. The child inherits the environment and the
// standard streams.
//
// A normally exited child overwrites req.ExitStatus with its exit status;
// a child killed by a signal leaves it untouched and the build continues.
// Failing to spawn the child at all is fatal to the whole invocation.
func RunCmd(argv []string, req *BuildRequest) {
	// A rule with no command is a no-op.
	if len(argv) == 0 {
		return
	}

	if !req.Quiet {
		fmt.Fprintln(req.Out, strings.Join(argv, " "))
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = req.Out
	cmd.Stderr = os.Stderr

	err := cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		req.ExitStatus = 0
	case errors.As(err, &exitErr):
		if exitErr.ProcessState.Exited() {
			req.ExitStatus = exitErr.ProcessState.ExitCode()
		}
	default:
		RaiseException(SPAWN_FAILED, err.Error(), spawnStatus(err))
	}
}

// spawnStatus derives a process exit status from a spawn failure.
func spawnStatus(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return 1
}

// RunMakefile builds a target, depth first: every prerequisite is fully
// processed before the target's own staleness is evaluated or its command
// runs. A target with no rule is skipped silently; that is what lets plain
// source files appear as prerequisites.
//
// A rule with no prerequisites runs unconditionally, as does any rule when
// the force flag is set. Otherwise the command runs once for each
// prerequisite that NeedsRebuild reports stale, in declared order.
//
// The rule graph is walked with unbounded recursion; a dependency cycle is
// not detected.
func RunMakefile(m *Makefile, target string, req *BuildRequest) error {
	rule := m.Rule(target)
	if rule == nil {
		return nil
	}

	for _, prereq := range rule.Prereqs {
		if err := RunMakefile(m, prereq, req); err != nil {
			return err
		}
	}

	if len(rule.Prereqs) == 0 || req.Force {
		RunCmd(rule.Cmd, req)
		return nil
	}

	for _, prereq := range rule.Prereqs {
		stale, err := NeedsRebuild(target, prereq, m)
		if err != nil {
			return err
		}
		if stale {
			RunCmd(rule.Cmd, req)
		}
	}
	return nil
}

// runBuild builds each requested target in order, or the default target
// when none are named. req.ExitStatus afterwards holds the status of the
// last normally-completed command across the whole sequence.
func runBuild(m *Makefile, targets []string, req *BuildRequest) error {
	if len(targets) == 0 {
		if m.DefaultTarget() == "" {
			return orpheus.ExecutionError("build", "rule file declares no targets")
		}
		targets = []string{m.DefaultTarget()}
	}

	for _, target := range targets {
		if err := RunMakefile(m, target, req); err != nil {
			return err
		}
	}
	return nil
}

func listTargets(m *Makefile, format string, w io.Writer) error {
	switch format {
	case "json":
		return listTargetsJSON(m, w)
	case "yaml":
		return listTargetsYAML(m, w)
	default: // table
		return listTargetsTable(m, w)
	}
}

func listTargetsTable(m *Makefile, w io.Writer) error {
	fmt.Fprintln(w, "Available targets:")
	fmt.Fprintln(w, "------------------")

	rules := m.ActiveRules()
	if len(rules) == 0 {
		fmt.Fprintln(w, "No targets found")
		return nil
	}

	// Find max name length for formatting
	maxNameLen := 0
	for _, rule := range rules {
		if len(rule.Target) > maxNameLen {
			maxNameLen = len(rule.Target)
		}
	}

	for _, rule := range rules {
		padding := strings.Repeat(" ", maxNameLen-len(rule.Target)+2)
		deps := ""
		if len(rule.Prereqs) > 0 {
			deps = fmt.Sprintf(" (depends: %s)", strings.Join(rule.Prereqs, ", "))
		}
		fmt.Fprintf(w, "  %s%s%s%s\n", rule.Target, padding, strings.Join(rule.Cmd, " "), deps)
	}

	fmt.Fprintf(w, "\nTotal: %d targets\n", len(rules))
	return nil
}

func listTargetsJSON(m *Makefile, w io.Writer) error {
	type TargetInfo struct {
		Name    string   `json:"name"`
		Command string   `json:"command,omitempty"`
		Deps    []string `json:"dependencies,omitempty"`
	}

	var targets []TargetInfo
	for _, rule := range m.ActiveRules() {
		targets = append(targets, TargetInfo{
			Name:    rule.Target,
			Command: strings.Join(rule.Cmd, " "),
			Deps:    rule.Prereqs,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]interface{}{
		"targets": targets,
		"total":   len(targets),
	})
}

func listTargetsYAML(m *Makefile, w io.Writer) error {
	type TargetInfo struct {
		Name    string   `yaml:"name"`
		Command string   `yaml:"command,omitempty"`
		Deps    []string `yaml:"dependencies,omitempty"`
	}

	var targets []TargetInfo
	for _, rule := range m.ActiveRules() {
		targets = append(targets, TargetInfo{
			Name:    rule.Target,
			Command: strings.Join(rule.Cmd, " "),
			Deps:    rule.Prereqs,
		})
	}

	encoder := yaml.NewEncoder(w)
	defer func() { _ = encoder.Close() }()
	return encoder.Encode(map[string]interface{}{
		"targets": targets,
		"total":   len(targets),
	})
}
