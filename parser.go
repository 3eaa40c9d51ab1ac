package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadMakefile reads a rule file, choosing the format by file extension:
// .yaml/.yml files are decoded as YAML, everything else is parsed as the
// classic rule-file syntax.
func LoadMakefile(path string) (*Makefile, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return LoadYAMLMakefile(path)
	default:
		return ParseMakefile(path)
	}
}

// ParseMakefile parses a classic rule file:
//
//	target: prereq1 prereq2
//		command arg arg
//
// Rule headers start in column one; the rule's single command line is
// indented with a tab and split into argv on whitespace after variable
// expansion. '#' starts a comment, blank lines are ignored. The first rule
// declared is the default target; a later rule for the same target
// supersedes an earlier one.
func ParseMakefile(path string) (*Makefile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	return parseRules(file, path)
}

func parseRules(r io.Reader, path string) (*Makefile, error) {
	m := NewMakefile()
	var current *Rule

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, "\t") {
			if current == nil {
				return nil, fmt.Errorf("%s:%d: command before first rule", path, lineno)
			}
			if current.Cmd != nil {
				return nil, fmt.Errorf("%s:%d: more than one command for target '%s'", path, lineno, current.Target)
			}
			current.Cmd = strings.Fields(ParseVars(line, current.Target))
			continue
		}

		name, rest, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("%s:%d: expected 'target: prerequisites'", path, lineno)
		}
		name = strings.TrimSpace(name)
		if name == "" || len(strings.Fields(name)) != 1 {
			return nil, fmt.Errorf("%s:%d: expected a single target name before ':'", path, lineno)
		}

		current = &Rule{Target: name, Prereqs: strings.Fields(rest)}
		m.AddRule(current)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// LoadYAMLMakefile reads a YAML rule file:
//
//	default: app
//	vars:
//	  CC: gcc
//	targets:
//	  app:
//	    deps: [main.o]
//	    cmd: $CC -o $@ main.o
//
// Target names are registered in sorted order, so without an explicit
// 'default:' key the lexicographically first target is the default.
func LoadYAMLMakefile(path string) (*Makefile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	m, err := decodeYAMLRules(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func decodeYAMLRules(r io.Reader) (*Makefile, error) {
	var cfg RuleConfig
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return NewMakefile(), nil
		}
		return nil, err
	}

	vars = cfg.Vars

	names := make([]string, 0, len(cfg.Targets))
	for name := range cfg.Targets {
		names = append(names, name)
	}
	sort.Strings(names)

	m := NewMakefile()
	for _, name := range names {
		def := cfg.Targets[name]
		m.AddRule(&Rule{
			Target:  name,
			Prereqs: def.Deps,
			Cmd:     strings.Fields(ParseVars(def.Cmd, name)),
		})
	}

	if cfg.Default != "" {
		if m.Rule(cfg.Default) == nil {
			return nil, fmt.Errorf("default target '%s' is not declared", cfg.Default)
		}
		m.Default = cfg.Default
	}
	return m, nil
}
