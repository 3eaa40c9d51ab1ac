package main

import (
	"fmt"
	"io"
	"os"
)

type Var string

// Rule describes how a single target is produced: the prerequisites that
// must be satisfied first, and the argv-style command that produces it.
// Cmd may be empty, meaning the target has no build action of its own.
type Rule struct {
	Target  string
	Prereqs []string
	Cmd     []string
}

// String provides a short representation for a Rule, useful for debugging.
func (r *Rule) String() string {
	return fmt.Sprintf("Rule(%s: %v)", r.Target, r.Prereqs)
}

// Makefile is the parsed rule table: a lookup from target name to Rule,
// plus the designated default target. It is read-only during the build.
type Makefile struct {
	Rules   []*Rule
	RuleMap map[string]*Rule
	Default string
}

// NewMakefile creates an empty rule table.
func NewMakefile() *Makefile {
	return &Makefile{
		Rules:   []*Rule{},
		RuleMap: make(map[string]*Rule),
	}
}

// AddRule registers a rule. If a target is declared in multiple rules the
// last one wins, which is standard make behavior. The first rule added
// becomes the default target unless one was set explicitly.
func (m *Makefile) AddRule(rule *Rule) {
	m.Rules = append(m.Rules, rule)
	m.RuleMap[rule.Target] = rule
	if m.Default == "" {
		m.Default = rule.Target
	}
}

// Rule returns the rule for a target, or nil if the table has none.
func (m *Makefile) Rule(target string) *Rule {
	return m.RuleMap[target]
}

// DefaultTarget returns the target built when the caller names none.
func (m *Makefile) DefaultTarget() string {
	return m.Default
}

// ActiveRules returns the rules in declaration order, skipping any that a
// later rule for the same target superseded.
func (m *Makefile) ActiveRules() []*Rule {
	var rules []*Rule
	for _, rule := range m.Rules {
		if m.RuleMap[rule.Target] == rule {
			rules = append(rules, rule)
		}
	}
	return rules
}

// BuildRequest is the transient context of one build invocation. It carries
// the user's flags and the running exit status, which is overwritten by the
// status of every command that completes normally; the final value is what
// the whole invocation exits with.
type BuildRequest struct {
	Force      bool
	Quiet      bool
	ExitStatus int
	Out        io.Writer
}

// NewBuildRequest creates a request with command output going to stdout.
func NewBuildRequest(force, quiet bool) *BuildRequest {
	return &BuildRequest{
		Force: force,
		Quiet: quiet,
		Out:   os.Stdout,
	}
}

// RuleConfig mirrors the YAML rule file layout.
type RuleConfig struct {
	Default string             `yaml:"default"`
	Vars    map[string]Var     `yaml:"vars"`
	Targets map[string]RuleDef `yaml:"targets"`
}

// RuleDef is one target entry in a YAML rule file.
type RuleDef struct {
	Deps []string `yaml:"deps"`
	Cmd  string   `yaml:"cmd"`
}
