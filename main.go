package main

import (
	"fmt"
	"os"

	"github.com/agilira/orpheus/pkg/orpheus"
)

const AppVersion = "1.0.0"

// Rule file candidates, tried in order when -f is not given.
const (
	DefaultRuleFile     = "mmakefile"
	DefaultYAMLRuleFile = "mmake.yaml"
)

func main() {
	// initialize exceptions
	InitExceptions()

	app := orpheus.New("mmake").
		SetDescription("Minimal make: rebuilds targets whose prerequisites changed").
		SetVersion(AppVersion)

	buildCmd := orpheus.NewCommand("build", "Build the named targets, or the default target").
		SetHandler(buildCommand).
		AddFlag("file", "f", "", "Rule file to use (default: mmakefile, then mmake.yaml)").
		AddBoolFlag("force", "B", false, "Rebuild unconditionally, skipping timestamp checks").
		AddBoolFlag("silent", "s", false, "Do not echo commands before running them")

	listCmd := orpheus.NewCommand("list", "Display the targets of the rule file").
		SetHandler(listCommand).
		AddFlag("file", "f", "", "Rule file to use (default: mmakefile, then mmake.yaml)").
		AddFlag("format", "o", "table", "Output format: table, json or yaml")

	validateCmd := orpheus.NewCommand("validate", "Check the rule file for problems").
		SetHandler(validateCommand).
		AddFlag("file", "f", "", "Rule file to use (default: mmakefile, then mmake.yaml)")

	app.AddCommand(buildCmd)
	app.AddCommand(listCmd)
	app.AddCommand(validateCmd)

	if err := app.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "mmake: %v\n", err)
		os.Exit(1)
	}
}

// buildCommand never returns: the process exits with the status of the last
// normally-completed command, or non-zero on a fatal error.
func buildCommand(ctx *orpheus.Context) error {
	m := mustLoadRuleFile(ctx.GetFlagString("file"))
	req := NewBuildRequest(ctx.GetFlagBool("force"), ctx.GetFlagBool("silent"))

	if err := runBuild(m, ctx.Args, req); err != nil {
		fmt.Fprintf(os.Stderr, "mmake: %v\n", err)
		os.Exit(1)
	}

	os.Exit(req.ExitStatus)
	return nil
}

func listCommand(ctx *orpheus.Context) error {
	m := mustLoadRuleFile(ctx.GetFlagString("file"))
	return listTargets(m, ctx.GetFlagString("format"), os.Stdout)
}

func validateCommand(ctx *orpheus.Context) error {
	m := mustLoadRuleFile(ctx.GetFlagString("file"))

	problems := validateRules(m)
	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "mmake: %s\n", p)
		}
		return orpheus.ExecutionError("validate", fmt.Sprintf("%d problem(s) found", len(problems)))
	}

	fmt.Printf("OK: %d targets\n", len(m.ActiveRules()))
	return nil
}

// mustLoadRuleFile resolves and parses the rule file, or terminates the
// invocation with a diagnostic.
func mustLoadRuleFile(path string) *Makefile {
	if path == "" {
		path = findRuleFile()
	}
	m, err := LoadMakefile(path)
	if err != nil {
		RaiseException(RULEFILE_INVALID, err.Error(), 1)
	}
	return m
}

func findRuleFile() string {
	for _, candidate := range []string{DefaultRuleFile, DefaultYAMLRuleFile} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	RaiseException(RULEFILE_NOT_FOUND, DefaultRuleFile, 1)
	return ""
}

// validateRules reports prerequisites that are neither declared targets nor
// existing files; building those would abort with "no rule to make target".
func validateRules(m *Makefile) []string {
	rules := m.ActiveRules()

	var problems []string
	if len(rules) == 0 {
		problems = append(problems, "rule file declares no targets")
	}
	for _, rule := range rules {
		for _, prereq := range rule.Prereqs {
			if m.Rule(prereq) != nil {
				continue
			}
			if _, err := os.Stat(prereq); err != nil {
				problems = append(problems,
					fmt.Sprintf("no rule to make target '%s', needed by '%s'", prereq, rule.Target))
			}
		}
	}
	return problems
}
