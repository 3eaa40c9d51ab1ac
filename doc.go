/*
Package main implements mmake, a minimal build orchestrator in the spirit of make.

Given a declarative rule file mapping targets to prerequisites and commands,
mmake decides which targets are out of date relative to their prerequisites
and re-runs only the necessary commands, satisfying prerequisites first.

# Build Model

Building a target walks its rule depth first: every prerequisite is built
before the target itself is considered. A target without a rule is skipped
silently, which is how plain source files participate as prerequisites. A
rule with no prerequisites always runs its command. Otherwise each
prerequisite is checked independently against the target's modification
time, and every check that finds the prerequisite newer (or the target
missing) runs the command once. A prerequisite that exists neither on disk
nor as a rule aborts the build: there is no rule to make it.

Each command is echoed to standard output before it runs and executed
directly from its argv, without a shell. The process exit status of an mmake
invocation is the exit status of the last command that completed normally; a
command killed by a signal leaves that status unchanged and the build
continues.

# CLI Commands

  - build: build the named targets in order, or the default target
  - list: display available targets in table, JSON, or YAML format
  - validate: report prerequisites that nothing can provide

Build flags mirror the classic tool: -f selects the rule file, -B forces a
rebuild regardless of timestamps, -s suppresses command echoing.

# Rule Files

The classic format names one target per rule, with a tab-indented command:

	app: main.o util.o
		gcc -o app main.o util.o

	main.o: main.c
		gcc -c main.c

Rule files ending in .yaml or .yml use the YAML layout instead:

	default: app
	vars:
	  CC: gcc
	targets:
	  app:
	    deps: [main.o]
	    cmd: $CC -o $@ main.o

Commands support $VAR and ${VAR} expansion from the vars block and the
environment, plus $@ for the target name and $cwd for the working directory.

# Limitations

Targets build strictly sequentially; there is no parallelism. Staleness is
inferred from filesystem modification timestamps only. The rule graph is
walked by plain recursion and dependency cycles are not detected.

# Dependencies

  - github.com/agilira/orpheus: CLI framework and error values
  - gopkg.in/yaml.v3: YAML rule files and list output
*/
package main
