package main

import (
	"fmt"
	"os"

	"github.com/agilira/orpheus/pkg/orpheus"
)

// NeedsRebuild decides whether target must be (re)built because of a single
// prerequisite. A target with several prerequisites is checked once per
// prerequisite, and each check that reports staleness triggers its own
// command run; that per-prerequisite multiplicity is part of the contract.
//
// The rules, in order:
//   - prerequisite missing from disk and no rule to make it: fatal
//   - prerequisite missing from disk but buildable: stale
//   - target missing from disk: stale
//   - otherwise stale iff the prerequisite was modified strictly after the
//     target; equal timestamps mean up to date
func NeedsRebuild(target string, prereq string, m *Makefile) (bool, error) {
	if _, err := os.Stat(prereq); err != nil {
		if m.Rule(prereq) == nil {
			return false, orpheus.NotFoundError(prereq,
				fmt.Sprintf("no rule to make target '%s'", prereq))
		}
		return true, nil
	}

	tarInfo, err := os.Lstat(target)
	if err != nil {
		return true, nil
	}

	preInfo, err := os.Lstat(prereq)
	if err != nil {
		return true, nil
	}

	return preInfo.ModTime().After(tarInfo.ModTime()), nil
}
