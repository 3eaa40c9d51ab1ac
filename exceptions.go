package main

import (
	"fmt"
	"os"
)

// Exception Numbers
const (
	RULEFILE_NOT_FOUND int8 = iota + 1
	RULEFILE_INVALID
	SPAWN_FAILED
)

var Exps map[int8]string

// Initialize Exceptions Map
func InitExceptions() {
	Exps = make(map[int8]string, 0)
	Exps[RULEFILE_NOT_FOUND] = "mmake: %s: no such rule file"
	Exps[RULEFILE_INVALID] = "mmake: %s"
	Exps[SPAWN_FAILED] = "mmake: %s"
}

// RaiseException prints the numbered diagnostic to stderr and terminates
// the whole invocation with the given status.
func RaiseException(exception_number int8, value string, status int) {
	fmt.Fprintf(os.Stderr, Exps[exception_number]+"\n", value)
	os.Exit(status)
}
