package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// User variables from the rule file; classic rule files leave this empty
// so lookups fall through to the environment.
var vars map[string]Var

// $var or ${var} or $@
var varPattern = regexp.MustCompile(`\$\w+|\$\{[^}]+\}|\$@`)

// Get a variable else -> environment variable -> ""
func GetVar(name string, targetName string) string {
	name = strings.Trim(name, "$")
	switch name {
	case "@":
		return targetName
	case "cwd":
		path, _ := os.Getwd()
		return path
	default:
		if val, exists := vars[name]; exists {
			return string(val)
		}
		return os.Getenv(name)
	}
}

// ParseVars expands every variable reference in text. Unknown variables are
// left in place with a warning, matching how undefined make variables are
// usually easier to spot than to silently erase.
func ParseVars(text string, targetName string) string {
	matches := varPattern.FindAllString(text, -1)

	for _, m := range matches {
		varname := strings.TrimPrefix(m, "$")
		varname = strings.Trim(varname, "{}")

		val := GetVar("$"+varname, targetName)
		if val == "" {
			fmt.Fprintf(os.Stderr, "[warn] undefined variable %s in target %s\n", m, targetName)
			continue
		}

		text = strings.Replace(text, m, val, 1)
	}

	return text
}
