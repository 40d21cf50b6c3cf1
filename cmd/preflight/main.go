// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Verifies the execution environment before svcready is used in a pipeline:
// are the client binaries the non-generic kinds need actually installed, and
// is the env sane. Exit is non-zero only when a kind listed in
// PREFLIGHT_REQUIRE cannot be checked.
func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	tools := map[string]string{
		"postgres": "pg_isready",
		"mongodb":  "mongosh",
	}

	missing := map[string]bool{}
	for kind, bin := range tools {
		if path, err := exec.LookPath(bin); err == nil {
			ok(bin + " found at " + path)
		} else {
			missing[kind] = true
			warn(bin + " not found — " + kind + " probes will fail with a tooling error (or use --native)")
		}
	}

	required := strings.TrimSpace(os.Getenv("PREFLIGHT_REQUIRE"))
	if required != "" {
		for _, kind := range strings.Split(required, ",") {
			kind = strings.TrimSpace(kind)
			if missing[kind] {
				fail("required kind " + kind + " cannot be checked: client tool missing")
			}
		}
	}

	if db := strings.TrimSpace(os.Getenv("DATABASE_URL")); db == "" {
		warn("DATABASE_URL empty — API will keep probe history in memory only.")
	} else {
		ok("DATABASE_URL present")
	}

	if keys := strings.TrimSpace(os.Getenv("API_KEYS")); keys == "" {
		warn("API_KEYS empty — API routes will accept unauthenticated requests.")
	} else if strings.Contains(keys, " ") {
		warn("API_KEYS contains spaces; use comma-separated with no spaces, e.g. key1,key2")
	} else {
		ok("API_KEYS present")
	}

	ok("preflight passed")
}
