// Package stamp rewrites version strings in tracked files.
package stamp

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrNoMatch is returned when a target's pattern does not match the
// file contents. Callers treat this as non-fatal: the file is left
// byte-identical and a warning is reported.
var ErrNoMatch = errors.New("pattern not found in file")

// Target defines a version rewrite rule for a single file. Replace may
// contain a {version} placeholder that is substituted before the
// regex replacement runs.
type Target struct {
	Path    string `json:"path"`
	Pattern string `json:"pattern"`
	Replace string `json:"replace"`
}

// Result records the outcome of stamping a single target.
type Result struct {
	Target  Target
	Changed bool // File contents were rewritten
	Matched bool // Pattern matched (false means ErrNoMatch was reported)
}

// UpdateFile stamps a version into a single file using the target's
// regex pattern. Returns whether the file was rewritten. A missing
// file surfaces the underlying os error (errors.Is(err, os.ErrNotExist)
// holds); a non-matching pattern returns ErrNoMatch and leaves the
// file untouched. Stamping is idempotent: when the replacement yields
// identical contents, no write happens.
func UpdateFile(t Target, version string) (bool, error) {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}

	re, err := regexp.Compile(t.Pattern)
	if err != nil {
		return false, fmt.Errorf("invalid pattern: %w", err)
	}

	if !re.Match(data) {
		return false, ErrNoMatch
	}

	// Substitute {version} placeholder in the replacement template
	replacement := strings.ReplaceAll(t.Replace, "{version}", version)

	result := re.ReplaceAllString(string(data), replacement)
	if result == string(data) {
		return false, nil // Already up to date
	}

	return true, os.WriteFile(t.Path, []byte(result), 0644)
}

// Apply stamps a version into all targets. Missing files and invalid
// patterns abort with an error; non-matching patterns are collected as
// warnings and the remaining targets still run. The returned results
// are in target order and cover only the targets that were attempted.
func Apply(version string, targets []Target) ([]Result, []string, error) {
	var results []Result
	var warnings []string

	for _, t := range targets {
		changed, err := UpdateFile(t, version)
		if errors.Is(err, ErrNoMatch) {
			warnings = append(warnings, fmt.Sprintf("%s: pattern not matched, file left unchanged", t.Path))
			results = append(results, Result{Target: t})
			continue
		}
		if err != nil {
			return results, warnings, fmt.Errorf("failed to stamp %s: %w", t.Path, err)
		}
		results = append(results, Result{Target: t, Changed: changed, Matched: true})
	}

	return results, warnings, nil
}

// CheckConsistency verifies the expected version is already stamped in
// all targets. Returns a description per disagreeing target.
func CheckConsistency(version string, targets []Target) []string {
	var inconsistencies []string

	for _, t := range targets {
		data, err := os.ReadFile(t.Path)
		if err != nil {
			inconsistencies = append(inconsistencies, fmt.Sprintf("%s: file not found", t.Path))
			continue
		}

		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			inconsistencies = append(inconsistencies, fmt.Sprintf("%s: invalid pattern: %v", t.Path, err))
			continue
		}

		if !re.Match(data) {
			inconsistencies = append(inconsistencies, fmt.Sprintf("%s: pattern not matched", t.Path))
			continue
		}

		replacement := strings.ReplaceAll(t.Replace, "{version}", version)
		result := re.ReplaceAllString(string(data), replacement)

		if result != string(data) {
			inconsistencies = append(inconsistencies, fmt.Sprintf("%s: version mismatch", t.Path))
		}
	}

	return inconsistencies
}
