// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

var emptyBlacklist = &Blacklist{exact: map[string]struct{}{}}

// Blacklist matches surface type names against configured entries.
// Entries are exact names ("MAGMA_BLOCK") or glob patterns ("*_CARPET").
// Matching is case-insensitive; names are normalized to upper case.
type Blacklist struct {
	exact    map[string]struct{}
	patterns []compiledPattern
}

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// CompileBlacklist builds a Blacklist from configuration entries.
// Invalid patterns are skipped and reported in the returned error slice;
// the remaining entries still take effect.
func CompileBlacklist(entries []string) (*Blacklist, []error) {
	bl := &Blacklist{exact: make(map[string]struct{}, len(entries))}
	var errs []error
	for _, raw := range entries {
		name := normalizeSurface(raw)
		if name == "" {
			continue
		}
		if !strings.ContainsAny(name, "*?[{") {
			bl.exact[name] = struct{}{}
			continue
		}
		g, err := glob.Compile(name)
		if err != nil {
			errs = append(errs, oops.Code(CodeInvalid).
				With("key", "blacklist-blocks").
				With("pattern", raw).
				Wrap(err))
			continue
		}
		bl.patterns = append(bl.patterns, compiledPattern{pattern: name, glob: g})
	}
	return bl, errs
}

// Match reports whether the surface type is blacklisted.
func (b *Blacklist) Match(surface string) bool {
	name := normalizeSurface(surface)
	if name == "" {
		return false
	}
	if _, ok := b.exact[name]; ok {
		return true
	}
	for _, p := range b.patterns {
		if p.glob.Match(name) {
			return true
		}
	}
	return false
}

// Len returns the number of usable entries.
func (b *Blacklist) Len() int {
	return len(b.exact) + len(b.patterns)
}

func normalizeSurface(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
