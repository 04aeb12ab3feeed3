package minecraft

import (
	"regexp"
	"runtime"
)

// Rule decides if an argument or library applies to the current platform
// and feature set
type Rule struct {
	Action   string          `json:"action,omitempty"`
	OS       OS              `json:"os,omitempty"`
	Features map[string]bool `json:"features,omitempty"`
}

// OS is the platform predicate of a [Rule]
type OS struct {
	Name string `json:"name,omitempty"`
	// Version of the os (a regex string)
	Version string `json:"version,omitempty"`
	Arch    string `json:"arch,omitempty"`
}

// osNames is the exact set of platform names descriptors use. Anything
// outside of it never matches
var osNames = map[string]bool{
	"windows": true,
	"osx":     true,
	"linux":   true,
}

var archAliases = map[string]string{
	"amd64":   "x64",
	"x86_64":  "x64",
	"386":     "x86",
	"i386":    "x86",
	"arm":     "arm32",
	"aarch64": "arm64",
}

func normalizeArch(arch string) string {
	if mapped, ok := archAliases[arch]; ok {
		return mapped
	}
	return arch
}

func normalizeOS(os string) string {
	if os == "darwin" {
		return "osx"
	}
	return os
}

// Matches reports if this rule allows inclusion on the current platform
// given the supplied feature map (which may be nil)
func (r Rule) Matches(features map[string]bool) bool {
	return r.matchesFor(runtime.GOOS, runtime.GOARCH, "", features)
}

func (r Rule) matchesFor(os string, arch string, osVersion string, features map[string]bool) bool {
	matched := r.osMatches(os, arch, osVersion) && r.featuresMatch(features)

	// a missing action means allow
	if r.Action == "disallow" {
		return !matched
	}
	return matched
}

func (r Rule) osMatches(os string, arch string, osVersion string) bool {
	os = normalizeOS(os)
	arch = normalizeArch(arch)

	if r.OS.Name != "" {
		// unknown os names never match, so we don't accidentally pull
		// platform natives onto a platform we know nothing about
		if !osNames[r.OS.Name] || r.OS.Name != os {
			return false
		}
	}

	if r.OS.Arch != "" {
		declared := normalizeArch(r.OS.Arch)
		// an arch name we can't map is treated as a match. the opposite
		// would exclude libraries on platforms newer than the descriptor
		if known := declared == "x64" || declared == "x86" ||
			declared == "arm32" || declared == "arm64"; known && declared != arch {
			return false
		}
	}

	if r.OS.Version != "" {
		if osVersion == "" {
			return false
		}
		matched, err := regexp.MatchString(r.OS.Version, osVersion)
		if err != nil || !matched {
			return false
		}
	}

	return true
}

func (r Rule) featuresMatch(features map[string]bool) bool {
	for key, want := range r.Features {
		if features == nil || features[key] != want {
			return false
		}
	}
	return true
}
