package minecraft

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Libraries is a collection of minecraft libs
type Libraries []Library

// Required returns only the libraries that apply to the current platform
// and feature set (matching rules & native availability)
func (l Libraries) Required(features map[string]bool) Libraries {
	required := make(Libraries, 0, len(l))

	for _, lib := range l {
		include := true
		for _, rule := range lib.Rules {
			include = rule.Matches(features)
		}
		if !include {
			continue
		}

		// a natives-only entry that has nothing for this platform is skipped
		if len(lib.Natives) != 0 && lib.Downloads.Artifact.URL == "" && lib.Downloads.Artifact.Path == "" {
			if lib.NativeClassifier() == "" {
				continue
			}
		}

		required = append(required, lib)
	}

	return required
}

// Library is one minecraft library dependency
type Library struct {
	// Name is the maven coordinate group:artifact:version[:classifier]
	Name      string `json:"name"`
	Downloads struct {
		Artifact Artifact `json:"artifact,omitempty"`
		// Classifiers are additional platform artifacts (native bindings).
		// Not used anymore by recent versions, which attach the platform
		// to the maven coordinate instead
		Classifiers map[string]Artifact `json:"classifiers,omitempty"`
	} `json:"downloads,omitempty"`
	// URL is a maven repository root for libraries without explicit downloads
	URL   string `json:"url,omitempty"`
	Rules []Rule `json:"rules,omitempty"`
	// Natives maps an os name to the classifier carrying its bindings
	Natives map[string]string `json:"natives,omitempty"`
	// Extract lists entries to skip when unpacking the native jar
	Extract struct {
		Exclude []string `json:"exclude,omitempty"`
	} `json:"extract,omitempty"`
}

// coordinate splits the maven name. missing parts come back empty
func (l *Library) coordinate() (group, artifact, version, classifier string) {
	parts := strings.SplitN(l.Name, ":", 4)
	if len(parts) > 0 {
		group = parts[0]
	}
	if len(parts) > 1 {
		artifact = parts[1]
	}
	if len(parts) > 2 {
		version = parts[2]
	}
	if len(parts) > 3 {
		classifier = parts[3]
	}
	return
}

// Identity is the merge key of a library: group:artifact[:classifier].
// Two entries with the same identity describe the same library in
// (possibly) different versions
func (l *Library) Identity() string {
	group, artifact, _, classifier := l.coordinate()
	if classifier != "" {
		return group + ":" + artifact + ":" + classifier
	}
	return group + ":" + artifact
}

// Version is the version component of the maven coordinate
func (l *Library) Version() string {
	_, _, version, _ := l.coordinate()
	return version
}

// Group is the group component of the maven coordinate
func (l *Library) Group() string {
	group, _, _, _ := l.coordinate()
	return group
}

// MavenPath derives the repository path from the coordinate:
// group/with/slashes/artifact/version/artifact-version[-classifier].jar
func (l *Library) MavenPath(classifier string) string {
	group, artifact, version, coordClassifier := l.coordinate()
	if classifier == "" {
		classifier = coordClassifier
	}

	file := artifact + "-" + version
	if classifier != "" {
		file += "-" + classifier
	}

	base := filepath.Join(strings.Split(group, ".")...)
	return filepath.Join(base, artifact, version, file+".jar")
}

// Filepath returns the target path of the main artifact relative to the
// libraries folder
func (l *Library) Filepath() string {
	if l.Downloads.Artifact.Path != "" {
		return l.Downloads.Artifact.Path
	}
	return l.MavenPath("")
}

// NativeClassifier returns the classifier name carrying native bindings
// for the current platform, or "" if this library has none.
// Candidates are tried from most to least specific.
func (l *Library) NativeClassifier() string {
	return l.nativeClassifierFor(runtime.GOOS, runtime.GOARCH)
}

func (l *Library) nativeClassifierFor(os string, arch string) string {
	os = normalizeOS(os)
	arch = normalizeArch(arch)

	candidates := []string{
		fmt.Sprintf("natives-%s-%s", os, arch),
		"natives-" + os,
	}
	if legacy, ok := l.Natives[os]; ok {
		// old descriptors template the arch bits into the name
		legacy = strings.ReplaceAll(legacy, "${arch}", archBits(arch))
		candidates = append(candidates, legacy)
	}

	for _, candidate := range candidates {
		if _, ok := l.Downloads.Classifiers[candidate]; ok {
			return candidate
		}
	}

	// natives entry without classifier downloads: the coordinate itself
	// carries the platform (1.19+ style)
	if len(l.Downloads.Classifiers) == 0 {
		_, _, _, coordClassifier := l.coordinate()
		if strings.HasPrefix(coordClassifier, "natives-") {
			if coordClassifier == candidates[0] || coordClassifier == candidates[1] {
				return coordClassifier
			}
			return ""
		}
	}

	return ""
}

// NativeArtifact returns the native download for the current platform
func (l *Library) NativeArtifact() (Artifact, bool) {
	classifier := l.NativeClassifier()
	if classifier == "" {
		return Artifact{}, false
	}
	if a, ok := l.Downloads.Classifiers[classifier]; ok {
		return a, true
	}
	// coordinate-style natives use the main artifact download
	return l.Downloads.Artifact, l.Downloads.Artifact.URL != "" || l.Downloads.Artifact.Path != ""
}

// NativePath returns the filepath of the platform native jar relative to
// the libraries folder, or "" when the library has no natives
func (l *Library) NativePath() string {
	classifier := l.NativeClassifier()
	if classifier == "" {
		return ""
	}
	if a, ok := l.Downloads.Classifiers[classifier]; ok && a.Path != "" {
		return a.Path
	}
	return l.MavenPath(classifier)
}

// HasNatives reports whether this library carries platform bindings at all
func (l *Library) HasNatives() bool {
	if len(l.Natives) != 0 || len(l.Downloads.Classifiers) != 0 {
		return true
	}
	_, _, _, classifier := l.coordinate()
	return strings.HasPrefix(classifier, "natives-")
}

// PlatformCount is the number of platform variants this entry exposes.
// Used as a merge tiebreak for colliding native libraries
func (l *Library) PlatformCount() int {
	if len(l.Downloads.Classifiers) != 0 {
		return len(l.Downloads.Classifiers)
	}
	return len(l.Natives)
}

func archBits(arch string) string {
	if arch == "x86" || arch == "arm32" {
		return "32"
	}
	return "64"
}
