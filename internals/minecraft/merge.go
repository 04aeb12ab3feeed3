package minecraft

import (
	"encoding/json"
	"strings"

	"github.com/unascribed/FlexVer/go/flexver"
)

// securityDenyGroups are library groups where silently downgrading to
// whatever version a mod loader ships is not acceptable. On a merge
// collision the semantically newer version wins for these
var securityDenyGroups = []string{
	"org.apache.logging.log4j",
	"org.bouncycastle",
	"com.google.guava",
	"commons-io",
	"commons-codec",
	"org.apache.commons",
}

// MergeOptions tune the merge behavior
type MergeOptions struct {
	// PreferMorePlatforms lets the native library entry exposing more
	// platform classifiers win a collision. This is a heuristic, not a
	// correctness rule, which is why it can be turned off
	PreferMorePlatforms bool
}

// DefaultMergeOptions returns the options used by descriptor resolution
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{PreferMorePlatforms: true}
}

// Merge combines a base descriptor with a (mod loader) overlay into one
// effective descriptor. Neither input is modified.
//
// Libraries are unioned by identity (group:artifact[:classifier]) with
// the overlay winning collisions, except for security sensitive groups
// where the newer version wins. Arguments are merged generation aware.
func Merge(base *VersionDescriptor, overlay *VersionDescriptor, opts MergeOptions) *VersionDescriptor {
	merged := *base
	merged.Extra = mergeExtra(base.Extra, overlay.Extra)

	if overlay.ID != "" {
		merged.ID = overlay.ID
	}
	if overlay.MainClass != "" {
		merged.MainClass = overlay.MainClass
	}
	if overlay.Type != "" {
		merged.Type = overlay.Type
	}
	if overlay.Jar != "" {
		merged.Jar = overlay.Jar
	}
	if overlay.JavaVersion.MajorVersion != 0 {
		merged.JavaVersion = overlay.JavaVersion
	}
	if overlay.Downloads.Client.URL != "" {
		merged.Downloads = overlay.Downloads
	}

	// assets: the overlay replaces when it has an opinion
	if overlay.Assets != "" {
		merged.Assets = overlay.Assets
	}
	if overlay.AssetIndex.ID != "" {
		merged.AssetIndex = overlay.AssetIndex
	}

	merged.Libraries = mergeLibraries(base.Libraries, overlay.Libraries, opts)
	mergeArguments(&merged, base, overlay)

	// the merged document stands on its own
	merged.InheritsFrom = ""

	return &merged
}

func mergeExtra(base, overlay map[string]json.RawMessage) map[string]json.RawMessage {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	merged := make(map[string]json.RawMessage, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// mergeLibraries unions by identity key. base order is kept, new overlay
// entries are appended
func mergeLibraries(base, overlay Libraries, opts MergeOptions) Libraries {
	merged := make(Libraries, 0, len(base)+len(overlay))
	index := make(map[string]int, len(base))

	for _, lib := range base {
		key := lib.Identity()
		if at, ok := index[key]; ok {
			// duplicate inside one descriptor, last one wins
			merged[at] = lib
			continue
		}
		index[key] = len(merged)
		merged = append(merged, lib)
	}

	for _, lib := range overlay {
		key := lib.Identity()
		at, ok := index[key]
		if !ok {
			index[key] = len(merged)
			merged = append(merged, lib)
			continue
		}
		merged[at] = pickLibrary(merged[at], lib, opts)
	}

	return merged
}

// pickLibrary decides a collision between a base entry and an overlay
// entry with the same identity
func pickLibrary(base, overlay Library, opts MergeOptions) Library {
	// native entries: more platform coverage wins (heuristic)
	if opts.PreferMorePlatforms && (base.HasNatives() || overlay.HasNatives()) {
		if base.PlatformCount() > overlay.PlatformCount() {
			return base
		}
		return overlay
	}

	// security sensitive groups never get downgraded by a mod loader
	if inDenyGroup(base.Group()) && flexver.Less(overlay.Version(), base.Version()) {
		return base
	}

	return overlay
}

func inDenyGroup(group string) bool {
	for _, deny := range securityDenyGroups {
		if group == deny || strings.HasPrefix(group, deny+".") {
			return true
		}
	}
	return false
}

// mergeArguments merges the launch arguments generation aware
func mergeArguments(merged, base, overlay *VersionDescriptor) {
	switch {
	case base.Arguments != nil || overlay.Arguments != nil:
		args := &Arguments{}
		args.JVM = dedupeArguments(collectArgs(base.Arguments, overlay.Arguments, true))
		args.Game = dedupeArguments(collectArgs(base.Arguments, overlay.Arguments, false))
		merged.Arguments = args
		merged.MinecraftArguments = ""
	case base.MinecraftArguments != "" || overlay.MinecraftArguments != "":
		merged.MinecraftArguments = mergeLegacyArguments(
			base.MinecraftArguments,
			overlay.MinecraftArguments,
		)
	}
}

func collectArgs(base, overlay *Arguments, jvm bool) []Argument {
	var args []Argument
	for _, src := range []*Arguments{base, overlay} {
		if src == nil {
			continue
		}
		if jvm {
			args = append(args, src.JVM...)
		} else {
			args = append(args, src.Game...)
		}
	}
	return args
}

// dedupeArguments drops later entries with the same normalized key
func dedupeArguments(args []Argument) []Argument {
	deduped := make([]Argument, 0, len(args))
	seen := make(map[string]bool, len(args))

	for _, arg := range args {
		key := arg.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, arg)
	}
	return deduped
}

// mergeLegacyArguments merges two pre-1.13 argument strings. A
// "--flag value" pair moves as one unit, the first occurrence of a flag
// wins and later duplicates are dropped together with their value
func mergeLegacyArguments(base, overlay string) string {
	tokens := append(strings.Fields(base), strings.Fields(overlay)...)

	var out []string
	seenFlags := make(map[string]bool)

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		if !strings.HasPrefix(token, "--") {
			out = append(out, token)
			continue
		}

		hasValue := i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "--")
		if seenFlags[token] {
			if hasValue {
				i++ // drop the duplicate's value as well
			}
			continue
		}
		seenFlags[token] = true
		out = append(out, token)
		if hasValue {
			out = append(out, tokens[i+1])
			i++
		}
	}

	return strings.Join(out, " ")
}
