package minecraft

import (
	"regexp"
	"strconv"
	"strings"
)

// Generation groups minecraft versions into eras that share launch
// conventions. A decade of version documents left us with four of them.
type Generation uint8

const (
	// GenerationPreClassic covers rd-/classic/indev/alpha/beta versions
	GenerationPreClassic Generation = iota
	// GenerationLegacy covers 1.0 – 1.12.2 (minecraftArguments string)
	GenerationLegacy
	// GenerationModern covers 1.13+ (structured arguments)
	GenerationModern
	// GenerationFuture is everything we can not classify. treated like
	// modern, flagged separately so callers can warn
	GenerationFuture
)

func (g Generation) String() string {
	switch g {
	case GenerationPreClassic:
		return "pre-classic"
	case GenerationLegacy:
		return "legacy"
	case GenerationModern:
		return "modern"
	default:
		return "future"
	}
}

// Feature is a launch capability that depends on the generation
type Feature uint8

const (
	// FeatureModernArguments – structured arguments.game / arguments.jvm
	FeatureModernArguments Feature = iota
	// FeatureLegacyArguments – single minecraftArguments string
	FeatureLegacyArguments
	// FeatureAssetIndex – content addressed assets via an asset index
	FeatureAssetIndex
	// FeatureJavaAgent – versions that tolerate -javaagent flags
	FeatureJavaAgent
	// FeatureRuleArguments – rule-conditioned argument entries
	FeatureRuleArguments
	// FeatureCustomResolution – --width/--height support
	FeatureCustomResolution
)

// Supports reports whether versions of this generation have the given
// launch capability
func (g Generation) Supports(f Feature) bool {
	switch f {
	case FeatureModernArguments, FeatureRuleArguments:
		return g == GenerationModern || g == GenerationFuture
	case FeatureLegacyArguments:
		return g == GenerationLegacy || g == GenerationPreClassic
	case FeatureAssetIndex:
		return g != GenerationPreClassic
	case FeatureJavaAgent:
		return g != GenerationPreClassic
	case FeatureCustomResolution:
		return g == GenerationModern || g == GenerationFuture
	default:
		return false
	}
}

var (
	releaseRe  = regexp.MustCompile(`^(\d+)\.(\d+)`)
	snapshotRe = regexp.MustCompile(`^(\d{2})w(\d{2})[a-z~]$`)
)

// DetectGeneration classifies a version. The descriptor shape is
// authoritative when available, the version string is a fallback for
// bare ids. The result is stable for a given input.
func DetectGeneration(version string, desc *VersionDescriptor) Generation {
	if desc != nil {
		if desc.Arguments != nil {
			return GenerationModern
		}
		if desc.MinecraftArguments != "" {
			return GenerationLegacy
		}
	}

	switch {
	case strings.HasPrefix(version, "rd-"),
		strings.HasPrefix(version, "inf-"),
		strings.HasPrefix(version, "c"),
		strings.HasPrefix(version, "a"),
		strings.HasPrefix(version, "b"):
		return GenerationPreClassic
	}

	if m := releaseRe.FindStringSubmatch(version); m != nil {
		major, _ := strconv.Atoi(m[1])
		minor, _ := strconv.Atoi(m[2])
		switch {
		case major > 1:
			return GenerationFuture
		case major == 1 && minor >= 13:
			return GenerationModern
		default:
			return GenerationLegacy
		}
	}

	if m := snapshotRe.FindStringSubmatch(version); m != nil {
		year, _ := strconv.Atoi(m[1])
		week, _ := strconv.Atoi(m[2])
		switch {
		// 17w43a was the first 1.13 snapshot
		case year > 17 || (year == 17 && week >= 43):
			return GenerationModern
		default:
			return GenerationLegacy
		}
	}

	return GenerationFuture
}

// MinorVersion extracts the minor component of a release version string,
// -1 when there is none (snapshots, classic versions)
func MinorVersion(version string) int {
	m := releaseRe.FindStringSubmatch(version)
	if m == nil {
		return -1
	}
	minor, _ := strconv.Atoi(m[2])
	return minor
}

// DefaultAssetIndexName returns the asset index a version of this
// generation uses when its descriptor does not name one
func DefaultAssetIndexName(g Generation, version string) string {
	switch g {
	case GenerationPreClassic:
		return "pre-1.6"
	case GenerationLegacy:
		return "legacy"
	default:
		if version != "" {
			return version
		}
		return "legacy"
	}
}

// DefaultMainClass returns the era appropriate vanilla main class
func DefaultMainClass(g Generation) string {
	if g == GenerationPreClassic {
		return "net.minecraft.client.Minecraft"
	}
	return "net.minecraft.client.main.Main"
}

// ModLoader names as detected by DetectModLoader
const (
	LoaderNone    = ""
	LoaderFabric  = "fabric"
	LoaderForge   = "forge"
	LoaderQuilt   = "quilt"
	LoaderUnknown = "unknown"
)

// DetectModLoader inspects a descriptor for mod loader fingerprints:
// library group names first, then the version id itself
func DetectModLoader(desc *VersionDescriptor) string {
	if desc == nil {
		return LoaderNone
	}

	for _, lib := range desc.Libraries {
		name := strings.ToLower(lib.Name)
		switch {
		case strings.Contains(name, "fabricmc"):
			return LoaderFabric
		case strings.Contains(name, "quiltmc"):
			return LoaderQuilt
		case strings.Contains(name, "minecraftforge"), strings.Contains(name, "neoforged"):
			return LoaderForge
		}
	}

	id := strings.ToLower(desc.ID)
	switch {
	case strings.Contains(id, "fabric"):
		return LoaderFabric
	case strings.Contains(id, "quilt"):
		return LoaderQuilt
	case strings.Contains(id, "forge"):
		return LoaderForge
	}

	if desc.InheritsFrom != "" {
		return LoaderUnknown
	}
	return LoaderNone
}

// IsModded reports whether a descriptor belongs to a mod loader
// installation rather than a vanilla version
func IsModded(desc *VersionDescriptor) bool {
	return desc != nil && (desc.InheritsFrom != "" || DetectModLoader(desc) != LoaderNone)
}

// MainClassFor resolves the main class with the precedence
// descriptor > loader heuristic > generation default
func MainClassFor(desc *VersionDescriptor, g Generation) string {
	if desc != nil && desc.MainClass != "" {
		return desc.MainClass
	}

	if desc != nil {
		minor := MinorVersion(desc.MinecraftVersion())
		switch DetectModLoader(desc) {
		case LoaderFabric, LoaderQuilt:
			if g == GenerationModern && minor >= 16 {
				return "net.fabricmc.loader.impl.launch.knot.KnotClient"
			}
			return "net.fabricmc.loader.launch.knot.KnotClient"
		case LoaderForge:
			switch {
			case minor >= 17:
				return "cpw.mods.bootstraplauncher.BootstrapLauncher"
			case minor >= 13:
				return "cpw.mods.modlauncher.Launcher"
			default:
				return "net.minecraft.launchwrapper.Launch"
			}
		}
	}

	return DefaultMainClass(g)
}

// EnhancedJVMArgs returns the tuning and mitigation flags we always add
// for a generation & loader combination
func EnhancedJVMArgs(g Generation, loader string) []string {
	args := []string{
		"-XX:+UnlockExperimentalVMOptions",
		"-XX:+UseG1GC",
		"-XX:G1NewSizePercent=20",
		"-XX:G1ReservePercent=20",
		"-XX:MaxGCPauseMillis=50",
		"-XX:G1HeapRegionSize=32M",
	}

	// log4shell mitigation. harmless on patched versions
	if g == GenerationLegacy || g == GenerationModern {
		args = append(args, "-Dlog4j2.formatMsgNoLookups=true")
	}

	if loader == LoaderForge {
		args = append(args,
			"-Dfml.ignoreInvalidMinecraftCertificates=true",
			"-Dfml.ignorePatchDiscrepancies=true",
		)
	}

	return args
}
