package launcher

import (
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lodestonemc/lodestone/internals/minecraft"
	"github.com/pbnjay/memory"
)

var placeholderRe = regexp.MustCompile(`\$\{[a-zA-Z0-9_]+\}`)

// canonical game args for versions whose descriptor lacks a usable
// arguments.game structure. this is what 1.7 – 1.12 expect
var canonicalGameArgs = []string{
	"--username", "${auth_player_name}",
	"--version", "${version_name}",
	"--gameDir", "${game_directory}",
	"--assetsDir", "${assets_root}",
	"--assetIndex", "${assets_index_name}",
	"--uuid", "${auth_uuid}",
	"--accessToken", "${auth_access_token}",
	"--userType", "${user_type}",
}

// placeholderMap builds the ${token} substitution table
func placeholderMap(opts *Options, gen minecraft.Generation, classpath string, nativesDir string) map[string]string {
	desc := opts.Descriptor
	instance := opts.Instance

	creds := opts.Credentials
	if creds == nil {
		creds = &Credentials{
			PlayerName:  "Player",
			UUID:        "00000000-0000-0000-0000-000000000000",
			AccessToken: "-",
			UserType:    "legacy",
		}
	}

	assetsIndexName := desc.Assets
	if assetsIndexName == "" {
		assetsIndexName = minecraft.DefaultAssetIndexName(gen, desc.MinecraftVersion())
	}

	launcherName := opts.LauncherName
	if launcherName == "" {
		launcherName = "lodestone"
	}
	launcherVersion := opts.LauncherVersion
	if launcherVersion == "" {
		launcherVersion = "0.0.0"
	}

	placeholders := map[string]string{
		"auth_player_name":    creds.PlayerName,
		"version_name":        desc.ID,
		"game_directory":      instance.McDir(),
		"assets_root":         instance.AssetsDir(),
		"game_assets":         instance.AssetsDir(), // pre-1.6 name
		"assets_index_name":   assetsIndexName,
		"auth_uuid":           creds.UUID,
		"auth_access_token":   creds.AccessToken,
		"auth_session":        creds.AccessToken,
		"user_type":           creds.UserType,
		"user_properties":     "{}",
		"clientid":            creds.ClientID,
		"auth_xuid":           creds.XUID,
		"version_type":        desc.Type,
		"launcher_name":       launcherName,
		"launcher_version":    launcherVersion,
		"classpath":           classpath,
		"classpath_separator": cpSeparator(),
		"natives_directory":   nativesDir,
		"library_directory":   instance.LibrariesDir(),
	}

	if opts.Resolution != nil {
		placeholders["resolution_width"] = strconv.Itoa(opts.Resolution.Width)
		placeholders["resolution_height"] = strconv.Itoa(opts.Resolution.Height)
	}

	return placeholders
}

// featureMap derives the rule feature map from the generation & options
func featureMap(gen minecraft.Generation, opts *Options) map[string]bool {
	features := map[string]bool{
		"is_demo_user":               opts.Demo,
		"has_custom_resolution":      opts.Resolution != nil && gen.Supports(minecraft.FeatureCustomResolution),
		"has_quick_plays_support":    false,
		"is_quick_play_singleplayer": false,
		"is_quick_play_multiplayer":  false,
		"is_quick_play_realms":       false,
	}
	return features
}

// buildJVMArgs assembles the JVM argument list: heap flags, enhanced
// defaults, then the descriptor's own jvm arguments (modern) or the
// synthesized legacy flags. A classpath pair is guaranteed
func buildJVMArgs(opts *Options, gen minecraft.Generation, features map[string]bool, placeholders map[string]string, classpath string, nativesDir string) []string {
	memoryMiB := opts.MemoryMiB
	if memoryMiB == 0 {
		memoryMiB = defaultMemoryMiB()
	}

	loader := minecraft.DetectModLoader(opts.Descriptor)

	args := []string{
		"-Xms512M",
		fmt.Sprintf("-Xmx%dM", memoryMiB),
	}
	args = append(args, minecraft.EnhancedJVMArgs(gen, loader)...)

	replacer := newReplacer(placeholders)
	hasClasspath := false

	if gen.Supports(minecraft.FeatureModernArguments) && opts.Descriptor.Arguments != nil {
	DECLARED:
		for _, arg := range opts.Descriptor.Arguments.JVM {
			for _, rule := range arg.Rules {
				if !rule.Matches(features) {
					continue DECLARED
				}
			}
			for _, value := range arg.Value {
				value = substitute(replacer, value)
				if jvmArgPresent(args, value) {
					continue
				}
				if value == "-cp" || value == "-classpath" {
					hasClasspath = true
				}
				args = append(args, value)
			}
		}
	} else {
		// pre-1.13 descriptors carry no jvm section, the launcher is
		// expected to know these
		args = append(args,
			"-Djava.library.path="+nativesDir,
			"-Dminecraft.launcher.brand="+placeholders["launcher_name"],
		)
	}

	if !hasClasspath {
		args = append(args, "-cp", classpath)
	}

	return args
}

// jvmArgPresent reports if an equivalent flag is already in the list:
// the same -Xms/-Xmx prefix or the same -D system property name
func jvmArgPresent(args []string, arg string) bool {
	prefix := ""
	switch {
	case strings.HasPrefix(arg, "-Xms"):
		prefix = "-Xms"
	case strings.HasPrefix(arg, "-Xmx"):
		prefix = "-Xmx"
	case strings.HasPrefix(arg, "-D"):
		name, _, _ := strings.Cut(arg, "=")
		prefix = name + "="
	default:
		for _, present := range args {
			if present == arg {
				return true
			}
		}
		return false
	}

	for _, present := range args {
		if strings.HasPrefix(present, prefix) {
			return true
		}
	}
	return false
}

// buildGameArgs assembles the game argument list per generation
func buildGameArgs(opts *Options, gen minecraft.Generation, features map[string]bool, placeholders map[string]string) []string {
	desc := opts.Descriptor
	replacer := newReplacer(placeholders)

	if gen == minecraft.GenerationPreClassic {
		// classic versions take the player name and a session id
		return []string{placeholders["auth_player_name"], ""}
	}

	var args []string

	switch {
	case gen.Supports(minecraft.FeatureModernArguments) && desc.Arguments != nil && len(desc.Arguments.Game) != 0:
	DECLARED:
		for _, arg := range desc.Arguments.Game {
			for _, rule := range arg.Rules {
				if !rule.Matches(features) {
					continue DECLARED
				}
			}
			for _, value := range arg.Value {
				args = append(args, substitute(replacer, value))
			}
		}
	case desc.MinecraftArguments != "":
		for _, token := range strings.Fields(desc.MinecraftArguments) {
			args = append(args, substitute(replacer, token))
		}
	default:
		// descriptor lacks a usable argument structure, synthesize the
		// canonical set
		for _, token := range canonicalGameArgs {
			args = append(args, substitute(replacer, token))
		}
	}

	if opts.Resolution != nil && gen.Supports(minecraft.FeatureCustomResolution) && !flagPresent(args, "--width") {
		args = append(args,
			"--width", strconv.Itoa(opts.Resolution.Width),
			"--height", strconv.Itoa(opts.Resolution.Height),
		)
	}

	if !flagPresent(args, "--guiScale") {
		args = append(args, "--guiScale", "2")
	}

	return args
}

func flagPresent(args []string, flag string) bool {
	for _, arg := range args {
		if arg == flag {
			return true
		}
	}
	return false
}

func newReplacer(placeholders map[string]string) *strings.Replacer {
	pairs := make([]string, 0, len(placeholders)*2)
	for k, v := range placeholders {
		pairs = append(pairs, "${"+k+"}", v)
	}
	return strings.NewReplacer(pairs...)
}

// substitute replaces known ${token}s and blanks unresolvable ones
func substitute(replacer *strings.Replacer, value string) string {
	replaced := replacer.Replace(value)
	if placeholderRe.MatchString(replaced) {
		log.Printf("[WARN] unresolvable variable in launch args: %s", replaced)
		replaced = placeholderRe.ReplaceAllString(replaced, "")
	}
	return replaced
}

// defaultMemoryMiB picks a heap size from the available system memory:
// a quarter of it, clamped between 1 GiB and 85%
func defaultMemoryMiB() int {
	sysMemMiB := float64(memory.TotalMemory()) / 1024 / 1024
	if sysMemMiB == 0 {
		return 2048
	}

	maxRamMiB := math.Max(1024, sysMemMiB/4)
	maxRamMiB = math.Min(maxRamMiB, sysMemMiB*0.85)
	return int(maxRamMiB)
}
