package launcher

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lodestonemc/lodestone/internals/instances"
	"github.com/lodestonemc/lodestone/internals/minecraft"
)

// ErrNoClientJar is returned when neither the modded nor the vanilla
// client jar exists. Without it there is nothing to launch
var ErrNoClientJar = fmt.Errorf("client jar not found")

// BuildClasspath resolves the client jar and every required library of
// the descriptor into a platform separator joined classpath string.
//
// Missing libraries are logged and skipped, a missing client jar is fatal.
func BuildClasspath(instance *instances.Instance, desc *minecraft.VersionDescriptor, features map[string]bool) (string, error) {
	clientJar, err := resolveClientJar(instance, desc)
	if err != nil {
		return "", err
	}

	libDir := instance.LibrariesDir()
	entries := make([]string, 0, len(desc.Libraries)+1)
	seen := map[string]bool{}

	include := func(path string, name string) {
		if path == "" || seen[path] {
			return
		}
		if _, err := os.Stat(path); err != nil {
			log.Printf("[WARN] classpath: skipping missing library %s (%s)", name, path)
			return
		}
		seen[path] = true
		entries = append(entries, path)
	}

	for _, lib := range desc.Libraries.Required(features) {
		include(filepath.Join(libDir, lib.Filepath()), lib.Name)

		if nativePath := lib.NativePath(); nativePath != "" {
			include(filepath.Join(libDir, nativePath), lib.Name)
		}
	}

	// the client jar goes last, like the official launcher does it
	if !seen[clientJar] {
		entries = append(entries, clientJar)
	}

	return strings.Join(entries, cpSeparator()), nil
}

// resolveClientJar prefers the version-id specific jar for mod loader
// installations and falls back to the vanilla client jar
func resolveClientJar(instance *instances.Instance, desc *minecraft.VersionDescriptor) (string, error) {
	candidates := make([]string, 0, 2)
	if minecraft.IsModded(desc) {
		candidates = append(candidates, instance.VersionJar(desc.ID))
	}
	vanilla := instance.Minecraft
	if vanilla == "" {
		vanilla = desc.MinecraftVersion()
	}
	candidates = append(candidates, instance.VersionJar(vanilla))

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: looked for %s", ErrNoClientJar, strings.Join(candidates, ", "))
}
