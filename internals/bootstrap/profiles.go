package bootstrap

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/lodestonemc/lodestone/internals/instances"
)

// launcherProfiles is the minimal launcher_profiles.json scaffolding.
// Mod loader installers read and patch this file
type launcherProfiles struct {
	Profiles map[string]launcherProfile `json:"profiles"`
	Settings struct {
		EnableSnapshots bool `json:"enableSnapshots"`
	} `json:"settings"`
	Version int `json:"version"`
}

type launcherProfile struct {
	Name          string `json:"name"`
	Type          string `json:"type,omitempty"`
	LastVersionID string `json:"lastVersionId"`
	GameDir       string `json:"gameDir,omitempty"`
}

// ensureLauncherProfiles writes launcher_profiles.json when absent
func (b *Bootstrapper) ensureLauncherProfiles(instance *instances.Instance) error {
	file := filepath.Join(instance.McDir(), "launcher_profiles.json")
	if _, err := os.Stat(file); err == nil {
		return nil
	}

	profiles := launcherProfiles{
		Profiles: map[string]launcherProfile{
			instance.ID: {
				Name:          instance.Name,
				Type:          "custom",
				LastVersionID: instance.VersionID(),
				GameDir:       instance.McDir(),
			},
		},
		Version: 3,
	}
	profiles.Settings.EnableSnapshots = true

	buf, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fail(StageCreatingLauncherProfiles, KindData, "", err)
	}
	if err := os.WriteFile(file, buf, 0666); err != nil {
		return fail(StageCreatingLauncherProfiles, KindFilesystem, "", err)
	}
	return nil
}
