package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/lodestonemc/lodestone/internals/downloadmgr"
	"github.com/lodestonemc/lodestone/internals/instances"
	"github.com/lodestonemc/lodestone/internals/minecraft"
	"github.com/pkg/errors"
)

const forgeMaven = "https://maven.minecraftforge.net/net/minecraftforge/forge"

// installerModes are the flag sets tried in order when invoking the
// installer. Flags changed across forge generations, the first set that
// exits 0 wins
var installerModes = [][]string{
	{"--installClient", "{DIR}"},
	{"--installClient"},
	{"--extract", "{DIR}"},
}

// ensureForge downloads and runs the forge installer unless the merged
// forge profile already exists. Non-forge instances are a no-op
func (b *Bootstrapper) ensureForge(ctx context.Context, instance *instances.Instance, javaPath string) error {
	if instance.ModLoader.Name != minecraft.LoaderForge {
		return nil
	}
	if _, err := os.Stat(instance.VersionFile(instance.VersionID())); err == nil {
		return nil
	}

	installer, err := b.downloadForgeInstaller(ctx, instance)
	if err != nil {
		return err
	}

	if err := b.runForgeInstaller(ctx, instance, installer, javaPath); err != nil {
		return err
	}

	// the installer names its profile "<mc>-forge-<ver>" like we do,
	// but that changed across releases. link the expected name if needed
	return b.adoptForgeProfile(instance)
}

func (b *Bootstrapper) downloadForgeInstaller(ctx context.Context, instance *instances.Instance) (string, error) {
	combined := instance.Minecraft + "-" + instance.ModLoader.Version
	url := fmt.Sprintf("%s/%s/forge-%s-installer.jar", forgeMaven, combined, combined)
	target := filepath.Join(instance.McDir(), "installer", "forge-"+combined+"-installer.jar")

	mgr := downloadmgr.New()
	mgr.Client = b.httpClient()
	mgr.Add(downloadmgr.NewItem(url, target, ""))

	if results, err := mgr.Start(ctx); err != nil {
		return "", fail(StageDownloadingForgeInstaller, downloadKind(results),
			fmt.Sprintf("check that forge %s exists for minecraft %s", instance.ModLoader.Version, instance.Minecraft), err)
	}
	return target, nil
}

// runForgeInstaller tries every installer mode in order until one
// exits successfully
func (b *Bootstrapper) runForgeInstaller(ctx context.Context, instance *instances.Instance, installer string, javaPath string) error {
	// the installer refuses to run without a launcher profile file
	if err := b.ensureLauncherProfiles(instance); err != nil {
		return err
	}

	if javaPath == "" {
		javaPath = "java"
	}

	var lastErr error
	for _, mode := range installerModes {
		args := []string{"-jar", installer}
		for _, flag := range mode {
			if flag == "{DIR}" {
				flag = instance.McDir()
			}
			args = append(args, flag)
		}

		cmd := exec.CommandContext(ctx, javaPath, args...)
		cmd.Dir = instance.McDir()

		out, err := cmd.CombinedOutput()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = errors.Wrapf(err, "forge installer %v: %s", mode, tail(out, 400))
	}

	return fail(StageRunningForgeInstaller, KindExternalTool,
		"run the forge installer manually against "+instance.McDir(), lastErr)
}

// adoptForgeProfile copies the version json the installer produced to
// the id this instance expects
func (b *Bootstrapper) adoptForgeProfile(instance *instances.Instance) error {
	want := instance.VersionID()
	if _, err := os.Stat(instance.VersionFile(want)); err == nil {
		return nil
	}

	entries, err := os.ReadDir(instance.VersionsDir())
	if err != nil {
		return fail(StageRunningForgeInstaller, KindFilesystem, "", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == want || entry.Name() == instance.Minecraft {
			continue
		}
		file := instance.VersionFile(entry.Name())
		desc, err := minecraft.ReadDescriptor(file)
		if err != nil || minecraft.DetectModLoader(desc) != minecraft.LoaderForge {
			continue
		}

		desc.ID = want
		if err := minecraft.SaveDescriptor(desc, instance.VersionFile(want)); err != nil {
			return fail(StageRunningForgeInstaller, KindFilesystem, "", err)
		}
		return nil
	}

	return fail(StageRunningForgeInstaller, KindExternalTool,
		"the installer exited 0 but produced no forge profile", fmt.Errorf("no forge version json found in %s", instance.VersionsDir()))
}

// tail returns the last n bytes of installer output for error messages
func tail(out []byte, n int) string {
	if len(out) <= n {
		return string(out)
	}
	return "…" + string(out[len(out)-n:])
}
