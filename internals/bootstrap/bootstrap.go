package bootstrap

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/lodestonemc/lodestone/internals/instances"
	"github.com/lodestonemc/lodestone/internals/minecraft"
)

// Stage is one step of the bootstrap sequence
type Stage string

const (
	StageCreatingDirectories       Stage = "creating-directories"
	StageDownloadingManifest       Stage = "downloading-manifest"
	StageDownloadingVersionJSON    Stage = "downloading-version-json"
	StageDownloadingClientJar      Stage = "downloading-client-jar"
	StageCheckingJavaVersion       Stage = "checking-java-version"
	StageInstallingJava            Stage = "installing-java"
	StageDownloadingLibraries      Stage = "downloading-libraries"
	StageValidatingAssets          Stage = "validating-assets"
	StageExtractingNatives         Stage = "extracting-natives"
	StageDownloadingForgeInstaller Stage = "downloading-forge-installer"
	StageRunningForgeInstaller     Stage = "running-forge-installer"
	StageCreatingLauncherProfiles  Stage = "creating-launcher-profiles"
)

// stageWeights drive the task percentage. downloads dominate
var stageWeights = []struct {
	stage  Stage
	weight float64
}{
	{StageCreatingDirectories, 1},
	{StageDownloadingManifest, 2},
	{StageDownloadingVersionJSON, 2},
	{StageDownloadingClientJar, 10},
	{StageCheckingJavaVersion, 1},
	{StageDownloadingLibraries, 30},
	{StageValidatingAssets, 40},
	{StageExtractingNatives, 3},
	{StageDownloadingForgeInstaller, 5},
	{StageRunningForgeInstaller, 5},
	{StageCreatingLauncherProfiles, 1},
}

// JavaInstaller ensures a java runtime of a given feature release.
// *java.Factory is the default implementation
type JavaInstaller interface {
	IsVersionInstalled(featureRelease int) bool
	JavaPath(ctx context.Context, featureRelease int) (string, error)
}

// Bootstrapper prepares an instance directory until it is launchable.
// Stages are idempotent: rerunning a finished bootstrap only stats files.
//
// A Bootstrapper may be reused for many instances, even concurrently,
// the version manifest cache is shared. Two concurrent bootstraps of
// the SAME instance are not supported, callers serialize per instance
// directory
type Bootstrapper struct {
	Versions *minecraft.VersionsClient
	Java     JavaInstaller
	Progress ProgressSink
	Tasks    TaskSink
	// HTTPClient is used for downloads. nil uses the download
	// manager's default client
	HTTPClient *http.Client

	manifests *manifestCache
}

// New returns a Bootstrapper with no-op sinks. Java stays nil when no
// installer is wanted, the java stage then only checks the descriptor
func New() *Bootstrapper {
	client := minecraft.NewVersionsClient()
	return &Bootstrapper{
		Versions:  client,
		Progress:  noopProgress{},
		Tasks:     noopTasks{},
		manifests: newManifestCache(client),
	}
}

// Result is what a finished bootstrap hands back to the caller
type Result struct {
	// Descriptor is the fully merged version descriptor
	Descriptor *minecraft.VersionDescriptor
	// JavaPath is the ensured java binary, empty without an installer
	JavaPath string
}

// Bootstrap runs all stages for the instance. The first failing stage
// aborts the rest and is returned as a *StageError. ctx cancels between
// stages and between in-flight downloads
func (b *Bootstrapper) Bootstrap(ctx context.Context, instance *instances.Instance) (*Result, error) {
	if b.manifests == nil {
		b.manifests = newManifestCache(b.Versions)
	}
	taskID := taskIDFor(instance)
	if err := b.Tasks.CreateTask(taskID, "Preparing "+instance.Name); err != nil {
		log.Printf("[WARN] task sink rejected create: %v", err)
	}
	defer b.Tasks.RemoveTask(taskID)

	result := &Result{}
	progress := 0.0

	for _, step := range stageWeights {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		b.emit("bootstrap:stage", map[string]interface{}{
			"instance": instance.ID,
			"stage":    string(step.stage),
		})
		b.taskUpdate(instance, progress, string(step.stage))

		var err error
		switch step.stage {
		case StageCreatingDirectories:
			err = b.createDirectories(instance)
		case StageDownloadingManifest, StageDownloadingVersionJSON:
			// both covered by ensureDescriptors, which only asks the
			// manifest cache when a version json is missing
			if step.stage == StageDownloadingVersionJSON {
				result.Descriptor, err = b.ensureDescriptors(ctx, instance)
			}
		case StageDownloadingClientJar:
			err = b.ensureClientJar(ctx, instance, result.Descriptor)
		case StageCheckingJavaVersion:
			result.JavaPath, err = b.ensureJava(ctx, instance, result.Descriptor)
		case StageDownloadingLibraries:
			err = b.ensureLibraries(ctx, instance, result.Descriptor)
		case StageValidatingAssets:
			err = b.ensureAssets(ctx, instance, result.Descriptor)
		case StageExtractingNatives:
			err = b.extractNatives(instance, result.Descriptor)
		case StageDownloadingForgeInstaller, StageRunningForgeInstaller:
			// both covered by ensureForge, a no-op unless the instance
			// uses forge and its merged profile is still missing
			if step.stage == StageRunningForgeInstaller {
				err = b.ensureForge(ctx, instance, result.JavaPath)
				// the installer wrote a merged version json, pick it up
				if err == nil && instance.ModLoader.Name == minecraft.LoaderForge {
					result.Descriptor, err = b.resolveMerged(instance)
				}
			}
		case StageCreatingLauncherProfiles:
			err = b.ensureLauncherProfiles(instance)
		}

		if err != nil {
			stageErr := fail(step.stage, KindNetwork, "", err)
			b.emit("bootstrap:error", map[string]interface{}{
				"instance": instance.ID,
				"stage":    string(stageErr.Stage),
				"kind":     stageErr.Kind.String(),
				"error":    stageErr.Error(),
			})
			return nil, stageErr
		}

		progress += step.weight
		b.taskUpdate(instance, progress, string(step.stage))
	}

	b.taskUpdate(instance, 100, "done")
	return result, nil
}

// createDirectories lays out the instance skeleton
func (b *Bootstrapper) createDirectories(instance *instances.Instance) error {
	dirs := []string{
		instance.VersionsDir(),
		instance.LibrariesDir(),
		filepath.Join(instance.AssetsDir(), "indexes"),
		filepath.Join(instance.AssetsDir(), "objects"),
		instance.NativesDir(instance.VersionID()),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fail(StageCreatingDirectories, KindFilesystem,
				"check permissions of "+instance.Directory, err)
		}
	}
	return nil
}

// resolveMerged loads + merges the on-disk descriptor chain
func (b *Bootstrapper) resolveMerged(instance *instances.Instance) (*minecraft.VersionDescriptor, error) {
	desc, err := minecraft.ResolveDescriptor(instance.VersionsDir(), instance.VersionID())
	if err != nil {
		return nil, fail(StageDownloadingVersionJSON, KindData,
			"delete the versions directory to re-download", err)
	}
	return desc, nil
}

// requiredJavaRelease picks the java feature release for a descriptor.
// The descriptor usually says it itself, old ones predate the field
func requiredJavaRelease(desc *minecraft.VersionDescriptor) int {
	if desc.JavaVersion.MajorVersion != 0 {
		return desc.JavaVersion.MajorVersion
	}

	version, err := semver.NewVersion(desc.MinecraftVersion())
	if err != nil {
		// snapshots and pre-classic ids don't parse, assume modern
		if minecraft.DetectGeneration(desc.MinecraftVersion(), desc) == minecraft.GenerationModern {
			return 17
		}
		return 8
	}

	switch {
	case version.Compare(semver.MustParse("1.20.5")) >= 0:
		return 21
	case version.Compare(semver.MustParse("1.18.0")) >= 0:
		return 17
	case version.Compare(semver.MustParse("1.17.0")) >= 0:
		return 16
	default:
		return 8
	}
}

// ensureJava checks the required runtime and installs it when the
// bootstrapper has an installer wired
func (b *Bootstrapper) ensureJava(ctx context.Context, instance *instances.Instance, desc *minecraft.VersionDescriptor) (string, error) {
	release := requiredJavaRelease(desc)

	if b.Java == nil {
		if instance.JavaPath == "" {
			return "", nil
		}
		return instance.JavaPath, nil
	}

	if !b.Java.IsVersionInstalled(release) {
		b.emit("bootstrap:stage", map[string]interface{}{
			"instance": instance.ID,
			"stage":    string(StageInstallingJava),
			"release":  release,
		})
		b.taskUpdate(instance, -1, fmt.Sprintf("installing java %d", release))
	}

	javaPath, err := b.Java.JavaPath(ctx, release)
	if err != nil {
		return "", fail(StageInstallingJava, KindConfiguration,
			fmt.Sprintf("install a java %d runtime manually and set java_path in instance.toml", release), err)
	}

	if instance.JavaPath != javaPath {
		instance.JavaPath = javaPath
		if err := instance.Save(); err != nil {
			return "", fail(StageCheckingJavaVersion, KindFilesystem, "", err)
		}
	}
	return javaPath, nil
}
