package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/lodestonemc/lodestone/internals/downloadmgr"
	"github.com/lodestonemc/lodestone/internals/instances"
	"github.com/lodestonemc/lodestone/internals/minecraft"
)

// fallbackRepos are tried in order for libraries without an explicit
// download url. The loader maven (library.url) always comes first
var fallbackRepos = []string{
	"https://libraries.minecraft.net/",
	"https://repo1.maven.org/maven2/",
}

// downloadPlan is one file with an ordered list of candidate sources.
// The first source that delivers a valid file wins
type downloadPlan struct {
	urls   []string
	target string
	sha1   string
}

// ensureLibraries downloads every missing required library, including
// the platform native artifacts
func (b *Bootstrapper) ensureLibraries(ctx context.Context, instance *instances.Instance, desc *minecraft.VersionDescriptor) error {
	libDir := instance.LibrariesDir()
	plans := make([]downloadPlan, 0, len(desc.Libraries))

	for _, lib := range desc.Libraries.Required(nil) {
		lib := lib

		if plan, ok := libraryPlan(&lib, libDir); ok {
			plans = append(plans, plan)
		}
		if plan, ok := nativePlan(&lib, libDir); ok {
			plans = append(plans, plan)
		}
	}

	if err := b.runPlans(ctx, instance, StageDownloadingLibraries, plans); err != nil {
		return err
	}
	return nil
}

// libraryPlan builds the plan for the main artifact, false when the
// file is already on disk or the library has nothing to download
func libraryPlan(lib *minecraft.Library, libDir string) (downloadPlan, bool) {
	relPath := lib.Filepath()
	if relPath == "" {
		return downloadPlan{}, false
	}
	target := filepath.Join(libDir, relPath)

	artifact := lib.Downloads.Artifact
	if artifact.URL != "" {
		// verified downloads are cheap to re-check, always plan them
		return downloadPlan{urls: []string{artifact.URL}, target: target, sha1: artifact.Sha1}, true
	}

	// no hash available: presence on disk is the best we can do. the
	// download manager only renames complete bodies into place, so an
	// existing file is never a truncated one
	if _, err := os.Stat(target); err == nil {
		return downloadPlan{}, false
	}

	mavenPath := lib.MavenPath("")
	urls := make([]string, 0, len(fallbackRepos)+1)
	if lib.URL != "" {
		urls = append(urls, repoURL(lib.URL, mavenPath))
	}
	for _, repo := range fallbackRepos {
		urls = append(urls, repoURL(repo, mavenPath))
	}
	return downloadPlan{urls: urls, target: target}, true
}

// nativePlan builds the plan for the platform native artifact
func nativePlan(lib *minecraft.Library, libDir string) (downloadPlan, bool) {
	classifier := lib.NativeClassifier()
	if classifier == "" {
		return downloadPlan{}, false
	}

	relPath := lib.NativePath()
	if relPath == lib.Filepath() {
		// coordinate-style natives, the main artifact already covers it
		return downloadPlan{}, false
	}
	target := filepath.Join(libDir, relPath)

	if artifact, ok := lib.NativeArtifact(); ok && artifact.URL != "" {
		return downloadPlan{urls: []string{artifact.URL}, target: target, sha1: artifact.Sha1}, true
	}

	if _, err := os.Stat(target); err == nil {
		return downloadPlan{}, false
	}

	mavenPath := lib.MavenPath(classifier)
	urls := make([]string, 0, len(fallbackRepos)+1)
	if lib.URL != "" {
		urls = append(urls, repoURL(lib.URL, mavenPath))
	}
	for _, repo := range fallbackRepos {
		urls = append(urls, repoURL(repo, mavenPath))
	}
	return downloadPlan{urls: urls, target: target}, true
}

// repoURL joins a repository root and a maven path with forward slashes
func repoURL(repo string, mavenPath string) string {
	return strings.TrimSuffix(repo, "/") + "/" + filepath.ToSlash(mavenPath)
}

// runPlans downloads all plans, falling back to the next candidate url
// for every item that failed. Fallbacks are tried in waves so the first
// wave stays fully parallel
func (b *Bootstrapper) runPlans(ctx context.Context, instance *instances.Instance, stage Stage, plans []downloadPlan) error {
	pending := plans

	for len(pending) > 0 {
		mgr := downloadmgr.New()
		mgr.Client = b.httpClient()
		mgr.OnProgress = func(done int, total int, message string) {
			b.taskUpdate(instance, -1, message)
		}

		byTarget := make(map[string]downloadPlan, len(pending))
		for _, plan := range pending {
			byTarget[plan.target] = plan
			mgr.Add(downloadmgr.NewItem(plan.urls[0], plan.target, plan.sha1))
		}

		results, err := mgr.Start(ctx)
		if err == nil {
			return nil
		}

		// re-queue failures that still have candidate sources left
		next := make([]downloadPlan, 0)
		for _, r := range results {
			if r.Err == nil {
				continue
			}
			plan := byTarget[r.Item.Target]
			if len(plan.urls) > 1 {
				plan.urls = plan.urls[1:]
				next = append(next, plan)
				continue
			}
			// out of candidates, the whole stage fails
			return fail(stage, downloadKind(results),
				"re-run the bootstrap to retry failed downloads", err)
		}
		pending = next
	}

	return nil
}
