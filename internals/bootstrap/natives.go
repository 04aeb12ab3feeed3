package bootstrap

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lodestonemc/lodestone/internals/instances"
	"github.com/lodestonemc/lodestone/internals/minecraft"
)

// defaultNativeExcludes is applied on top of a library's own exclude
// list. Signatures and manifests never belong next to a .so
var defaultNativeExcludes = []string{"META-INF/*", ".git*", ".sha1*"}

// extractNatives unpacks the platform bindings of every native library
// into the version's natives directory
func (b *Bootstrapper) extractNatives(instance *instances.Instance, desc *minecraft.VersionDescriptor) error {
	nativesDir := instance.NativesDir(desc.ID)
	if err := os.MkdirAll(nativesDir, os.ModePerm); err != nil {
		return fail(StageExtractingNatives, KindFilesystem, "", err)
	}

	libDir := instance.LibrariesDir()

	for _, lib := range desc.Libraries.Required(nil) {
		relPath := lib.NativePath()
		if relPath == "" {
			// coordinate-style natives ship as plain classpath jars
			continue
		}

		excludes := append([]string{}, lib.Extract.Exclude...)
		excludes = append(excludes, defaultNativeExcludes...)

		jar := filepath.Join(libDir, relPath)
		if err := extractJar(jar, nativesDir, excludes); err != nil {
			return fail(StageExtractingNatives, KindFilesystem,
				"delete "+jar+" and re-run the bootstrap", err)
		}
	}

	return nil
}

// extractJar copies all non-excluded files of a jar into target
func extractJar(jar string, target string, excludes []string) error {
	r, err := zip.OpenReader(jar)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || excluded(f.Name, excludes) {
			continue
		}

		dest := filepath.Join(target, filepath.FromSlash(f.Name))
		// entry names come from the archive, keep them inside target
		if !strings.HasPrefix(dest, filepath.Clean(target)+string(os.PathSeparator)) {
			continue
		}

		if err := extractEntry(f, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return err
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// excluded matches an entry name against exclude patterns. A trailing
// * or / turns the pattern into a prefix match, otherwise it compares
// exactly. Descriptors use the directory form ("META-INF/")
func excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		switch {
		case strings.HasSuffix(pattern, "*"):
			if strings.HasPrefix(name, strings.TrimSuffix(pattern, "*")) {
				return true
			}
		case strings.HasSuffix(pattern, "/"):
			if strings.HasPrefix(name, pattern) {
				return true
			}
		case name == pattern:
			return true
		}
	}
	return false
}
