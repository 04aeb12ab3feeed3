package bootstrap

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcluded(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		want     bool
	}{
		{"META-INF/MANIFEST.MF", []string{"META-INF/*"}, true},
		{"META-INF/MANIFEST.MF", []string{"META-INF/"}, true},
		{"META-INFO.txt", []string{"META-INF/"}, false},
		{"lwjgl.dll", []string{"META-INF/*"}, false},
		{"lwjgl.dll", []string{"lwjgl.dll"}, true},
		{"lwjgl64.dll", []string{"lwjgl.dll"}, false},
		{"libs/a.so", []string{"libs*"}, true},
		{"anything", nil, false},
	}

	for _, test := range tests {
		got := excluded(test.name, test.patterns)
		assert.Equal(t, test.want, got, "%s vs %v", test.name, test.patterns)
	}
}

func writeTestJar(t *testing.T, file string, entries map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(file), os.ModePerm))

	out, err := os.Create(file)
	require.NoError(t, err)
	defer out.Close()

	w := zip.NewWriter(out)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestExtractJar(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "natives.jar")
	writeTestJar(t, jar, map[string]string{
		"liblwjgl.so":          "elf",
		"META-INF/MANIFEST.MF": "manifest",
		"sub/libglfw.so":       "elf2",
	})

	target := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(target, os.ModePerm))
	require.NoError(t, extractJar(jar, target, defaultNativeExcludes))

	buf, err := os.ReadFile(filepath.Join(target, "liblwjgl.so"))
	require.NoError(t, err)
	assert.Equal(t, "elf", string(buf))

	_, err = os.Stat(filepath.Join(target, "sub", "libglfw.so"))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(target, "META-INF"))
	assert.True(t, os.IsNotExist(err), "excluded entries must not be extracted")
}

func TestExtractJar_refusesPathEscape(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "evil.jar")
	writeTestJar(t, jar, map[string]string{
		"../escape.txt": "nope",
		"ok.txt":        "fine",
	})

	target := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(target, os.ModePerm))
	require.NoError(t, extractJar(jar, target, nil))

	_, err := os.Stat(filepath.Join(dir, "escape.txt"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(target, "ok.txt"))
	assert.NoError(t, err)
}
