package launcher

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/lodestonemc/lodestone/internals/instances"
	"github.com/lodestonemc/lodestone/internals/minecraft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInstance(t *testing.T, version string) *instances.Instance {
	t.Helper()
	i := &instances.Instance{
		ID:        "test",
		Name:      "test",
		Minecraft: version,
		Directory: t.TempDir(),
	}
	require.NoError(t, os.MkdirAll(i.McDir(), os.ModePerm))
	return i
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), os.ModePerm))
	require.NoError(t, os.WriteFile(path, []byte("jar"), 0666))
}

func TestBuild_legacyGameArgs(t *testing.T) {
	instance := testInstance(t, "1.12.2")
	writeFile(t, instance.VersionJar("1.12.2"))

	desc := &minecraft.VersionDescriptor{
		ID:                 "1.12.2",
		MinecraftArguments: "--username ${auth_player_name} --version ${version_name}",
	}

	spec, err := Build(&Options{
		Instance:    instance,
		Descriptor:  desc,
		Credentials: &Credentials{PlayerName: "Alex"},
		MemoryMiB:   2048,
	})
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(spec.GameArgs), 4)
	assert.Equal(t, []string{"--username", "Alex", "--version", "1.12.2"}, spec.GameArgs[:4])

	// legacy jvm args are synthesized
	assert.Contains(t, spec.JVMArgs, "-Djava.library.path="+instance.NativesDir("1.12.2"))
}

func TestBuild_modernJVMArgs(t *testing.T) {
	instance := testInstance(t, "1.13")
	writeFile(t, instance.VersionJar("1.13"))

	desc := &minecraft.VersionDescriptor{
		ID: "1.13",
		Arguments: &minecraft.Arguments{
			JVM: []minecraft.Argument{{Value: []string{"-Xss1M"}}},
		},
	}

	spec, err := Build(&Options{
		Instance:   instance,
		Descriptor: desc,
		MemoryMiB:  4096,
	})
	require.NoError(t, err)

	assert.Contains(t, spec.JVMArgs, "-Xms512M")
	assert.Contains(t, spec.JVMArgs, "-Xmx4096M")
	assert.Contains(t, spec.JVMArgs, "-Xss1M")

	// a classpath pair is guaranteed at the end
	require.GreaterOrEqual(t, len(spec.JVMArgs), 2)
	assert.Equal(t, "-cp", spec.JVMArgs[len(spec.JVMArgs)-2])
	assert.NotEmpty(t, spec.JVMArgs[len(spec.JVMArgs)-1])
}

func TestBuild_jvmArgDeduplication(t *testing.T) {
	instance := testInstance(t, "1.19.2")
	writeFile(t, instance.VersionJar("1.19.2"))

	desc := &minecraft.VersionDescriptor{
		ID: "1.19.2",
		Arguments: &minecraft.Arguments{
			JVM: []minecraft.Argument{
				{Value: []string{"-Xmx2G"}},                          // same prefix as our -Xmx flag
				{Value: []string{"-Dlog4j2.formatMsgNoLookups=true"}}, // same property already added
				{Value: []string{"-Dcustom.flag=1"}},
			},
		},
	}

	spec, err := Build(&Options{Instance: instance, Descriptor: desc, MemoryMiB: 4096})
	require.NoError(t, err)

	xmx := 0
	log4j := 0
	for _, arg := range spec.JVMArgs {
		if len(arg) > 4 && arg[:4] == "-Xmx" {
			xmx++
		}
		if arg == "-Dlog4j2.formatMsgNoLookups=true" {
			log4j++
		}
	}
	assert.Equal(t, 1, xmx, "descriptor -Xmx must not duplicate the configured one")
	assert.Equal(t, 1, log4j)
	assert.Contains(t, spec.JVMArgs, "-Dcustom.flag=1")
}

func TestBuild_preClassic(t *testing.T) {
	instance := testInstance(t, "b1.7.3")
	writeFile(t, instance.VersionJar("b1.7.3"))

	desc := &minecraft.VersionDescriptor{ID: "b1.7.3"}

	spec, err := Build(&Options{
		Instance:    instance,
		Descriptor:  desc,
		Credentials: &Credentials{PlayerName: "Alex"},
		MemoryMiB:   1024,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alex", ""}, spec.GameArgs)
	assert.Equal(t, "net.minecraft.client.Minecraft", spec.MainClass)
}

func TestBuild_clientIDPlaceholder(t *testing.T) {
	instance := testInstance(t, "1.19.2")
	writeFile(t, instance.VersionJar("1.19.2"))

	desc := &minecraft.VersionDescriptor{
		ID: "1.19.2",
		Arguments: &minecraft.Arguments{
			Game: []minecraft.Argument{
				{Value: []string{"--clientId", "${clientid}"}},
			},
		},
	}

	spec, err := Build(&Options{
		Instance:    instance,
		Descriptor:  desc,
		Credentials: &Credentials{PlayerName: "Alex", ClientID: "install-0123456789abcdef"},
		MemoryMiB:   1024,
	})
	require.NoError(t, err)

	assert.Contains(t, spec.GameArgs, "install-0123456789abcdef")
	assert.NotContains(t, spec.GameArgs, "${clientid}")
}

func TestBuild_guiScaleAppended(t *testing.T) {
	instance := testInstance(t, "1.12.2")
	writeFile(t, instance.VersionJar("1.12.2"))

	desc := &minecraft.VersionDescriptor{
		ID:                 "1.12.2",
		MinecraftArguments: "--username ${auth_player_name}",
	}

	spec, err := Build(&Options{Instance: instance, Descriptor: desc, MemoryMiB: 1024})
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(spec.GameArgs), 2)
	assert.Equal(t, []string{"--guiScale", "2"}, spec.GameArgs[len(spec.GameArgs)-2:])
}

func TestBuild_missingClientJarIsFatal(t *testing.T) {
	instance := testInstance(t, "1.19.2")
	desc := &minecraft.VersionDescriptor{ID: "1.19.2", Arguments: &minecraft.Arguments{}}

	_, err := Build(&Options{Instance: instance, Descriptor: desc, MemoryMiB: 1024})
	assert.ErrorIs(t, err, ErrNoClientJar)
}

func TestBuildClasspath_excludesRuleFilteredLibraries(t *testing.T) {
	instance := testInstance(t, "1.19.2")
	writeFile(t, instance.VersionJar("1.19.2"))

	// a library locked to an os this test never runs on
	otherOS := "osx"
	if runtime.GOOS == "darwin" {
		otherOS = "windows"
	}

	excluded := minecraft.Library{
		Name:  "com.example:other-os-only:1.0",
		Rules: []minecraft.Rule{{Action: "allow", OS: minecraft.OS{Name: otherOS}}},
	}
	included := minecraft.Library{Name: "com.mojang:brigadier:1.0.18"}

	desc := &minecraft.VersionDescriptor{
		ID:        "1.19.2",
		Libraries: minecraft.Libraries{excluded, included},
	}

	libDir := instance.LibrariesDir()
	writeFile(t, filepath.Join(libDir, excluded.Filepath()))
	writeFile(t, filepath.Join(libDir, included.Filepath()))

	classpath, err := BuildClasspath(instance, desc, nil)
	require.NoError(t, err)

	assert.NotContains(t, classpath, "other-os-only",
		"an os-excluded library must never appear in the classpath")
	assert.Contains(t, classpath, "brigadier")
}

func TestBuildClasspath_missingLibraryIsSkipped(t *testing.T) {
	instance := testInstance(t, "1.19.2")
	writeFile(t, instance.VersionJar("1.19.2"))

	desc := &minecraft.VersionDescriptor{
		ID:        "1.19.2",
		Libraries: minecraft.Libraries{{Name: "com.example:nowhere:1.0"}},
	}

	classpath, err := BuildClasspath(instance, desc, nil)
	require.NoError(t, err)
	assert.NotContains(t, classpath, "nowhere")
	assert.Contains(t, classpath, instance.VersionJar("1.19.2"))
}
