package minecraft

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleMerge() {
	base := &VersionDescriptor{
		ID: "1.18.2",
		Libraries: Libraries{
			{Name: "commons-logging:commons-logging:1.2"},
		},
	}
	overlay := &VersionDescriptor{
		ID:           "1.18.2-fabric",
		InheritsFrom: "1.18.2",
		Libraries: Libraries{
			{Name: "net.fabricmc:fabric-loader:0.14.21"},
		},
	}
	merged := Merge(base, overlay, DefaultMergeOptions())

	fmt.Println("ID:", merged.ID)
	fmt.Println("Libraries:")
	for _, lib := range merged.Libraries {
		fmt.Println(" - ", lib.Name)
	}
	// Output:
	// ID: 1.18.2-fabric
	// Libraries:
	//  -  commons-logging:commons-logging:1.2
	//  -  net.fabricmc:fabric-loader:0.14.21
}

func TestMerge_selfMergeHasNoDuplicates(t *testing.T) {
	desc := &VersionDescriptor{
		ID: "1.19.2",
		Libraries: Libraries{
			{Name: "com.mojang:brigadier:1.0.18"},
			{Name: "org.apache.logging.log4j:log4j-core:2.17.1"},
			{Name: "org.lwjgl:lwjgl:3.3.1:natives-linux"},
		},
		Arguments: &Arguments{
			Game: []Argument{{Value: stringSlice{"--version"}}, {Value: stringSlice{"1.19.2"}}},
			JVM:  []Argument{{Value: stringSlice{"-Xss1M"}}},
		},
	}

	merged := Merge(desc, desc, DefaultMergeOptions())

	seen := map[string]int{}
	for _, lib := range merged.Libraries {
		seen[lib.Identity()]++
	}
	for key, count := range seen {
		assert.Equalf(t, 1, count, "library %s appears %d times", key, count)
	}
	assert.Len(t, merged.Libraries, len(desc.Libraries))
	assert.Len(t, merged.Arguments.Game, 2)
	assert.Len(t, merged.Arguments.JVM, 1)
}

func TestMerge_overlayWinsCollision(t *testing.T) {
	base := &VersionDescriptor{
		ID:        "1.19.2",
		Libraries: Libraries{{Name: "com.mojang:brigadier:1.0.18"}},
	}
	overlay := &VersionDescriptor{
		ID:        "1.19.2-forge",
		Libraries: Libraries{{Name: "com.mojang:brigadier:1.0.500"}},
	}

	merged := Merge(base, overlay, DefaultMergeOptions())
	require.Len(t, merged.Libraries, 1)
	assert.Equal(t, "com.mojang:brigadier:1.0.500", merged.Libraries[0].Name)
}

func TestMerge_denyGroupKeepsNewerVersion(t *testing.T) {
	base := &VersionDescriptor{
		ID:        "1.18.2",
		Libraries: Libraries{{Name: "org.apache.logging.log4j:log4j-core:2.17.1"}},
	}
	// mod loader ships an older, vulnerable log4j
	overlay := &VersionDescriptor{
		ID:        "1.18.2-forge",
		Libraries: Libraries{{Name: "org.apache.logging.log4j:log4j-core:2.14.0"}},
	}

	merged := Merge(base, overlay, DefaultMergeOptions())
	require.Len(t, merged.Libraries, 1)
	assert.Equal(t, "org.apache.logging.log4j:log4j-core:2.17.1", merged.Libraries[0].Name,
		"the newer version of a security sensitive library must win")

	// outside the deny groups the overlay may downgrade
	base.Libraries = Libraries{{Name: "com.mojang:datafixerupper:5.0.28"}}
	overlay.Libraries = Libraries{{Name: "com.mojang:datafixerupper:4.1.27"}}
	merged = Merge(base, overlay, DefaultMergeOptions())
	assert.Equal(t, "com.mojang:datafixerupper:4.1.27", merged.Libraries[0].Name)
}

func TestMerge_morePlatformsWins(t *testing.T) {
	wide := Library{Name: "org.lwjgl:lwjgl:3.2.2"}
	wide.Downloads.Classifiers = map[string]Artifact{
		"natives-linux":   {Path: "l"},
		"natives-windows": {Path: "w"},
		"natives-osx":     {Path: "m"},
	}
	narrow := Library{Name: "org.lwjgl:lwjgl:3.2.1"}
	narrow.Downloads.Classifiers = map[string]Artifact{
		"natives-linux": {Path: "l-old"},
	}

	base := &VersionDescriptor{ID: "1.12.2", Libraries: Libraries{wide}}
	overlay := &VersionDescriptor{ID: "1.12.2-forge", Libraries: Libraries{narrow}}

	merged := Merge(base, overlay, DefaultMergeOptions())
	require.Len(t, merged.Libraries, 1)
	assert.Equal(t, "org.lwjgl:lwjgl:3.2.2", merged.Libraries[0].Name)

	// the heuristic can be disabled, then the overlay wins again
	merged = Merge(base, overlay, MergeOptions{PreferMorePlatforms: false})
	assert.Equal(t, "org.lwjgl:lwjgl:3.2.1", merged.Libraries[0].Name)
}

func TestMerge_modernArguments(t *testing.T) {
	base := &VersionDescriptor{
		ID: "1.19.2",
		Arguments: &Arguments{
			JVM:  []Argument{{Value: stringSlice{"-Xss1M"}}},
			Game: []Argument{{Value: stringSlice{"--username"}}, {Value: stringSlice{"${auth_player_name}"}}},
		},
	}
	overlay := &VersionDescriptor{
		ID: "1.19.2-fabric",
		Arguments: &Arguments{
			JVM:  []Argument{{Value: stringSlice{"-Xss1M"}}, {Value: stringSlice{"-DFabricMcEmu=net.minecraft.client.main.Main"}}},
			Game: []Argument{},
		},
	}

	merged := Merge(base, overlay, DefaultMergeOptions())
	require.NotNil(t, merged.Arguments)

	var jvm []string
	for _, arg := range merged.Arguments.JVM {
		jvm = append(jvm, arg.Key())
	}
	assert.Equal(t, []string{"-Xss1M", "-DFabricMcEmu=net.minecraft.client.main.Main"}, jvm)
}

func TestMergeLegacyArguments(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		overlay string
		want    string
	}{
		{
			name:    "first seen flag wins",
			base:    "--username ${auth_player_name} --version ${version_name}",
			overlay: "--username other --tweakClass net.minecraftforge.fml.common.launcher.FMLTweaker",
			want:    "--username ${auth_player_name} --version ${version_name} --tweakClass net.minecraftforge.fml.common.launcher.FMLTweaker",
		},
		{
			name:    "flag value pairs move as a unit",
			base:    "--gameDir ${game_directory}",
			overlay: "--gameDir elsewhere --demo",
			want:    "--gameDir ${game_directory} --demo",
		},
		{
			name:    "empty base",
			base:    "",
			overlay: "--username ${auth_player_name}",
			want:    "--username ${auth_player_name}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mergeLegacyArguments(tt.base, tt.overlay); got != tt.want {
				t.Errorf("mergeLegacyArguments() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMerge_assetsOverlayReplaces(t *testing.T) {
	base := &VersionDescriptor{ID: "1.12.2", Assets: "1.12", AssetIndex: AssetIndexRef{ID: "1.12"}}
	overlay := &VersionDescriptor{ID: "1.12.2-forge"}

	merged := Merge(base, overlay, DefaultMergeOptions())
	assert.Equal(t, "1.12", merged.Assets, "base assets kept when overlay is silent")

	overlay.Assets = "custom"
	overlay.AssetIndex = AssetIndexRef{ID: "custom"}
	merged = Merge(base, overlay, DefaultMergeOptions())
	assert.Equal(t, "custom", merged.Assets)
	assert.Equal(t, "custom", merged.AssetIndex.ID)
}
