package minecraft

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionDescriptor_keepsUnknownFields(t *testing.T) {
	raw := `{
		"id": "1.19.2",
		"mainClass": "net.minecraft.client.main.Main",
		"complianceLevel": 1,
		"logging": {"client": {"argument": "-Dlog4j.configurationFile=${path}"}}
	}`

	desc := &VersionDescriptor{}
	require.NoError(t, json.Unmarshal([]byte(raw), desc))

	assert.Equal(t, "1.19.2", desc.ID)
	assert.Contains(t, desc.Extra, "complianceLevel")
	assert.Contains(t, desc.Extra, "logging")

	out, err := json.Marshal(desc)
	require.NoError(t, err)

	var tree map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &tree))
	assert.Contains(t, tree, "complianceLevel")
	assert.Contains(t, tree, "logging")
	assert.Equal(t, json.RawMessage(`1`), tree["complianceLevel"])
}

func TestVersionDescriptor_argumentsTolerance(t *testing.T) {
	raw := `{
		"id": "1.19.2",
		"arguments": {
			"game": [
				"--username",
				"${auth_player_name}",
				{"rules": [{"action": "allow", "features": {"is_demo_user": true}}], "value": "--demo"},
				{"rules": [{"action": "allow", "features": {"has_custom_resolution": true}}], "value": ["--width", "${resolution_width}"]}
			],
			"jvm": ["-Xss1M"]
		}
	}`

	desc := &VersionDescriptor{}
	require.NoError(t, json.Unmarshal([]byte(raw), desc))
	require.NotNil(t, desc.Arguments)
	require.Len(t, desc.Arguments.Game, 4)

	assert.Equal(t, "--username", desc.Arguments.Game[0].Key())
	assert.Empty(t, desc.Arguments.Game[0].Rules)
	assert.Equal(t, "--demo", desc.Arguments.Game[2].Key())
	assert.Len(t, desc.Arguments.Game[2].Rules, 1)
	assert.Equal(t, "--width ${resolution_width}", desc.Arguments.Game[3].Key())
}

func TestResolveDescriptor_inheritance(t *testing.T) {
	versionsDir := t.TempDir()

	writeDescriptor(t, versionsDir, "1.18.2", `{
		"id": "1.18.2",
		"mainClass": "net.minecraft.client.main.Main",
		"assets": "1.18",
		"libraries": [{"name": "com.mojang:brigadier:1.0.18"}],
		"arguments": {"game": ["--username", "${auth_player_name}"], "jvm": []}
	}`)
	writeDescriptor(t, versionsDir, "1.18.2-fabric", `{
		"id": "1.18.2-fabric",
		"inheritsFrom": "1.18.2",
		"mainClass": "net.fabricmc.loader.impl.launch.knot.KnotClient",
		"libraries": [{"name": "net.fabricmc:fabric-loader:0.14.21"}],
		"arguments": {"game": [], "jvm": ["-DFabricMcEmu=net.minecraft.client.main.Main"]}
	}`)

	desc, err := ResolveDescriptor(versionsDir, "1.18.2-fabric")
	require.NoError(t, err)

	assert.Equal(t, "1.18.2-fabric", desc.ID)
	assert.Empty(t, desc.InheritsFrom)
	assert.Equal(t, "net.fabricmc.loader.impl.launch.knot.KnotClient", desc.MainClass)
	assert.Equal(t, "1.18", desc.Assets)
	assert.Len(t, desc.Libraries, 2)
}

func TestResolveDescriptor_cycle(t *testing.T) {
	versionsDir := t.TempDir()
	writeDescriptor(t, versionsDir, "a", `{"id": "a", "inheritsFrom": "b"}`)
	writeDescriptor(t, versionsDir, "b", `{"id": "b", "inheritsFrom": "a"}`)

	_, err := ResolveDescriptor(versionsDir, "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestApplyCompatFixes(t *testing.T) {
	legacy := &VersionDescriptor{ID: "1.7.10", MinecraftArguments: "--username ${auth_player_name}"}
	legacy.ApplyCompatFixes()
	assert.Equal(t, "net.minecraft.client.main.Main", legacy.MainClass)
	assert.Equal(t, "legacy", legacy.Assets)

	preClassic := &VersionDescriptor{ID: "b1.7.3"}
	preClassic.ApplyCompatFixes()
	assert.Equal(t, "net.minecraft.client.Minecraft", preClassic.MainClass)
	assert.Equal(t, "pre-1.6", preClassic.Assets)
}

func writeDescriptor(t *testing.T, versionsDir, id, content string) {
	t.Helper()
	dir := filepath.Join(versionsDir, id)
	require.NoError(t, os.MkdirAll(dir, os.ModePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte(content), 0666))
}
