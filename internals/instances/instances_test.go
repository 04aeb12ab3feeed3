package instances

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRoundtrip(t *testing.T) {
	root := t.TempDir()

	created, err := New(root, "My Fabric Pack", "1.19.2", ModLoader{Name: "fabric", Version: "0.14.21"})
	require.NoError(t, err)
	assert.Equal(t, "my-fabric-pack", created.ID)

	opened, err := Open(created.Directory)
	require.NoError(t, err)
	assert.Equal(t, created.ID, opened.ID)
	assert.Equal(t, "My Fabric Pack", opened.Name)
	assert.Equal(t, "1.19.2", opened.Minecraft)
	assert.Equal(t, "fabric", opened.ModLoader.Name)
}

func TestNew_duplicate(t *testing.T) {
	root := t.TempDir()
	_, err := New(root, "twice", "1.19.2", ModLoader{})
	require.NoError(t, err)

	_, err = New(root, "twice", "1.19.2", ModLoader{})
	assert.ErrorIs(t, err, ErrInstanceExists)
}

func TestInstance_layout(t *testing.T) {
	i := &Instance{ID: "test", Directory: "/data/test", Minecraft: "1.19.2"}

	assert.Equal(t, filepath.Join("/data/test", "minecraft", "versions"), i.VersionsDir())
	assert.Equal(t,
		filepath.Join("/data/test", "minecraft", "versions", "1.19.2", "1.19.2.json"),
		i.VersionFile("1.19.2"))
	assert.Equal(t,
		filepath.Join("/data/test", "minecraft", "versions", "1.19.2", "1.19.2.jar"),
		i.VersionJar("1.19.2"))
	assert.Equal(t, filepath.Join("/data/test", "minecraft", "natives", "1.19.2"), i.NativesDir("1.19.2"))
}

func TestInstance_VersionID(t *testing.T) {
	vanilla := &Instance{Minecraft: "1.19.2"}
	assert.Equal(t, "1.19.2", vanilla.VersionID())
	assert.True(t, vanilla.Vanilla())

	forge := &Instance{Minecraft: "1.19.2", ModLoader: ModLoader{Name: "forge", Version: "43.1.1"}}
	assert.Equal(t, "1.19.2-forge-43.1.1", forge.VersionID())
	assert.False(t, forge.Vanilla())
}

func TestList(t *testing.T) {
	root := t.TempDir()
	_, err := New(root, "one", "1.19.2", ModLoader{})
	require.NoError(t, err)
	_, err = New(root, "two", "1.12.2", ModLoader{})
	require.NoError(t, err)

	all, err := List(root)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
