package minecraft

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// VersionDescriptor is a version.json document that describes how to
// launch one minecraft version. Mod loaders ship partial descriptors
// that inherit from a vanilla one (see InheritsFrom & Merge).
type VersionDescriptor struct {
	ID string `json:"id"`
	// InheritsFrom points to the base version this descriptor overlays
	InheritsFrom string `json:"inheritsFrom,omitempty"`
	// MinecraftArguments is the single-string argument format used before 1.13
	MinecraftArguments string `json:"minecraftArguments,omitempty"`
	// Arguments is the structured argument format used since 1.13
	Arguments *Arguments `json:"arguments,omitempty"`
	Downloads struct {
		Client Artifact `json:"client"`
		Server Artifact `json:"server"`
	} `json:"downloads,omitempty"`
	Libraries   Libraries     `json:"libraries"`
	Type        string        `json:"type,omitempty"`
	MainClass   string        `json:"mainClass,omitempty"`
	Jar         string        `json:"jar,omitempty"`
	Assets      string        `json:"assets,omitempty"`
	AssetIndex  AssetIndexRef `json:"assetIndex,omitempty"`
	JavaVersion struct {
		Component    string `json:"component,omitempty"`
		MajorVersion int    `json:"majorVersion,omitempty"`
	} `json:"javaVersion,omitempty"`

	// Extra holds top level fields we don't know about, so saving a
	// descriptor does not silently drop them
	Extra map[string]json.RawMessage `json:"-"`
}

// AssetIndexRef points to the asset index document of a version
type AssetIndexRef struct {
	ID        string `json:"id,omitempty"`
	Sha1      string `json:"sha1,omitempty"`
	Size      int    `json:"size,omitempty"`
	TotalSize int    `json:"totalSize,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Arguments is the post 1.13 argument structure
type Arguments struct {
	Game []Argument `json:"game"`
	JVM  []Argument `json:"jvm"`
}

// knownDescriptorFields are the json fields handled by the typed struct.
// everything else ends up in Extra
var knownDescriptorFields = []string{
	"id", "inheritsFrom", "minecraftArguments", "arguments", "downloads",
	"libraries", "type", "mainClass", "jar", "assets", "assetIndex",
	"javaVersion",
}

type versionDescriptorAlias VersionDescriptor

// UnmarshalJSON decodes the typed fields and keeps everything we do not
// understand in the Extra side map
func (v *VersionDescriptor) UnmarshalJSON(data []byte) error {
	var alias versionDescriptorAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var tree map[string]json.RawMessage
	if err := json.Unmarshal(data, &tree); err != nil {
		return err
	}
	for _, field := range knownDescriptorFields {
		delete(tree, field)
	}
	if len(tree) != 0 {
		alias.Extra = tree
	}

	*v = VersionDescriptor(alias)
	return nil
}

// MarshalJSON re-emits the Extra fields next to the typed ones
func (v VersionDescriptor) MarshalJSON() ([]byte, error) {
	typed, err := json.Marshal(versionDescriptorAlias(v))
	if err != nil {
		return nil, err
	}
	if len(v.Extra) == 0 {
		return typed, nil
	}

	tree := make(map[string]json.RawMessage, len(v.Extra)+len(knownDescriptorFields))
	for k, raw := range v.Extra {
		tree[k] = raw
	}
	var typedTree map[string]json.RawMessage
	if err := json.Unmarshal(typed, &typedTree); err != nil {
		return nil, err
	}
	// typed fields win over stale Extra entries
	for k, raw := range typedTree {
		tree[k] = raw
	}
	return json.Marshal(tree)
}

// ReadDescriptor parses a version.json file and applies the generation
// compatibility fixes. It does not resolve inheritance, use
// ResolveDescriptor for that.
func ReadDescriptor(file string) (*VersionDescriptor, error) {
	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	desc := &VersionDescriptor{}
	if err := json.Unmarshal(buf, desc); err != nil {
		return nil, fmt.Errorf("malformed version descriptor %s: %w", file, err)
	}
	desc.ApplyCompatFixes()
	return desc, nil
}

// ResolveDescriptor loads the descriptor for the given version id from
// versionsDir (layout: <versionsDir>/<id>/<id>.json), resolves the
// inheritsFrom chain and returns the merged result
func ResolveDescriptor(versionsDir string, id string) (*VersionDescriptor, error) {
	seen := map[string]bool{}

	desc, err := ReadDescriptor(filepath.Join(versionsDir, id, id+".json"))
	if err != nil {
		return nil, err
	}
	seen[id] = true

	// walk up the inheritance chain, merging the nearest parent first.
	// Merge clears inheritsFrom on the result, so the chain is tracked
	// on the parents themselves
	for link := desc; link.InheritsFrom != ""; {
		parentID := link.InheritsFrom
		if seen[parentID] {
			return nil, fmt.Errorf("version %s: inheritance cycle via %s", id, parentID)
		}
		seen[parentID] = true

		parent, err := ReadDescriptor(filepath.Join(versionsDir, parentID, parentID+".json"))
		if err != nil {
			return nil, fmt.Errorf("resolving parent of %s: %w", id, err)
		}
		desc = Merge(parent, desc, DefaultMergeOptions())
		link = parent
	}

	return desc, nil
}

// SaveDescriptor persists a (usually merged) descriptor to disk for reuse
func SaveDescriptor(desc *VersionDescriptor, file string) error {
	if err := os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return err
	}
	buf, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, buf, 0666)
}

// ApplyCompatFixes fills descriptor fields that old (or sloppy modded)
// version documents leave out
func (v *VersionDescriptor) ApplyCompatFixes() {
	gen := DetectGeneration(v.ID, v)

	if v.MainClass == "" {
		v.MainClass = MainClassFor(v, gen)
	}
	if v.Assets == "" && v.AssetIndex.ID == "" {
		v.Assets = DefaultAssetIndexName(gen, v.ID)
	}
	if v.Assets == "" {
		v.Assets = v.AssetIndex.ID
	}
}

// JarName returns the name of the client jar file for this descriptor
func (v *VersionDescriptor) JarName() string {
	if v.Jar != "" {
		return v.Jar + ".jar"
	}
	return v.ID + ".jar"
}

// MinecraftVersion returns the vanilla version this descriptor is based on
func (v *VersionDescriptor) MinecraftVersion() string {
	if v.InheritsFrom != "" {
		return v.InheritsFrom
	}
	return v.ID
}
