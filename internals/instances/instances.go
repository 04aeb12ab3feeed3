package instances

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/stoewer/go-strcase"
)

var (
	// ErrNoInstance is returned when an instance directory has no instance.toml
	ErrNoInstance = errors.New("no instance.toml found, not an instance directory")
	// ErrInstanceExists is returned when creating over an existing instance
	ErrInstanceExists = errors.New("an instance with that id already exists")
)

// instanceFile is the name of the per-instance config document
const instanceFile = "instance.toml"

// ModLoader describes the optional mod loader of an instance
type ModLoader struct {
	// Name is fabric, forge or quilt
	Name    string `toml:"name,omitempty"`
	Version string `toml:"version,omitempty"`
}

// Instance describes one locally installed minecraft installation
type Instance struct {
	// ID is the kebab-cased unique name of the instance
	ID string `toml:"id"`
	// Name is the display name as entered by the user
	Name string `toml:"name"`
	// Minecraft is the target game version (for example "1.19.2")
	Minecraft string `toml:"minecraft"`
	// ModLoader is empty for vanilla instances
	ModLoader ModLoader `toml:"modloader,omitempty"`
	// Account references the credentials entry used for launching
	Account string `toml:"account,omitempty"`
	// JavaPath is set by the bootstrap once a runtime was ensured
	JavaPath string `toml:"java_path,omitempty"`

	// Directory is where the instance lives. not persisted, derived
	// from the file location on load
	Directory string `toml:"-"`
}

// McDir is the game directory containing saves, worlds & mods
func (i *Instance) McDir() string {
	return filepath.Join(i.Directory, "minecraft")
}

// VersionsDir contains <id>/<id>.json + <id>/<id>.jar pairs
func (i *Instance) VersionsDir() string {
	return filepath.Join(i.McDir(), "versions")
}

// LibrariesDir contains the maven-layout library tree
func (i *Instance) LibrariesDir() string {
	return filepath.Join(i.McDir(), "libraries")
}

// AssetsDir contains indexes/ and the content addressed objects/ tree
func (i *Instance) AssetsDir() string {
	return filepath.Join(i.McDir(), "assets")
}

// NativesDir is where platform natives of a version get extracted to
func (i *Instance) NativesDir(versionID string) string {
	return filepath.Join(i.McDir(), "natives", versionID)
}

// VersionFile returns the path of a version descriptor inside this instance
func (i *Instance) VersionFile(versionID string) string {
	return filepath.Join(i.VersionsDir(), versionID, versionID+".json")
}

// VersionJar returns the path of a client jar inside this instance
func (i *Instance) VersionJar(versionID string) string {
	return filepath.Join(i.VersionsDir(), versionID, versionID+".jar")
}

// VersionID is the id of the effective (possibly modded) version
func (i *Instance) VersionID() string {
	if i.ModLoader.Name != "" {
		return fmt.Sprintf("%s-%s-%s", i.Minecraft, i.ModLoader.Name, i.ModLoader.Version)
	}
	return i.Minecraft
}

// Vanilla reports whether this instance launches without a mod loader
func (i *Instance) Vanilla() bool {
	return i.ModLoader.Name == ""
}

// Desc returns a one-liner summary of this instance
func (i *Instance) Desc() string {
	if i.Vanilla() {
		return fmt.Sprintf("%s (minecraft %s)", i.ID, i.Minecraft)
	}
	return fmt.Sprintf("%s (minecraft %s, %s %s)", i.ID, i.Minecraft, i.ModLoader.Name, i.ModLoader.Version)
}

// New creates a new instance on disk below root
func New(root string, name string, minecraft string, loader ModLoader) (*Instance, error) {
	id := strcase.KebabCase(name)
	if id == "" {
		return nil, errors.New("instance name must contain at least one letter or digit")
	}

	dir := filepath.Join(root, id)
	if _, err := os.Stat(filepath.Join(dir, instanceFile)); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrInstanceExists, id)
	}

	instance := &Instance{
		ID:        id,
		Name:      name,
		Minecraft: minecraft,
		ModLoader: loader,
		Directory: dir,
	}

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	if err := instance.Save(); err != nil {
		return nil, err
	}
	return instance, nil
}

// Open loads the instance stored in dir
func Open(dir string) (*Instance, error) {
	buf, err := os.ReadFile(filepath.Join(dir, instanceFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w (%s)", ErrNoInstance, dir)
		}
		return nil, err
	}

	instance := &Instance{}
	if err := toml.Unmarshal(buf, instance); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", instanceFile, err)
	}
	instance.Directory = dir

	if instance.ID == "" {
		instance.ID = filepath.Base(dir)
	}
	return instance, nil
}

// List returns every instance below root. Directories without an
// instance.toml are skipped silently
func List(root string) ([]*Instance, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	instances := make([]*Instance, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		instance, err := Open(filepath.Join(root, entry.Name()))
		if err != nil {
			continue
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

// Save persists the instance config to its directory
func (i *Instance) Save() error {
	buf, err := toml.Marshal(i)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(i.Directory, instanceFile), buf, 0666)
}

// Rename changes the display name (the id and directory stay stable)
func (i *Instance) Rename(name string) error {
	i.Name = name
	return i.Save()
}

// Delete removes the instance and everything it downloaded
func (i *Instance) Delete() error {
	if i.Directory == "" || i.Directory == string(filepath.Separator) {
		return errors.New("refusing to delete suspicious instance directory")
	}
	return os.RemoveAll(i.Directory)
}
