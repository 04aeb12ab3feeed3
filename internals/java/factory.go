package java

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Factory manages local java runtimes below one base directory,
// one per feature release (8, 16, 17, 21, …)
type Factory struct {
	baseDir string
	api     *adoptClient
}

// NewFactory returns a factory storing runtimes in baseDir
func NewFactory(baseDir string) *Factory {
	return &Factory{
		baseDir: baseDir,
		api:     newAdoptClient(),
	}
}

func (f *Factory) runtimeDir(featureRelease int) string {
	return filepath.Join(f.baseDir, fmt.Sprintf("%d-jre", featureRelease))
}

// IsVersionInstalled reports whether a runtime for the given major
// version is present and usable
func (f *Factory) IsVersionInstalled(featureRelease int) bool {
	dir := f.runtimeDir(featureRelease)
	if _, err := readAssetFile(filepath.Join(dir, "asset.json")); err != nil {
		return false
	}
	java := Java{dir: dir}
	_, err := os.Stat(java.Bin())
	return err == nil
}

// Version returns the runtime for a feature release, marking it for
// download when no cached one exists
func (f *Factory) Version(ctx context.Context, featureRelease int) (*Java, error) {
	dir := f.runtimeDir(featureRelease)

	if asset, err := readAssetFile(filepath.Join(dir, "asset.json")); err == nil {
		return &Java{dir: dir, asset: asset, needsDownloading: false}, nil
	}

	// no cached runtime, ask the adoptium api
	assets, err := f.api.feature(ctx, featureRelease)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 || len(assets[0].Binaries) == 0 {
		return nil, fmt.Errorf("no java %d build available for this platform", featureRelease)
	}

	return &Java{dir: dir, asset: &assets[0], needsDownloading: true}, nil
}

// JavaPath ensures a runtime for the major version is installed and
// returns the path of its java binary
func (f *Factory) JavaPath(ctx context.Context, featureRelease int) (string, error) {
	if err := os.MkdirAll(f.baseDir, os.ModePerm); err != nil {
		return "", err
	}

	java, err := f.Version(ctx, featureRelease)
	if err != nil {
		return "", err
	}
	if java.NeedsDownloading() {
		if err := java.Update(ctx); err != nil {
			return "", fmt.Errorf("installing java %d: %w", featureRelease, err)
		}
	}
	return java.Bin(), nil
}

func readAssetFile(file string) (*adoptAsset, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	asset := &adoptAsset{}
	if err := json.NewDecoder(f).Decode(asset); err != nil {
		return nil, err
	}
	return asset, nil
}
