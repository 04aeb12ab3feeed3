package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lodestonemc/lodestone/internals/downloadmgr"
	"github.com/lodestonemc/lodestone/internals/instances"
	"github.com/lodestonemc/lodestone/internals/minecraft"
)

// ensureAssets validates the asset index and batch-downloads every
// missing content addressed object
func (b *Bootstrapper) ensureAssets(ctx context.Context, instance *instances.Instance, desc *minecraft.VersionDescriptor) error {
	index, err := b.ensureAssetIndex(ctx, instance, desc)
	if err != nil {
		return err
	}

	objectsDir := filepath.Join(instance.AssetsDir(), "objects")

	mgr := downloadmgr.New()
	mgr.Client = b.httpClient()
	mgr.OnProgress = func(done int, total int, message string) {
		b.taskUpdate(instance, -1, fmt.Sprintf("assets %d/%d", done, total))
	}

	for name, asset := range index.Objects {
		if len(asset.Hash) < 2 {
			return fail(StageValidatingAssets, KindData, "",
				fmt.Errorf("asset %q has an invalid hash %q", name, asset.Hash))
		}

		target := filepath.Join(objectsDir, asset.Hash[:2], asset.Hash)
		if _, err := os.Stat(target); err == nil {
			continue
		}
		mgr.Add(downloadmgr.NewItem(asset.DownloadURL(), target, asset.Hash))
	}

	if mgr.Len() == 0 {
		return nil
	}

	results, err := mgr.Start(ctx)
	if err != nil {
		return fail(StageValidatingAssets, downloadKind(results),
			"re-run the bootstrap to retry failed downloads", err)
	}
	return nil
}

// ensureAssetIndex fetches the asset index document when missing and
// parses it
func (b *Bootstrapper) ensureAssetIndex(ctx context.Context, instance *instances.Instance, desc *minecraft.VersionDescriptor) (*minecraft.AssetIndex, error) {
	indexName := desc.Assets
	if indexName == "" {
		gen := minecraft.DetectGeneration(desc.MinecraftVersion(), desc)
		indexName = minecraft.DefaultAssetIndexName(gen, desc.MinecraftVersion())
	}

	file := filepath.Join(instance.AssetsDir(), "indexes", indexName+".json")

	if _, err := os.Stat(file); err != nil {
		if desc.AssetIndex.URL == "" {
			// pre-asset-index versions have nothing to validate
			return &minecraft.AssetIndex{}, nil
		}

		mgr := downloadmgr.New()
		mgr.Client = b.httpClient()
		mgr.Add(downloadmgr.NewItem(desc.AssetIndex.URL, file, desc.AssetIndex.Sha1))
		if results, err := mgr.Start(ctx); err != nil {
			return nil, fail(StageValidatingAssets, downloadKind(results), "", err)
		}
	}

	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, fail(StageValidatingAssets, KindFilesystem, "", err)
	}

	index := &minecraft.AssetIndex{}
	if err := json.Unmarshal(buf, index); err != nil {
		return nil, fail(StageValidatingAssets, KindData,
			"delete "+file+" to re-download the asset index", err)
	}
	return index, nil
}
