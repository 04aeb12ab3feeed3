package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/lodestonemc/lodestone/internals/downloadmgr"
	"github.com/lodestonemc/lodestone/internals/instances"
	"github.com/lodestonemc/lodestone/internals/minecraft"
)

// loader profile endpoints. both metas speak the same format
const (
	fabricProfileURL = "https://meta.fabricmc.net/v2/versions/loader/%s/%s/profile/json"
	quiltProfileURL  = "https://meta.quiltmc.org/v3/versions/loader/%s/%s/profile/json"
)

// ensureDescriptors makes sure the version json chain for the instance
// exists on disk and returns the resolved (merged) descriptor.
//
// The vanilla json is fetched through the manifest, fabric & quilt
// overlays from their meta APIs. A forge overlay is produced later by
// the installer stage, until then the vanilla descriptor is returned
func (b *Bootstrapper) ensureDescriptors(ctx context.Context, instance *instances.Instance) (*minecraft.VersionDescriptor, error) {
	if err := b.ensureVanillaJSON(ctx, instance); err != nil {
		return nil, err
	}

	switch instance.ModLoader.Name {
	case minecraft.LoaderFabric:
		if err := b.ensureLoaderProfile(ctx, instance, fabricProfileURL); err != nil {
			return nil, err
		}
	case minecraft.LoaderQuilt:
		if err := b.ensureLoaderProfile(ctx, instance, quiltProfileURL); err != nil {
			return nil, err
		}
	}

	resolveID := instance.VersionID()
	if _, err := os.Stat(instance.VersionFile(resolveID)); err != nil {
		// overlay not there yet (forge before its installer ran)
		resolveID = instance.Minecraft
	}

	desc, err := minecraft.ResolveDescriptor(instance.VersionsDir(), resolveID)
	if err != nil {
		return nil, fail(StageDownloadingVersionJSON, KindData,
			"delete the versions directory to re-download", err)
	}
	return desc, nil
}

func (b *Bootstrapper) ensureVanillaJSON(ctx context.Context, instance *instances.Instance) error {
	file := instance.VersionFile(instance.Minecraft)
	if _, err := os.Stat(file); err == nil {
		return nil
	}

	manifest, err := b.manifests.get(ctx)
	if err != nil {
		return fail(StageDownloadingManifest, KindNetwork,
			"check your internet connection", err)
	}

	entry, err := manifest.Find(instance.Minecraft)
	if err != nil {
		return fail(StageDownloadingVersionJSON, KindData,
			"check the minecraft version in instance.toml", err)
	}

	desc, err := b.Versions.Descriptor(ctx, entry)
	if err != nil {
		return fail(StageDownloadingVersionJSON, KindNetwork, "", err)
	}

	if err := minecraft.SaveDescriptor(desc, file); err != nil {
		return fail(StageDownloadingVersionJSON, KindFilesystem, "", err)
	}
	return nil
}

// ensureLoaderProfile fetches the loader overlay descriptor when absent
func (b *Bootstrapper) ensureLoaderProfile(ctx context.Context, instance *instances.Instance, urlFormat string) error {
	versionID := instance.VersionID()
	file := instance.VersionFile(versionID)
	if _, err := os.Stat(file); err == nil {
		return nil
	}

	profileURL := fmt.Sprintf(urlFormat,
		url.PathEscape(instance.Minecraft),
		url.PathEscape(instance.ModLoader.Version),
	)

	desc := &minecraft.VersionDescriptor{}
	res, err := resty.NewWithClient(b.httpClient()).R().
		SetContext(ctx).
		SetResult(desc).
		Get(profileURL)
	if err != nil {
		return fail(StageDownloadingVersionJSON, KindNetwork,
			"check your internet connection", err)
	}
	if res.IsError() {
		return fail(StageDownloadingVersionJSON, KindData,
			fmt.Sprintf("no %s loader %s for minecraft %s", instance.ModLoader.Name, instance.ModLoader.Version, instance.Minecraft),
			fmt.Errorf("loader profile request failed: %s", res.Status()))
	}

	// the id in the profile may differ from ours, pin it so the
	// on-disk chain stays consistent
	desc.ID = versionID
	desc.InheritsFrom = instance.Minecraft

	if err := minecraft.SaveDescriptor(desc, file); err != nil {
		return fail(StageDownloadingVersionJSON, KindFilesystem, "", err)
	}
	return nil
}

// ensureClientJar downloads the vanilla client jar when missing or
// hash-invalid. already valid files cause zero network requests
func (b *Bootstrapper) ensureClientJar(ctx context.Context, instance *instances.Instance, desc *minecraft.VersionDescriptor) error {
	client := desc.Downloads.Client
	if client.URL == "" {
		// merged overlays inherit the vanilla download, a bare overlay
		// descriptor without one means the chain is broken
		return fail(StageDownloadingClientJar, KindData,
			"the version descriptor has no client download", fmt.Errorf("no client download url for %s", desc.ID))
	}

	target := instance.VersionJar(instance.Minecraft)

	mgr := downloadmgr.New()
	mgr.Client = b.httpClient()
	mgr.Add(downloadmgr.NewItem(client.URL, target, client.Sha1))

	results, err := mgr.Start(ctx)
	if err != nil {
		return fail(StageDownloadingClientJar, downloadKind(results), "", err)
	}
	return nil
}

// downloadKind classifies a batch failure: hash mismatches are
// verification errors, everything else is network trouble
func downloadKind(results []downloadmgr.Result) ErrorKind {
	for _, r := range results {
		var hashErr *downloadmgr.ErrInvalidHash
		if r.Err != nil && errors.As(r.Err, &hashErr) {
			return KindVerification
		}
	}
	return KindNetwork
}

func (b *Bootstrapper) httpClient() *http.Client {
	if b.HTTPClient != nil {
		return b.HTTPClient
	}
	return downloadmgr.DefaultClient()
}
