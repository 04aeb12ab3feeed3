package minecraft

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// VersionManifestURL lists every published minecraft version
const VersionManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest_v2.json"

// VersionManifest is the launcher version listing
type VersionManifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []ManifestVersion `json:"versions"`
}

// ManifestVersion is one entry of the version manifest
type ManifestVersion struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	Time        time.Time `json:"time"`
	ReleaseTime time.Time `json:"releaseTime"`
	Sha1        string    `json:"sha1"`
}

// Find returns the entry with the given version id
func (m *VersionManifest) Find(id string) (*ManifestVersion, error) {
	for i := range m.Versions {
		if m.Versions[i].ID == id {
			return &m.Versions[i], nil
		}
	}
	return nil, fmt.Errorf("version %q is not in the version manifest", id)
}

// VersionsClient fetches version metadata from the launcher meta API
type VersionsClient struct {
	rest *resty.Client
}

// NewVersionsClient returns a client with sane timeouts
func NewVersionsClient() *VersionsClient {
	rest := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")
	return &VersionsClient{rest: rest}
}

// SetBaseClient swaps the underlying resty client (used in tests)
func (c *VersionsClient) SetBaseClient(rest *resty.Client) {
	c.rest = rest
}

// Manifest fetches the full version manifest
func (c *VersionsClient) Manifest(ctx context.Context) (*VersionManifest, error) {
	manifest := &VersionManifest{}
	res, err := c.rest.R().
		SetContext(ctx).
		SetResult(manifest).
		Get(VersionManifestURL)
	if err != nil {
		return nil, fmt.Errorf("fetching version manifest: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("version manifest request failed: %s", res.Status())
	}
	return manifest, nil
}

// Descriptor fetches the version descriptor behind a manifest entry
func (c *VersionsClient) Descriptor(ctx context.Context, entry *ManifestVersion) (*VersionDescriptor, error) {
	desc := &VersionDescriptor{}
	res, err := c.rest.R().
		SetContext(ctx).
		SetResult(desc).
		Get(entry.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching descriptor for %s: %w", entry.ID, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("descriptor request for %s failed: %s", entry.ID, res.Status())
	}
	desc.ApplyCompatFixes()
	return desc, nil
}
