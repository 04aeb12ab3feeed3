package java

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-resty/resty/v2"
)

// adoptAPI is the Eclipse Adoptium (formerly AdoptOpenJDK) release API
const adoptAPI = "https://api.adoptium.net/v3"

type adoptAsset struct {
	Binaries []struct {
		Architecture string `json:"architecture"`
		HeapSize     string `json:"heap_size"`
		ImageType    string `json:"image_type"`
		JvmImpl      string `json:"jvm_impl"`
		Os           string `json:"os"`
		Package      struct {
			Checksum string `json:"checksum"`
			Link     string `json:"link"`
			Name     string `json:"name"`
			Size     int    `json:"size"`
		} `json:"package"`
		UpdatedAt time.Time `json:"updated_at"`
	} `json:"binaries"`
	ID          string    `json:"id"`
	ReleaseName string    `json:"release_name"`
	ReleaseType string    `json:"release_type"`
	Timestamp   time.Time `json:"timestamp"`
	Vendor      string    `json:"vendor"`
	VersionData struct {
		Build    int    `json:"build"`
		Major    int    `json:"major"`
		Minor    int    `json:"minor"`
		Security int    `json:"security"`
		Semver   string `json:"semver"`
	} `json:"version_data"`
}

type adoptClient struct {
	rest *resty.Client
}

func newAdoptClient() *adoptClient {
	rest := resty.New().
		SetBaseURL(adoptAPI).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")
	return &adoptClient{rest: rest}
}

// feature fetches the newest ga release assets for a feature version,
// matching the current platform
func (c *adoptClient) feature(ctx context.Context, featureRelease int) ([]adoptAsset, error) {
	assets := make([]adoptAsset, 0, 1)

	res, err := c.rest.R().
		SetContext(ctx).
		SetPathParam("feature", fmt.Sprintf("%d", featureRelease)).
		SetQueryParams(map[string]string{
			"architecture": adoptArch(runtime.GOARCH),
			"image_type":   "jre",
			"jvm_impl":     "hotspot",
			"os":           adoptOS(),
			"vendor":       "eclipse",
		}).
		SetResult(&assets).
		Get("/assets/feature_releases/{feature}/ga")
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("adoptium api: %s", res.Status())
	}

	return assets, nil
}

func adoptOS() string {
	osName := runtime.GOOS
	if osName == "darwin" {
		osName = "mac"
	}
	// alpine needs a different (musl) jdk
	if osName == "linux" {
		if _, err := os.Stat("/etc/alpine-release"); err == nil {
			osName = "alpine-linux"
		}
	}
	return osName
}

func adoptArch(arch string) string {
	theMap := map[string]string{
		"amd64": "x64",
		"arm64": "aarch64",
		"386":   "x86",
		// other "common" ones have the same name (for example arm)
	}

	if mapped, ok := theMap[arch]; ok {
		return mapped
	}
	return arch
}
