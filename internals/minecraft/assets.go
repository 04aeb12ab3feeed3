package minecraft

// ResourcesURL is the content addressed asset storage of mojang
const ResourcesURL = "https://resources.download.minecraft.net/"

// AssetIndex maps logical asset names to content addressed objects
type AssetIndex struct {
	Objects map[string]AssetObject `json:"objects"`
	Virtual bool                   `json:"virtual,omitempty"`
}

// AssetObject is one minecraft asset
type AssetObject struct {
	Hash string `json:"hash"`
	Size int    `json:"size"`
}

// UnixPath returns the sharded storage path, example: fe/fe32f3b8…
func (a *AssetObject) UnixPath() string {
	return a.Hash[:2] + "/" + a.Hash
}

// DownloadURL returns the download url for this asset
func (a *AssetObject) DownloadURL() string {
	return ResourcesURL + a.UnixPath()
}
