package main

import (
	"net/http"

	"github.com/lodestonemc/lodestone/cmd"
	"github.com/lodestonemc/lodestone/internals/ownhttp"
)

// set by goreleaser
var version = "dev"

func main() {
	// replace default http client, everything gets our User-Agent
	http.DefaultClient = ownhttp.New(version)

	cmd.Version = version
	cmd.Execute()
}
