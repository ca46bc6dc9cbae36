// spotify-proxy is a caching forward proxy for the Spotify Web API. It
// terminates client requests locally, applies shared rate limit gating,
// serves cached responses where the service's Cache-Control headers
// allow, and exposes Prometheus metrics.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "spotify-proxy",
	Short: "Caching proxy for the Spotify Web API",
	Long: `spotify-proxy forwards requests to the Spotify Web API through a
shared client: responses are cached per the service's Cache-Control
headers, Retry-After windows from 429 responses are honored across all
proxy instances via Redis, and request metrics are exported in
Prometheus format.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
