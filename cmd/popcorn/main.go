// Command popcorn serves a 24/7 movie channel guide built from a media library.
package main

import (
	"os"

	"github.com/netpersona/popcorn/internal/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
