package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var forceRegenerate bool

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Rebuild the weekly schedules if they are stale",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, closeDB, err := openServer()
		if err != nil {
			return err
		}
		defer closeDB()

		result, err := srv.Runner().Regenerate(cmd.Context(), forceRegenerate)
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the configured library export into the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, closeDB, err := openServer()
		if err != nil {
			return err
		}
		defer closeDB()

		result, err := srv.Syncer().Sync(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List today's channels with their numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, closeDB, err := openServer()
		if err != nil {
			return err
		}
		defer closeDB()

		channels, err := srv.LiveTV().Channels(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		for _, ch := range channels {
			fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", ch.Number, ch.Name)
		}
		return nil
	},
}

func init() {
	regenerateCmd.Flags().BoolVarP(&forceRegenerate, "force", "f", false, "regenerate even when schedules are fresh")
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
