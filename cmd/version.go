package cmd

import (
	"encoding/json"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/gapview/internal/render"
)

// Version is overwritten for release builds:
//
//	go build -ldflags "-X github.com/derickschaefer/gapview/cmd.Version=v0.2.0"
var Version = "v0.1.0"

// BuildTime is optionally injected alongside Version:
//
//	-ldflags "-X github.com/derickschaefer/gapview/cmd.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var BuildTime = ""

type versionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	BuildTime string `json:"build_time,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gapview version and build information",
	Long: `Print the gapview version string and build metadata.

Examples:
  gapview version
  gapview version --format json | jq .version`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{
			Version:   Version,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			BuildTime: BuildTime,
		}

		switch globalFlags.Format {
		case render.FormatJSON:
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		case render.FormatJSONL:
			return json.NewEncoder(cmd.OutOrStdout()).Encode(info)
		}

		rows := [][]string{
			{"gapview", info.Version},
			{"go", info.GoVersion},
			{"os", info.Platform},
		}
		if info.BuildTime != "" {
			rows = append(rows, []string{"built", info.BuildTime})
		}
		printKVTable(cmd.OutOrStdout(), rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
