package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"photo-timeline/internal/startup"
	"photo-timeline/internal/workers"
)

// newRootCmd builds the command tree. Flags fall back to the same
// environment variables the server reads.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("RECURSIVE", false)
	v.SetDefault(workers.EnvOverride, 0)

	var cfgFile string

	root := &cobra.Command{
		Use:   "photoscan",
		Short: "Inspect the geotemporal metadata of a photo directory",
		Long: `photoscan decodes the EXIF metadata of every photo in a directory and
prints what the timeline server would serve:
  - the photos placed on the map
  - the photos in chronological order
  - a histogram of capture times`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgFile == "" {
				return nil
			}
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config file %s: %w", cfgFile, err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (toml, yaml or json)")

	root.AddCommand(newScanCmd(v))
	root.AddCommand(newHistogramCmd(v))
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := startup.GetBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "photoscan %s (commit %s, built %s, %s %s/%s)\n",
				info.Version, info.Commit, info.BuildTime, info.GoVersion, info.OS, info.Arch)
		},
	}
}
