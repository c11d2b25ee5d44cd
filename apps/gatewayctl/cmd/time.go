package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var timeCmd = &cobra.Command{
	Use:   "time [zone]",
	Short: "Show the current time in a time zone",
	Long: `Show the current time in an IANA time zone. Without an argument the
zone from the config (timezone) is used, UTC by default.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig(cmd)
		if err != nil {
			return err
		}
		sdk, err := newSdk(cmd)
		if err != nil {
			return err
		}

		zone := cfg.Timezone
		if len(args) == 1 {
			zone = args[0]
		}

		info, err := sdk.Time(cmd.Context(), zone)
		if err != nil {
			return friendly(err)
		}

		fmt.Printf("%s  %s %s (UTC%+03d:%02d)\n", info.Timezone, info.Date, info.Time24Hr, info.Offset/60, abs(info.Offset%60))
		return nil
	},
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func init() {
	rootCmd.AddCommand(timeCmd)
}
