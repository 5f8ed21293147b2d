package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize taskdesk storage",
		Long:  "Create the configuration and data directories, then initialize the datastore.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	a.close()

	out := cmd.OutOrStdout()
	if flags.jsonMode {
		return writeJSON(out, map[string]string{
			"config_dir": a.settings.configDir,
			"data_dir":   a.settings.store.DataDir,
		})
	}
	fmt.Fprintln(out, "taskdesk initialized successfully")
	fmt.Fprintln(out, "  config:", a.settings.configDir)
	fmt.Fprintln(out, "  data:  ", a.settings.store.DataDir)
	return nil
}
