package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noelruault/lazylinode/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or persist the configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (token redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Encode(opts.cfg.Redacted())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	var path string
	write := &cobra.Command{
		Use:   "write",
		Short: "Save the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := path
			if target == "" {
				var err error
				if target, err = config.Path(); err != nil {
					return err
				}
			}
			if err := config.Write(opts.cfg, target); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", target)
			return err
		},
	}
	write.Flags().StringVar(&path, "path", "", "file to write (default is the user config file)")

	cmd.AddCommand(show, write)
	return cmd
}
