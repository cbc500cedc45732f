// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-wrss.
//
// go-wrss is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-wrss/internal/config"
)

func newConfigCommand(cfg *Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
	}

	initCmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write the default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().Save(args[0]); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).
				PrintSuccess(fmt.Sprintf("Wrote default configuration to %s", args[0]))
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := cfg.Settings()
			if err != nil {
				return err
			}
			if settings.Random.PKCS11PIN != "" {
				settings.Random.PKCS11PIN = "REDACTED"
			}
			printer := NewPrinter(cfg.OutputFormat, cmd.OutOrStdout())
			if printer.format == OutputFormatText || printer.format == "" {
				printer.format = OutputFormatYAML
			}
			return printer.print(settings, func() {})
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}
