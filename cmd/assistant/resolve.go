package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/host"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/server"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <name>",
	Short: "Show how a spoken application name resolves, without launching it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := server.NewLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		catalogs, err := server.LoadCatalog(cfg)
		if err != nil {
			return err
		}
		resolver := server.NewResolver(cfg, host.NewLocal(logger), catalogs, logger, nil)

		name := strings.Join(args, " ")
		ctx := cmd.Context()
		candidates, err := resolver.Candidates(ctx, name)
		if err != nil {
			return err
		}
		out := map[string]any{
			"name":       name,
			"normalized": resolver.Query(name).Normalized,
			"candidates": candidates,
		}
		if app, err := resolver.Resolve(ctx, name); err != nil {
			out["error"] = err.Error()
		} else {
			out["resolved"] = app
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
