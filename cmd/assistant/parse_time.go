package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/reminder"
)

var parseTimeCmd = &cobra.Command{
	Use:   "parse-time <expression>",
	Short: "Parse a relative time expression such as 5分钟后 or 1h30m",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr := strings.Join(args, " ")
		seconds, desc, err := reminder.ParseTimeExpression(expr)
		if err != nil {
			return err
		}
		due := time.Now().Add(time.Duration(seconds) * time.Second)
		fmt.Fprintf(cmd.OutOrStdout(), "%d seconds (%s), due %s\n", seconds, desc, due.Format(reminder.TimeLayout))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseTimeCmd)
}
