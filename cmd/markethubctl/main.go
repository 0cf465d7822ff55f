package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"markethub_backend/internal/config"
	"markethub_backend/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "markethubctl",
	Short: "Administrative CLI for the marketplace data layer",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadConfig()
		logger.Init(config.GetConfig().Server.Env)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
