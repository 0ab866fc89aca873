package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ehr",
		Short:        "Simple EHR portal for doctors and patients",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(createDoctorCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
