package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var routesOut string

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Write raw route attributes into CSV file",
	RunE:  runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)

	routesCmd.Flags().StringVarP(&routesOut, "out", "o", "routes.csv", "Output CSV file")
	routesCmd.Flags().StringVar(&flags.Separator, "separator", flags.Separator, "Delimiter of CSV file")
	routesCmd.Flags().StringVar(&flags.Encoding, "encoding", flags.Encoding, "Character encoding of CSV file")
}

func runRoutes(cmd *cobra.Command, args []string) error {
	opts, err := cfg.exportOptions()
	if err != nil {
		return err
	}
	session, err := loadSession()
	if err != nil {
		return err
	}
	err = session.WriteRoutesCSV(routesOut, opts)
	if err != nil {
		return err
	}
	logger.Info("Routes written", zap.String("out", routesOut), zap.Int("routes", len(session.Routes())))
	return nil
}
