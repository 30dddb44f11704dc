package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	pathFrom string
	pathTo   string
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Find shortest path over trail segments between two points",
	RunE:  runPath,
}

func init() {
	rootCmd.AddCommand(pathCmd)

	pathCmd.Flags().StringVar(&pathFrom, "from", "", "Start point 'lon,lat'")
	pathCmd.Flags().StringVar(&pathTo, "to", "", "End point 'lon,lat'")
	pathCmd.MarkFlagRequired("from")
	pathCmd.MarkFlagRequired("to")
}

func runPath(cmd *cobra.Command, args []string) error {
	from, err := parsePoint(pathFrom)
	if err != nil {
		return err
	}
	to, err := parsePoint(pathTo)
	if err != nil {
		return err
	}
	session, err := loadSession()
	if err != nil {
		return err
	}
	network, err := session.Network()
	if err != nil {
		return err
	}
	logger.Info("Network prepared", zap.Int("vertices", network.VerticesNum()), zap.Int("edges", network.EdgesNum()))
	meters, segmentIDs, err := network.ShortestPath(from, to)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%.0f m\t%s\n", meters, strings.Join(segmentIDs, ","))
	return nil
}
