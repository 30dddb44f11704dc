package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lengthCmd = &cobra.Command{
	Use:   "length",
	Short: "Print length of every route and total length of the network",
	RunE:  runLength,
}

func init() {
	rootCmd.AddCommand(lengthCmd)
}

func runLength(cmd *cobra.Command, args []string) error {
	session, err := loadSession()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, route := range session.Routes() {
		fmt.Fprintf(out, "%d\t%s\t%v %s\n", route.Route.ID, route.Route.Tags.Find("name"), route.Length, cfg.Unit)
	}
	fmt.Fprintf(out, "total\t\t%v %s\n", session.TotalLength(), cfg.Unit)
	return nil
}
