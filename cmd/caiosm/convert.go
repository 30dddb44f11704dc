package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Write routes, segments and membership into directory",
	Long: `Write 'sent_perc.csv' (routes), 'trt_sent' (segments) and 'trt_perc.csv' (membership).
With --geo routes and membership are written as geometry layers in the selected format too.`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&flags.Out, "out", "o", flags.Out, "Output directory")
	convertCmd.Flags().StringVar(&flags.Format, "format", flags.Format, "Format of geometry layers. Expected values: csv / geojson / shapefile")
	convertCmd.Flags().IntVar(&flags.EPSG, "epsg", flags.EPSG, "EPSG code of output geometries")
	convertCmd.Flags().StringVar(&flags.Encoding, "encoding", flags.Encoding, "Character encoding of attributes (e.g. UTF-8, ISO-8859-1)")
	convertCmd.Flags().StringVar(&flags.Separator, "separator", flags.Separator, "Delimiter of CSV files")
	convertCmd.Flags().BoolVar(&flags.Geo, "geo", flags.Geo, "Write every table as geometry layer")
	convertCmd.Flags().BoolVar(&flags.Indent, "indent", flags.Indent, "Indent GeoJSON documents")
}

func runConvert(cmd *cobra.Command, args []string) error {
	st := time.Now()
	opts, err := cfg.exportOptions()
	if err != nil {
		return err
	}
	session, err := loadSession()
	if err != nil {
		return err
	}
	if cfg.Geo {
		err = session.WriteAllGeo(cfg.Out, opts)
	} else {
		err = session.WriteAll(cfg.Out, opts)
	}
	if err != nil {
		return err
	}
	logger.Info("Conversion complete",
		zap.String("out", cfg.Out),
		zap.Int("routes", len(session.Routes())),
		zap.Int("segments", len(session.Segments())),
		zap.Int("membership", len(session.Membership())),
		zap.Duration("done_in", time.Since(st)),
	)
	return nil
}
