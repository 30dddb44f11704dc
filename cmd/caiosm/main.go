package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	flags      = defaultConfig()
	cfg        Config
	logger     = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "caiosm",
	Short: "Convert OSM hiking routes into Infomont trail cadastre datasets",
	Long: `Read hiking route relations and their ways from OSM file (.osm, .pbf or Overpass .json),
build route geometries and lengths, classify tags, split ways at intersections and export
routes, segments and route-segment membership.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file. Flags override its values")
	rootCmd.PersistentFlags().StringVarP(&flags.Input, "input", "i", "", "OSM file: .osm / .xml / .pbf / .json (Overpass)")
	rootCmd.PersistentFlags().StringVar(&flags.Mode, "mode", flags.Mode, "Classifier mode. Expected values: infomont / passthrough")
	rootCmd.PersistentFlags().StringVar(&flags.Prefix, "prefix", flags.Prefix, "Prefix of segment IDs")
	rootCmd.PersistentFlags().StringVar(&flags.Unit, "unit", flags.Unit, "Units of lengths. Expected values: m / km")
	rootCmd.PersistentFlags().IntVar(&flags.LengthEPSG, "length-epsg", flags.LengthEPSG, "EPSG code of projection used to measure lengths")
	rootCmd.PersistentFlags().BoolVar(&flags.AllRelations, "all-relations", flags.AllRelations, "Read every relation, not only hiking/foot routes")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", flags.Verbose, "Development logging")
}

func prepare(cmd *cobra.Command, args []string) error {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "Can't load .env")
	}
	cfg, err = loadConfig(configFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg, &flags)
	err = validateConfig(cfg)
	if err != nil {
		return errors.Wrap(err, "Bad configuration")
	}
	if cfg.Verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return errors.Wrap(err, "Can't create logger")
	}
	logger = logger.With(zap.String("run_id", uuid.NewString()), zap.String("command", cmd.Name()))
	return nil
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
