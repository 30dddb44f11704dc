package main

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/LdDl/caiosm"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

var databaseCmd = &cobra.Command{
	Use:   "database",
	Short: "Write routes, segments and membership into PostGIS or SQLite tables",
	Long: `Write routes, segments and membership into PostGIS or SQLite tables.
Connection string is taken from --dsn or ` + databaseURLEnv + ` environment variable (.env is supported).`,
	RunE: runDatabase,
}

func init() {
	rootCmd.AddCommand(databaseCmd)

	databaseCmd.Flags().StringVar(&flags.Database.Driver, "driver", flags.Database.Driver, "Database driver. Expected values: postgres / sqlite")
	databaseCmd.Flags().StringVar(&flags.Database.DSN, "dsn", flags.Database.DSN, "Connection string (postgres URL or sqlite file)")
	databaseCmd.Flags().StringVar(&flags.Database.TablePrefix, "table-prefix", flags.Database.TablePrefix, "Prefix of table names")
	databaseCmd.Flags().IntVar(&flags.EPSG, "epsg", flags.EPSG, "EPSG code of stored geometries")
}

// openDatabase opens connection. 'postgis://' URLs are accepted for postgres.
func openDatabase(dialect caiosm.Dialect, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.Errorf("no connection string: set --dsn or %s", databaseURLEnv)
	}
	if dialect == caiosm.DIALECT_POSTGRES {
		if strings.HasPrefix(dsn, "postgis://") {
			dsn = strings.Replace(dsn, "postgis", "postgres", 1)
		}
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			params, err := pq.ParseURL(dsn)
			if err != nil {
				return nil, errors.Wrap(err, "Can't parse connection URL")
			}
			dsn = params
		}
	}
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open database")
	}
	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "Can't connect to database")
	}
	return db, nil
}

func runDatabase(cmd *cobra.Command, args []string) error {
	st := time.Now()
	dialect, err := caiosm.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return err
	}
	proj, err := caiosm.ProjectionByEPSG(cfg.EPSG)
	if err != nil {
		return err
	}
	session, err := loadSession()
	if err != nil {
		return err
	}
	db, err := openDatabase(dialect, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	layers := []*caiosm.Layer{
		session.RoutesLayer().Reproject(proj),
		session.SegmentsLayer().Reproject(proj),
		session.MembershipLayer().Reproject(proj),
	}
	err = caiosm.ExportToDatabase(context.Background(), db, dialect, layers, proj.EPSG, cfg.Database.TablePrefix)
	if err != nil {
		return err
	}
	logger.Info("Database export complete",
		zap.Stringer("driver", dialect),
		zap.String("table_prefix", cfg.Database.TablePrefix),
		zap.Duration("done_in", time.Since(st)),
	)
	return nil
}
