package caiosm

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

type Dialect uint16

const (
	DIALECT_POSTGRES = Dialect(iota + 1)
	DIALECT_SQLITE
)

func (iotaIdx Dialect) String() string {
	return [...]string{"postgres", "sqlite"}[iotaIdx-1]
}

// DriverName returns database/sql driver name of the dialect
func (iotaIdx Dialect) DriverName() string {
	return [...]string{"postgres", "sqlite"}[iotaIdx-1]
}

func ParseDialect(str string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "postgres", "postgresql", "postgis":
		return DIALECT_POSTGRES, nil
	case "sqlite", "sqlite3":
		return DIALECT_SQLITE, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedFormat, "database driver '%s'", str)
	}
}

const geometryColumn = "geom"

// ExportToDatabase (re)creates one table per layer named tablePrefix + layer name and fills it.
//
// Postgres tables get PostGIS geometry column filled with COPY, SQLite tables keep WKT text.
// Geometries must already be in coordinate system srid. Each layer is written in its own transaction.
// Returned error is always an *EntityError of ErrOutputSink kind.
func ExportToDatabase(ctx context.Context, db *sql.DB, dialect Dialect, layers []*Layer, srid int, tablePrefix string) error {
	for _, layer := range layers {
		table := tablePrefix + layer.Name
		err := exportLayerToDatabase(ctx, db, dialect, layer, table, srid)
		if err != nil {
			return outputError(fmt.Sprintf("%s:%s", dialect, table), err)
		}
	}
	return nil
}

func exportLayerToDatabase(ctx context.Context, db *sql.DB, dialect Dialect, layer *Layer, table string, srid int) error {
	txn, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "Can't begin transaction")
	}
	defer txn.Rollback()

	columns := append(append([]string{}, layer.Fields...), geometryColumn)
	for _, stmt := range createTableStatements(dialect, table, layer.Fields, srid) {
		_, err = txn.ExecContext(ctx, stmt)
		if err != nil {
			return errors.Wrapf(err, "Can't execute '%s'", stmt)
		}
	}

	var insert string
	switch dialect {
	case DIALECT_POSTGRES:
		insert = pq.CopyIn(table, columns...)
	case DIALECT_SQLITE:
		quoted := make([]string, len(columns))
		placeholders := make([]string, len(columns))
		for i, column := range columns {
			quoted[i] = pq.QuoteIdentifier(column)
			placeholders[i] = "?"
		}
		insert = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", pq.QuoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "dialect %d", dialect)
	}
	stmt, err := txn.PrepareContext(ctx, insert)
	if err != nil {
		return errors.Wrap(err, "Can't prepare insert")
	}
	for i, feature := range layer.Features {
		values := feature.values(layer.Fields)
		args := make([]interface{}, 0, len(columns))
		for _, value := range values {
			args = append(args, value)
		}
		if dialect == DIALECT_POSTGRES {
			args = append(args, PrepareEWKT(feature.Geometry, srid))
		} else {
			args = append(args, PrepareWKT(feature.Geometry))
		}
		_, err = stmt.ExecContext(ctx, args...)
		if err != nil {
			stmt.Close()
			return errors.Wrapf(err, "Can't insert feature #%d", i)
		}
	}
	if dialect == DIALECT_POSTGRES {
		// Flush COPY buffer
		_, err = stmt.ExecContext(ctx)
		if err != nil {
			stmt.Close()
			return errors.Wrap(err, "Can't finish copy")
		}
	}
	err = stmt.Close()
	if err != nil {
		return errors.Wrap(err, "Can't close statement")
	}
	return errors.Wrap(txn.Commit(), "Can't commit")
}

func createTableStatements(dialect Dialect, table string, fields []string, srid int) []string {
	columns := make([]string, 0, len(fields)+1)
	for _, field := range fields {
		columns = append(columns, pq.QuoteIdentifier(field)+" TEXT")
	}
	geomType := "TEXT"
	if dialect == DIALECT_POSTGRES {
		geomType = fmt.Sprintf("geometry(Geometry, %d)", srid)
	}
	columns = append(columns, pq.QuoteIdentifier(geometryColumn)+" "+geomType)
	return []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s", pq.QuoteIdentifier(table)),
		fmt.Sprintf("CREATE TABLE %s (%s)", pq.QuoteIdentifier(table), strings.Join(columns, ", ")),
	}
}
