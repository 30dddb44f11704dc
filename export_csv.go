package caiosm

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// WriteRoutesCSV writes raw route attributes in fixed column order:
// id,name,ref,cai_scale,from,to,distance,source,source:ref,maintainer,description.
// Header is always written, absent tags are written as empty fields.
func WriteRoutesCSV(w io.Writer, routes []*Route, separator rune, encodingName string) error {
	writer, err := newCSVWriter(w, separator, encodingName)
	if err != nil {
		return err
	}
	err = writer.Write(routeColumns)
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, route := range routes {
		tags := route.Tags.Map()
		tags["id"] = strconv.FormatInt(int64(route.ID), 10)
		row := make([]string, len(routeColumns))
		for i, column := range routeColumns {
			row[i] = tags[column]
		}
		err = writer.Write(row)
		if err != nil {
			return errors.Wrapf(err, "Can't write route %d", route.ID)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "Can't flush routes")
}

// WriteMembershipCSV writes two-column table of membership edges
func WriteMembershipCSV(w io.Writer, edges []MembershipEdge, separator rune) error {
	writer, err := newCSVWriter(w, separator, "")
	if err != nil {
		return err
	}
	err = writer.Write([]string{FIELD_MEMBER_ROUTE, FIELD_MEMBER_SEGMENT})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, edge := range edges {
		err = writer.Write([]string{strconv.FormatInt(int64(edge.RouteID), 10), edge.SegmentID})
		if err != nil {
			return errors.Wrap(err, "Can't write membership edge")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "Can't flush membership")
}

// WriteLayerCSV writes layer fields plus 'geom' column with WKT geometry
func WriteLayerCSV(w io.Writer, layer *Layer, separator rune, encodingName string) error {
	writer, err := newCSVWriter(w, separator, encodingName)
	if err != nil {
		return err
	}
	header := make([]string, 0, len(layer.Fields)+1)
	header = append(header, layer.Fields...)
	err = writer.Write(append(header, "geom"))
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, feature := range layer.Features {
		row := append(feature.values(layer.Fields), PrepareWKT(feature.Geometry))
		err = writer.Write(row)
		if err != nil {
			return errors.Wrap(err, "Can't write feature")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "Can't flush layer")
}

func newCSVWriter(w io.Writer, separator rune, encodingName string) (*csv.Writer, error) {
	enc, err := textEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		w = enc.NewEncoder().Writer(w)
	}
	writer := csv.NewWriter(w)
	if separator != 0 {
		writer.Comma = separator
	}
	return writer, nil
}
