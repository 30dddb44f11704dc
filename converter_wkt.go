package caiosm

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// PrepareWKT returns WKT representation of geometry. Nil geometry gives empty string.
func PrepareWKT(geom orb.Geometry) string {
	if geom == nil {
		return ""
	}
	return wkt.MarshalString(geom)
}

// PrepareEWKT returns PostGIS extended WKT representation of geometry
func PrepareEWKT(geom orb.Geometry, srid int) string {
	return fmt.Sprintf("SRID=%d;%s", srid, PrepareWKT(geom))
}
