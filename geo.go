package caiosm

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	pi180 = math.Pi / 180.0

	// GRS80 / WGS84 semi-major axis (both share it)
	ellipsoidA = 6378137.0
	// GRS80 inverse flattening
	grs80InvF = 298.257222101
	// WGS84 inverse flattening
	wgs84InvF = 298.257223563
)

// degreesToRadians deg = r * pi / 180
func degreesToRadians(d float64) float64 {
	return d * pi180
}

type ellipsoid struct {
	a  float64
	e2 float64
	e  float64
}

func newEllipsoid(a, invF float64) ellipsoid {
	f := 1.0 / invF
	e2 := 2*f - f*f
	return ellipsoid{a: a, e2: e2, e: math.Sqrt(e2)}
}

var (
	grs80 = newEllipsoid(ellipsoidA, grs80InvF)
	wgs84 = newEllipsoid(ellipsoidA, wgs84InvF)
)

// laea Lambert Azimuthal Equal Area (ellipsoidal form, EPSG method 9820)
type laea struct {
	ell    ellipsoid
	lon0   float64
	fe, fn float64
	qp     float64
	rq     float64
	d      float64
	sinB0  float64
	cosB0  float64
}

func newLAEA(ell ellipsoid, lat0, lon0, fe, fn float64) *laea {
	proj := &laea{
		ell:  ell,
		lon0: degreesToRadians(lon0),
		fe:   fe,
		fn:   fn,
	}
	phi0 := degreesToRadians(lat0)
	proj.qp = proj.q(math.Pi / 2)
	q0 := proj.q(phi0)
	beta0 := math.Asin(q0 / proj.qp)
	proj.sinB0, proj.cosB0 = math.Sin(beta0), math.Cos(beta0)
	proj.rq = ell.a * math.Sqrt(proj.qp/2)
	proj.d = ell.a * (math.Cos(phi0) / math.Sqrt(1-ell.e2*math.Sin(phi0)*math.Sin(phi0))) / (proj.rq * proj.cosB0)
	return proj
}

func (proj *laea) q(phi float64) float64 {
	e, e2 := proj.ell.e, proj.ell.e2
	sinPhi := math.Sin(phi)
	return (1 - e2) * (sinPhi/(1-e2*sinPhi*sinPhi) - (1/(2*e))*math.Log((1-e*sinPhi)/(1+e*sinPhi)))
}

func (proj *laea) forward(pt orb.Point) orb.Point {
	phi := degreesToRadians(pt.Lat())
	dLon := degreesToRadians(pt.Lon()) - proj.lon0
	beta := math.Asin(clamp(proj.q(phi)/proj.qp, -1, 1))
	sinB, cosB := math.Sin(beta), math.Cos(beta)
	b := proj.rq * math.Sqrt(2/(1+proj.sinB0*sinB+proj.cosB0*cosB*math.Cos(dLon)))
	easting := proj.fe + (b*proj.d)*cosB*math.Sin(dLon)
	northing := proj.fn + (b/proj.d)*(proj.cosB0*sinB-proj.sinB0*cosB*math.Cos(dLon))
	return orb.Point{easting, northing}
}

// transverseMercator Transverse Mercator (USGS series, EPSG method 9807) as used by UTM zones
type transverseMercator struct {
	ell    ellipsoid
	lon0   float64
	k0     float64
	fe, fn float64
	ep2    float64
}

// utmCentralMeridian returns longitude (degrees) of the zone central meridian
func utmCentralMeridian(zone int) float64 {
	return float64(zone-1)*6 - 180 + 3
}

func newUTM(ell ellipsoid, zone int, south bool) *transverseMercator {
	proj := &transverseMercator{
		ell:  ell,
		lon0: degreesToRadians(utmCentralMeridian(zone)),
		k0:   0.9996,
		fe:   500000.0,
		ep2:  ell.e2 / (1 - ell.e2),
	}
	if south {
		proj.fn = 10000000.0
	}
	return proj
}

// meridianArc returns distance along meridian from equator to given latitude (radians)
func (proj *transverseMercator) meridianArc(phi float64) float64 {
	e2 := proj.ell.e2
	e4 := e2 * e2
	e6 := e4 * e2
	return proj.ell.a * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

func (proj *transverseMercator) forward(pt orb.Point) orb.Point {
	phi := degreesToRadians(pt.Lat())
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	tanPhi := math.Tan(phi)
	n := proj.ell.a / math.Sqrt(1-proj.ell.e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := proj.ep2 * cosPhi * cosPhi
	a := (degreesToRadians(pt.Lon()) - proj.lon0) * cosPhi
	m := proj.meridianArc(phi)

	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	easting := proj.fe + proj.k0*n*(a+(1-t+c)*a3/6+(5-18*t+t*t+72*c-58*proj.ep2)*a5/120)
	northing := proj.fn + proj.k0*(m+n*tanPhi*(a2/2+(5-t+9*c+4*c*c)*a4/24+(61-58*t+t*t+600*c-330*proj.ep2)*a6/720))
	return orb.Point{easting, northing}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
