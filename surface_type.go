package caiosm

// SurfaceType is Infomont 'CARATTER' of a way
type SurfaceType uint16

const (
	SURFACE_OTHER = SurfaceType(iota + 1)
	SURFACE_ASPHALT
	SURFACE_UNPAVED
	SURFACE_STONE
)

func (iotaIdx SurfaceType) String() string {
	return [...]string{"other", "asphalt", "unpaved", "stone"}[iotaIdx-1]
}

// Code returns Infomont code
func (iotaIdx SurfaceType) Code() string {
	return [...]string{"00", "01", "02", "03"}[iotaIdx-1]
}

func getSurfaceType(surface string) (SurfaceType, bool) {
	if found, ok := surfaceTypes[surface]; ok {
		return found, true
	}
	return SURFACE_OTHER, false
}
