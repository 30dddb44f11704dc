package caiosm

// PathType is Infomont 'TIPOLOGIA' of a way
type PathType uint16

const (
	PATH_ASPHALT = PathType(iota + 1)
	PATH_TRACK
	PATH_TRAIL
	PATH_OTHER
)

func (iotaIdx PathType) String() string {
	return [...]string{"asphalt", "track", "trail", "other"}[iotaIdx-1]
}

// Code returns Infomont code
func (iotaIdx PathType) Code() string {
	return [...]string{"01", "02", "03", "99"}[iotaIdx-1]
}

func getPathType(highway string) (PathType, bool) {
	if found, ok := pathTypeByHighway[highway]; ok {
		return found, true
	}
	return PATH_OTHER, false
}
