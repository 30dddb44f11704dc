package caiosm

// WaymarkType is Infomont 'segni': how the trail is marked on the ground
type WaymarkType uint16

const (
	WAYMARK_UNMARKED = WaymarkType(iota + 1)
	WAYMARK_RED_WHITE
	WAYMARK_OTHER
	WAYMARK_RED_WHITE_MULTIPLE
)

func (iotaIdx WaymarkType) String() string {
	return [...]string{"unmarked", "red_white", "other", "red_white_multiple"}[iotaIdx-1]
}

// Code returns Infomont code
func (iotaIdx WaymarkType) Code() string {
	return [...]string{"001", "002", "003", "004"}[iotaIdx-1]
}
