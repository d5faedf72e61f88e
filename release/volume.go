package release

import "math"

// DecodeVolume converts the catalog's packed volume integer into its display
// number: the ten-thousands part is the major number and the ones digit is a
// single decimal. The tens to thousands digits do not contribute.
//
//	DecodeVolume(10051) == 1.1
//	DecodeVolume(20003) == 2.3
func DecodeVolume(raw int) float64 {
	return math.Floor(float64(raw)/10000) + float64(raw%10)*0.1
}
