package enums

import (
	"hash/crc32"
	"math"
)

var (
	posInf = math.Inf(1)
	negInf = math.Inf(-1)
	nan    = math.NaN()
)

// HashString implements the HASH("...") operand and PrefabHash/NameHash
// semantics (spec.md §8 property 3): IEEE CRC32 of the UTF-8 bytes,
// reinterpreted as a signed i32, widened to f64.
func HashString(s string) float64 {
	return float64(int32(crc32.ChecksumIEEE([]byte(s))))
}
