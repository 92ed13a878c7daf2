package enums

import (
	"fmt"
	"strconv"
	"strings"
)

// basicEnumFamilies is a representative, extensible subset of the
// `Category.Member` enum families from stationeers_data/src/enums/basic.rs
// (spec.md §6, §4.2 "Number::Enum"). Each family is an ordered member
// list; a member's value is its index. Extending coverage is a matter of
// appending rows here, not engineering new code paths.
var basicEnumFamilies = map[string][]string{
	"GasType": {
		"Undefined", "Oxygen", "CarbonDioxide", "Nitrogen", "Pollutant",
		"Volatiles", "Water", "PollutedWater", "NitrousOxide", "LiquidNitrogen",
		"LiquidOxygen", "LiquidVolatiles", "Steam", "LiquidCarbonDioxide",
		"LiquidPollutant", "LiquidNitrousOxide", "Hydrogen", "LiquidHydrogen",
	},
	"Color": {
		"Blue", "Grey", "Green", "Orange", "Red", "Yellow", "White", "Black",
		"Brown", "Khaki", "Pink", "Purple",
	},
	"SortingClass": {
		"Default", "Kits", "Tools", "Resources", "Food", "Apparel", "Storage", "Ores",
	},
	"SoundAlert": {
		"None", "Buzzer1", "Buzzer2", "Horn1", "Horn2", "Klaxon1", "Klaxon2",
	},
	"PowerMode": {
		"Idle", "Discharging", "Charging",
	},
	"RobotMode": {
		"Idle", "Step", "MoveToTarget", "Roam", "StandGuard", "ReturnToCharge",
	},
	"ElevatorMode": {
		"Idle", "Up", "Down",
	},
	"VentDirection": {
		"Outward", "Inward",
	},
	"Class": {
		"None", "Kits", "Tools", "Resources", "Food", "Appliances", "Clothing",
		"Ices", "Ores", "Plants", "Uniforms", "ExosuitModule", "Blocked",
	},
	"EntityState": {
		"Alive", "Dead", "Decay", "Unconscious",
	},
}

// BasicEnumValue resolves "Family.Member" (case-sensitive per spec.md §6)
// to its float64 value, ok=false if the family or member is unknown.
func BasicEnumValue(family, member string) (float64, bool) {
	members, ok := basicEnumFamilies[family]
	if !ok {
		return 0, false
	}
	for i, m := range members {
		if m == member {
			return float64(i), true
		}
	}
	return 0, false
}

// ParseBasicEnum splits and resolves a "Family.Member" token in one step.
func ParseBasicEnum(token string) (float64, bool) {
	dot := strings.IndexByte(token, '.')
	if dot <= 0 || dot == len(token)-1 {
		return 0, false
	}
	return BasicEnumValue(token[:dot], token[dot+1:])
}

// FormatBasicEnum renders a family member by value, for Display round-trips.
func FormatBasicEnum(family string, value float64) (string, bool) {
	members, ok := basicEnumFamilies[family]
	if !ok {
		return "", false
	}
	i := int(value)
	if float64(i) != value || i < 0 || i >= len(members) {
		return "", false
	}
	return fmt.Sprintf("%s.%s", family, members[i]), true
}

// NamedConstants is the fixed float literal registry IC10 source can
// reference by bare name (spec.md §3, §6), grounded on grammar.rs's
// CONSTANTS_LOOKUP.
var NamedConstants = map[string]float64{
	"pi":       3.14159265358979323846,
	"deg2rad":  0.01745329251994329577,
	"rad2deg":  57.2957795130823208768,
	"epsilon":  2.2204460492503131e-16,
	"pinf":     posInf,
	"ninf":     negInf,
	"nan":      nan,
}

func ParseHexLiteral(s string) (int64, error) {
	return strconv.ParseInt(s, 16, 64)
}

func ParseBinLiteral(s string) (int64, error) {
	return strconv.ParseInt(s, 2, 64)
}
