package utils

import (
	"strconv"
	"strings"
	"time"
)

// MicroUnitsPerUnit is the number of micro-units in one whole currency unit.
const MicroUnitsPerUnit = 1_000_000

// MicroToString renders micro-units as whole units without trailing zeros,
// e.g. 5_500_000 -> "5.5".
func MicroToString(micro uint64) string {
	whole := strconv.FormatUint(micro/MicroUnitsPerUnit, 10)
	frac := micro % MicroUnitsPerUnit
	if frac == 0 {
		return whole
	}
	f := strconv.FormatUint(frac+MicroUnitsPerUnit, 10)[1:]
	return whole + "." + strings.TrimRight(f, "0")
}

// TruncateAddress keeps the first and last five characters of an address.
func TruncateAddress(address string) string {
	if len(address) <= 13 {
		return address
	}
	return address[:5] + "..." + address[len(address)-5:]
}

// ConvertTime formats a unix timestamp in seconds; zero yields "".
func ConvertTime(unix uint64, loc *time.Location) string {
	if unix == 0 {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(int64(unix), 0).In(loc).Format("02 Jan 2006, 15:04 MST")
}
