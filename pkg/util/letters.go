package util

// regionalIndicatorA is U+1F1E6, "REGIONAL INDICATOR SYMBOL LETTER A".
const regionalIndicatorA = 0x1F1E6

// OrdinalLetter returns the regional indicator letter for i in [0,26): 0 is 🇦, 25 is 🇿.
// Outside that range it returns "".
func OrdinalLetter(i int) string {
	if i < 0 || i >= 26 {
		return ""
	}
	return string(rune(regionalIndicatorA + i))
}
