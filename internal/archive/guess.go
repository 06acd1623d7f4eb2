package archive

// GuessYearFromPackName infers a release year from a pack name. Many packs
// embed a four-digit year or a trailing YYMM-style suffix (mop-9509,
// ama-0717, ice9703a). Unknown stays 0; the heuristic is deliberately
// conservative.
func GuessYearFromPackName(pack string) int {
	if pack == "" {
		return 0
	}

	digit := func(b byte) bool { return b >= '0' && b <= '9' }

	// Prefer an explicit four-digit year anywhere in the name.
	for i := 0; i+4 <= len(pack); i++ {
		if !digit(pack[i]) || !digit(pack[i+1]) || !digit(pack[i+2]) || !digit(pack[i+3]) {
			continue
		}
		y := int(pack[i]-'0')*1000 + int(pack[i+1]-'0')*100 + int(pack[i+2]-'0')*10 + int(pack[i+3]-'0')
		if y >= 1990 && y <= 2025 {
			return y
		}
	}

	// Trailing YYMM-ish run within the last six characters.
	start := 0
	if len(pack) > 6 {
		start = len(pack) - 6
	}
	for i := start; i+4 <= len(pack); i++ {
		if !digit(pack[i]) || !digit(pack[i+1]) || !digit(pack[i+2]) || !digit(pack[i+3]) {
			continue
		}
		yy := int(pack[i]-'0')*10 + int(pack[i+1]-'0')
		// Pivot: 90-99 is the 1990s, 00-25 the 2000s onward.
		if yy >= 90 {
			return 1900 + yy
		}
		if yy <= 25 {
			return 2000 + yy
		}
	}

	return 0
}
