package catalog

const (
	flatSign  = "♭"
	sharpSign = "♯"
)

// keySignatures lists every key a song may declare, per letter in the
// order flat, flat minor, natural, natural minor, sharp, sharp minor.
var keySignatures = buildKeySignatures()

func buildKeySignatures() []string {
	const (
		letters   = "ABCDEFG"
		flatable  = "ABDEG"
		sharpable = "ACDFG"
	)
	contains := func(set string, c byte) bool {
		for i := range len(set) {
			if set[i] == c {
				return true
			}
		}
		return false
	}

	var out []string
	for i := range len(letters) {
		base := string(letters[i])
		if contains(flatable, letters[i]) {
			out = append(out, base+flatSign, base+flatSign+"m")
		}
		out = append(out, base, base+"m")
		if contains(sharpable, letters[i]) {
			out = append(out, base+sharpSign, base+sharpSign+"m")
		}
	}
	return out
}

// KeySignatures returns a copy of the supported key signatures.
func KeySignatures() []string {
	return append([]string(nil), keySignatures...)
}
