package hessian

import "unicode/utf16"

// maxChunkUnits is the largest UTF-16 code-unit count (or byte count, for
// Binary) a single wire chunk can declare -- the length field is a uint16.
const maxChunkUnits = 65535

// maxStreamBytes caps the cumulative reassembled size of any one String or
// Binary value across all of its chunks.
const maxStreamBytes = 16 << 20

// utf16Chunks splits s's UTF-16 code units into runs of at most
// maxChunkUnits units each, never splitting a surrogate pair across two
// runs, and returns each run re-encoded back to a UTF-8 string plus its
// unit count.
func utf16Chunks(s string) (chunks []string, unitCounts []int) {
	units := utf16.Encode([]rune(s))
	if len(units) == 0 {
		return []string{""}, []int{0}
	}
	for start := 0; start < len(units); {
		end := start + maxChunkUnits
		if end > len(units) {
			end = len(units)
		}
		if end < len(units) && isHighSurrogate(units[end-1]) {
			end--
		}
		chunk := string(utf16.Decode(units[start:end]))
		chunks = append(chunks, chunk)
		unitCounts = append(unitCounts, end-start)
		start = end
	}
	return
}

func isHighSurrogate(u uint16) bool {
	return u >= 0xD800 && u <= 0xDBFF
}
