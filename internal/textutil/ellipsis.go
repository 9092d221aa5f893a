package textutil

const ellipsisMarker = "..."

// Ellipsis shortens s to at most n cells by cutting out its middle.
//
// Text that already fits is returned unchanged. Otherwise the result is a left
// slice, "..." and a right slice with
//
//	left = n/2-2, right = n/2-1
//
// (integer division), so an even n gives exactly n cells and an odd n gives
// n-1. n == 3 gives the bare marker; a smaller n cuts the text to n cells.
// Runes wider than one cell are never split, so wide text may come out short.
func Ellipsis(s string, n int) string {
	if Width(s) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	if n < len(ellipsisMarker) {
		return head(s, n)
	}
	if n == len(ellipsisMarker) {
		return ellipsisMarker
	}
	return head(s, n/2-2) + ellipsisMarker + tail(s, n/2-1)
}
