package internal

// SlidingWindow reports when the runes fed to it end with a fixed delimiter.
// Matching restarts naively on mismatch, so delimiters that overlap their own
// prefix (e.g. "--->" against "-->") are not recognized.
type SlidingWindow struct {
	target []rune
	index  int
}

// NewSlidingWindow creates a window armed with the given delimiter
func NewSlidingWindow(target string) *SlidingWindow {
	return &SlidingWindow{
		target: []rune(target),
		index:  0,
	}
}

// Slide feeds one rune and returns true when the delimiter has just completed
func (w *SlidingWindow) Slide(r rune) bool {
	if len(w.target) == 0 {
		return false
	}
	if w.index >= len(w.target) {
		w.index = 0
	}
	if w.target[w.index] != r {
		w.index = 0
		if w.target[0] != r {
			return false
		}
	}
	w.index++
	return w.index == len(w.target)
}

// SlideString feeds every rune of s and reports whether the delimiter completed
// on the final rune.
func (w *SlidingWindow) SlideString(s string) bool {
	found := false
	for _, r := range s {
		found = w.Slide(r)
	}
	return found
}

// Target returns the delimiter the window is armed with
func (w *SlidingWindow) Target() string {
	return string(w.target)
}
