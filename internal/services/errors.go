package services

import "fmt"

// InsufficientContentError reports title generation that parsed fewer
// non-empty titles than requested. Recoverable: the caller may substitute
// deterministic placeholder titles.
type InsufficientContentError struct {
	Expected int
	Got      int
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("model returned %d slide titles instead of %d", e.Got, e.Expected)
}

// EmptyContentError reports an empty body for one slide. Terminal for the
// whole request: partial presentations are not produced.
type EmptyContentError struct {
	Slide int // 1-based
}

func (e *EmptyContentError) Error() string {
	return fmt.Sprintf("empty response for slide %d", e.Slide)
}

// SlideCountMismatchError reports a body count that does not match the
// requested slide count. Terminal for the whole request.
type SlideCountMismatchError struct {
	Expected int
	Got      int
}

func (e *SlideCountMismatchError) Error() string {
	return fmt.Sprintf("model returned %d slide bodies instead of %d", e.Got, e.Expected)
}
