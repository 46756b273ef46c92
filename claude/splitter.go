package claude

import (
	"strings"

	"github.com/xiao99xiao/XliffTranslator/translate"
)

// Splitter turns a raw model response into exactly want per-item strings.
// Implementations report a wrong item count as *translate.ShapeMismatchError
// so the engine can bisect the batch. Swapping the splitter changes the
// response format contract without touching the retry algorithm.
type Splitter interface {
	Split(raw string, want int) ([]string, error)
}

// LineSplitter matches responses by position: one line per input item, in
// input order. Leading enumeration markers the model may have added
// (digits, '.', ')', '-', spaces) are stripped; matching is positional,
// the numbers are never re-parsed.
type LineSplitter struct{}

// enumMarkers are the characters stripped from the start of each line.
const enumMarkers = "0123456789-.) "

// Split implements Splitter.
func (LineSplitter) Split(raw string, want int) ([]string, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.TrimLeft(line, enumMarkers)
	}
	if len(out) != want {
		return nil, &translate.ShapeMismatchError{Want: want, Got: len(out)}
	}
	return out, nil
}
