package migrate

import (
	"fmt"
	"regexp"

	"github.com/walteh/ctxmigrate/pkg/source"
)

// 🪝 Hook is an annotated lifecycle function such as `@BeforeEach fun setup() { ... }`
type Hook struct {
	Annotation string
	Func       string
	Indent     string // indentation of the annotation line
	Start      int    // offset of the annotation
	Open       int    // offset of the body's opening brace
	Close      int    // offset of the body's closing brace
}

// Body returns the text between the braces
func (h Hook) Body(src string) string {
	return src[h.Open+1 : h.Close]
}

// lineRange returns the indexes of the lines holding the opening and closing brace
func (h Hook) lineRange(lines []source.Line) (int, int) {
	return source.LineIndex(lines, h.Open), source.LineIndex(lines, h.Close)
}

const hookHeader = `(?m)^([ \t]*)@%s\b\s*(?:(?:public|private|internal|protected|open|override)\s+)*fun\s+(\w+)\s*\([^)]*\)\s*(?::\s*Unit\s*)?\{`

var hookPatterns = map[string]*regexp.Regexp{}

func hookPattern(annotation string) *regexp.Regexp {
	if re, ok := hookPatterns[annotation]; ok {
		return re
	}
	return regexp.MustCompile(fmt.Sprintf(hookHeader, regexp.QuoteMeta(annotation)))
}

func init() {
	for _, a := range []string{"BeforeEach", "AfterEach"} {
		hookPatterns[a] = hookPattern(a)
	}
}

// 🔍 FindHooks returns every function annotated with annotation whose
// annotation sits in code and whose body braces balance.
func FindHooks(t *source.Text, annotation string) []Hook {
	src := t.String()
	var hooks []Hook
	for _, m := range hookPattern(annotation).FindAllStringSubmatchIndex(src, -1) {
		at := m[3] // end of indentation group, where '@' sits
		if !t.IsCode(at) {
			continue
		}
		open := m[1] - 1
		end, ok := t.Closing(open)
		if !ok {
			continue
		}
		hooks = append(hooks, Hook{
			Annotation: annotation,
			Func:       src[m[4]:m[5]],
			Indent:     src[m[2]:m[3]],
			Start:      at,
			Open:       open,
			Close:      end,
		})
	}
	return hooks
}
