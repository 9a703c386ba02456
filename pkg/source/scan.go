// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package source classifies the bytes of curly-brace source text (Kotlin flavoured)
// into code, comments and string literals so that matchers can ignore text that only
// looks like code.
package source

import (
	"strings"
)

// 🏷️ Kind is the lexical class of a byte
type Kind uint8

const (
	Code    Kind = iota // plain code
	Comment             // line or (nested) block comment
	String              // string or char literal, templates included
	Ident               // backtick quoted identifier
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case Comment:
		return "comment"
	case String:
		return "string"
	case Ident:
		return "ident"
	default:
		return "unknown"
	}
}

// 📄 Text is source text with a per-byte lexical classification
type Text struct {
	src   string
	kinds []Kind
}

// 🔍 Scan classifies src. It never fails: unterminated literals and comments run to
// the end of the line or text.
func Scan(src string) *Text {
	t := &Text{src: src, kinds: make([]Kind, len(src))}
	t.code(0, false)
	return t
}

// String returns the scanned text
func (t *Text) String() string {
	return t.src
}

// Len returns the length of the text in bytes
func (t *Text) Len() int {
	return len(t.src)
}

// Kind returns the class of the byte at i
func (t *Text) Kind(i int) Kind {
	if i < 0 || i >= len(t.kinds) {
		return Code
	}
	return t.kinds[i]
}

// IsCode reports whether the byte at i is code
func (t *Text) IsCode(i int) bool {
	return t.Kind(i) == Code
}

// code scans code from i. When nested is set it returns just past the brace that
// closes a string template.
func (t *Text) code(i int, nested bool) int {
	depth := 0
	for i < len(t.src) {
		c := t.src[i]
		switch {
		case c == '/' && t.at(i+1, '/'):
			i = t.lineComment(i)
		case c == '/' && t.at(i+1, '*'):
			i = t.blockComment(i)
		case c == '"':
			i = t.str(i)
		case c == '\'':
			i = t.char(i)
		case c == '`':
			i = t.ident(i)
		case c == '{':
			depth++
			i++
		case c == '}':
			if nested && depth == 0 {
				return i + 1
			}
			depth--
			i++
		default:
			i++
		}
	}
	return i
}

func (t *Text) at(i int, c byte) bool {
	return i < len(t.src) && t.src[i] == c
}

func (t *Text) mark(start, end int, k Kind) {
	if end > len(t.kinds) {
		end = len(t.kinds)
	}
	for i := start; i < end; i++ {
		t.kinds[i] = k
	}
}

func (t *Text) lineComment(start int) int {
	i := start
	for i < len(t.src) && t.src[i] != '\n' {
		i++
	}
	t.mark(start, i, Comment)
	return i
}

func (t *Text) blockComment(start int) int {
	i := start + 2
	depth := 1
	for i < len(t.src) && depth > 0 {
		switch {
		case strings.HasPrefix(t.src[i:], "/*"):
			depth++
			i += 2
		case strings.HasPrefix(t.src[i:], "*/"):
			depth--
			i += 2
		default:
			i++
		}
	}
	t.mark(start, i, Comment)
	return i
}

func (t *Text) str(start int) int {
	i := start
	if strings.HasPrefix(t.src[i:], `"""`) {
		i += 3
		for i < len(t.src) {
			if strings.HasPrefix(t.src[i:], `"""`) {
				i += 3
				for i < len(t.src) && t.src[i] == '"' {
					i++
				}
				break
			}
			if strings.HasPrefix(t.src[i:], "${") {
				i = t.code(i+2, true)
				continue
			}
			i++
		}
	} else {
		i++
		for i < len(t.src) {
			c := t.src[i]
			if c == '\\' {
				i += 2
				continue
			}
			if c == '"' {
				i++
				break
			}
			if c == '\n' {
				break
			}
			if c == '$' && t.at(i+1, '{') {
				i = t.code(i+2, true)
				continue
			}
			i++
		}
	}
	if i > len(t.src) {
		i = len(t.src)
	}
	t.mark(start, i, String)
	return i
}

func (t *Text) char(start int) int {
	i := start + 1
	for i < len(t.src) && t.src[i] != '\'' && t.src[i] != '\n' {
		if t.src[i] == '\\' {
			i++
		}
		i++
	}
	if t.at(i, '\'') {
		i++
	}
	if i > len(t.src) {
		i = len(t.src)
	}
	t.mark(start, i, String)
	return i
}

// ident skips a backtick quoted identifier. It never spans lines.
func (t *Text) ident(start int) int {
	i := start + 1
	for i < len(t.src) && t.src[i] != '`' && t.src[i] != '\n' {
		i++
	}
	if t.at(i, '`') {
		i++
	}
	t.mark(start, i, Ident)
	return i
}

var pairs = map[byte]byte{'{': '}', '(': ')', '[': ']'}

// 🎯 Closing returns the offset of the bracket closing the one at open. Only code
// bytes are counted, so brackets inside strings and comments are ignored.
func (t *Text) Closing(open int) (int, bool) {
	if open < 0 || open >= len(t.src) || !t.IsCode(open) {
		return 0, false
	}
	closer, ok := pairs[t.src[open]]
	if !ok {
		return 0, false
	}
	opener := t.src[open]
	depth := 0
	for i := open; i < len(t.src); i++ {
		if !t.IsCode(i) {
			continue
		}
		switch t.src[i] {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// IndexCode returns the first offset >= from where substr starts on a code byte, or -1
func (t *Text) IndexCode(substr string, from int) int {
	if from < 0 {
		from = 0
	}
	for from <= len(t.src) {
		j := strings.Index(t.src[from:], substr)
		if j < 0 {
			return -1
		}
		if t.IsCode(from + j) {
			return from + j
		}
		from += j + 1
	}
	return -1
}

// ContainsCode reports whether substr starts on a code byte within [start, end)
func (t *Text) ContainsCode(substr string, start, end int) bool {
	i := t.IndexCode(substr, start)
	return i >= 0 && i+len(substr) <= end
}
