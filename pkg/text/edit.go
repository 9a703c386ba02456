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

package text

import (
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ✂️ Edit replaces old[Start:End] with New. Start == End is an insertion.
type Edit struct {
	Start int
	End   int
	New   string
}

// 📝 Buffer queues edits against an immutable original text and applies them in
// one pass. Text outside every edit is copied unchanged.
type Buffer struct {
	old   string
	edits []Edit
}

// NewBuffer creates a buffer over old
func NewBuffer(old string) *Buffer {
	return &Buffer{old: old}
}

// Replace queues replacing old[start:end] with repl
func (b *Buffer) Replace(start, end int, repl string) {
	b.edits = append(b.edits, Edit{Start: start, End: end, New: repl})
}

// Insert queues an insertion at pos
func (b *Buffer) Insert(pos int, repl string) {
	b.Replace(pos, pos, repl)
}

// Delete queues removing old[start:end]
func (b *Buffer) Delete(start, end int) {
	b.Replace(start, end, "")
}

// Len returns the number of queued edits
func (b *Buffer) Len() int {
	return len(b.edits)
}

// 🏃 Apply returns the edited text. Overlapping edits are an error; insertions at the
// same offset keep their queue order.
func (b *Buffer) Apply() (string, error) {
	edits := make([]Edit, len(b.edits))
	copy(edits, b.edits)
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Start < edits[j].Start
	})

	var sb strings.Builder
	pos := 0
	for i, e := range edits {
		if e.Start < 0 || e.End > len(b.old) || e.Start > e.End {
			return "", errors.Errorf("edit %d: range [%d,%d) out of bounds", i, e.Start, e.End)
		}
		if e.Start < pos {
			return "", errors.Errorf("edit %d: range [%d,%d) overlaps previous edit ending at %d", i, e.Start, e.End, pos)
		}
		sb.WriteString(b.old[pos:e.Start])
		sb.WriteString(e.New)
		pos = e.End
	}
	sb.WriteString(b.old[pos:])
	return sb.String(), nil
}
