package migrate

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/walteh/ctxmigrate/pkg/config"
	"github.com/walteh/ctxmigrate/pkg/source"
	"github.com/walteh/ctxmigrate/pkg/text"
)

// 📦 ImportStage adds the context import to files that still use the legacy fixture.
// The import goes right before the generator import, or after the first anchor import
// found. Files without either are left alone.
type ImportStage struct {
	cfg *config.Config
}

func (s *ImportStage) Name() string { return "imports" }

func (s *ImportStage) Apply(ctx context.Context, f *File) (int, error) {
	logger := zerolog.Ctx(ctx)
	t := source.Scan(f.Content)

	if t.IndexCode(s.cfg.Names.LegacyDir, 0) < 0 {
		return 0, nil
	}

	lines := source.Lines(f.Content)
	imp := strings.TrimSpace(s.cfg.Imports.Context)
	if findImport(t, lines, imp) >= 0 {
		logger.Trace().Msg("context import already present")
		return 0, nil
	}

	buf := text.NewBuffer(f.Content)
	if i := findImport(t, lines, strings.TrimSpace(s.cfg.Imports.Generator)); i >= 0 {
		buf.Insert(lines[i].Start, source.Indent(lines[i].Text)+imp+"\n")
	} else {
		anchor := -1
		for _, a := range s.cfg.Imports.Anchors {
			if anchor = findImport(t, lines, strings.TrimSpace(a)); anchor >= 0 {
				break
			}
		}
		if anchor < 0 {
			logger.Debug().Msg("no import anchor found, skipping context import")
			return 0, nil
		}
		l := lines[anchor]
		if l.End == len(f.Content) {
			buf.Insert(l.End, "\n"+source.Indent(l.Text)+imp)
		} else {
			buf.Insert(l.Next(f.Content), source.Indent(l.Text)+imp+"\n")
		}
	}

	out, err := buf.Apply()
	if err != nil {
		return 0, err
	}
	f.Content = out
	return 1, nil
}

// findImport returns the index of the code line equal to imp, ignoring surrounding
// whitespace and a trailing semicolon, or -1
func findImport(t *source.Text, lines []source.Line, imp string) int {
	if imp == "" {
		return -1
	}
	for i, l := range lines {
		if !t.CodeLine(l) {
			continue
		}
		if strings.TrimSuffix(strings.TrimSpace(l.Text), ";") == imp {
			return i
		}
	}
	return -1
}
