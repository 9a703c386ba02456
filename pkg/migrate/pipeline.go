package migrate

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/ctxmigrate/pkg/config"
)

// 📄 File is one test source being migrated. Stages rewrite Content in place.
type File struct {
	Path    string
	Name    string // short test name, derived from Path when empty
	Content string
}

// 🔧 Stage is one rewrite pass. It returns the number of sites it rewrote.
type Stage interface {
	Name() string
	Apply(ctx context.Context, f *File) (int, error)
}

// StageResult records what one stage did
type StageResult struct {
	Stage    string
	Rewrites int
}

// 📊 Result describes one pipeline run over a file
type Result struct {
	Path     string
	Profile  string
	Original string
	Content  string
	Stages   []StageResult
}

// Rewrites returns the total number of rewritten sites
func (r *Result) Rewrites() int {
	n := 0
	for _, s := range r.Stages {
		n += s.Rewrites
	}
	return n
}

// Modified reports whether the content changed
func (r *Result) Modified() bool {
	return r.Original != r.Content
}

// 🔄 Pipeline runs stages in a fixed order
type Pipeline struct {
	name   string
	cfg    *config.Config
	stages []Stage
}

// NewPipeline creates a pipeline from explicit stages
func NewPipeline(name string, cfg *config.Config, stages ...Stage) *Pipeline {
	return &Pipeline{name: name, cfg: cfg, stages: stages}
}

// Name returns the profile name
func (p *Pipeline) Name() string {
	return p.name
}

// Stages returns the stage names in run order
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// 🏃 Apply runs every stage over f. On error f keeps the output of the last stage that
// succeeded.
func (p *Pipeline) Apply(ctx context.Context, f *File) (*Result, error) {
	if f.Name == "" {
		f.Name = DeriveName(f.Path, p.cfg.NameSuffixes)
	}

	logger := zerolog.Ctx(ctx).With().
		Str("profile", p.name).
		Str("file", f.Path).
		Logger()

	res := &Result{
		Path:     f.Path,
		Profile:  p.name,
		Original: f.Content,
	}

	for _, s := range p.stages {
		n, err := s.Apply(logger.WithContext(ctx), f)
		if err != nil {
			res.Content = f.Content
			return res, errors.Errorf("stage %s: %w", s.Name(), err)
		}
		if n > 0 {
			logger.Debug().Str("stage", s.Name()).Int("rewrites", n).Msg("stage rewrote sites")
		}
		res.Stages = append(res.Stages, StageResult{Stage: s.Name(), Rewrites: n})
	}

	res.Content = f.Content
	return res, nil
}

const (
	ProfileGeneric = "generic"
	ProfileBasic   = "basic"
	ProfileSync    = "sync"
	ProfileWrap    = "wrap"
	ProfileInject  = "inject"
)

// migration is the shared stage list of every profile that rewrites the fixture
func migration(cfg *config.Config, setup *SetupStage) []Stage {
	return []Stage{
		&ImportStage{cfg: cfg},
		&FieldStage{cfg: cfg},
		setup,
		&CleanupStage{cfg: cfg},
		&UserDirStage{cfg: cfg},
		&CallSiteStage{cfg: cfg},
	}
}

// Generic migrates the fixture using the file's own generation calls
func Generic(cfg *config.Config) *Pipeline {
	return NewPipeline(ProfileGeneric, cfg, migration(cfg, &SetupStage{cfg: cfg})...)
}

// Basic migrates the fixture, replaces legacy setup bodies with a default project and
// injects the directory into known command constructors
func Basic(cfg *config.Config) *Pipeline {
	stages := migration(cfg, &SetupStage{cfg: cfg, defaultProject: true})
	stages = append(stages, &InjectStage{cfg: cfg})
	return NewPipeline(ProfileBasic, cfg, stages...)
}

// Sync migrates the fixture and scopes command parse calls to the project directory
func Sync(cfg *config.Config) *Pipeline {
	stages := migration(cfg, &SetupStage{cfg: cfg})
	stages = append(stages, &WrapStage{cfg: cfg})
	return NewPipeline(ProfileSync, cfg, stages...)
}

// Wrap only scopes command parse calls
func Wrap(cfg *config.Config) *Pipeline {
	return NewPipeline(ProfileWrap, cfg, &WrapStage{cfg: cfg})
}

// Inject only injects the directory into known command constructors
func Inject(cfg *config.Config) *Pipeline {
	return NewPipeline(ProfileInject, cfg, &InjectStage{cfg: cfg})
}

var profiles = map[string]func(*config.Config) *Pipeline{
	ProfileGeneric: Generic,
	ProfileBasic:   Basic,
	ProfileSync:    Sync,
	ProfileWrap:    Wrap,
	ProfileInject:  Inject,
}

// Profiles returns the known profile names, sorted
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Profile builds the named pipeline
func Profile(name string, cfg *config.Config) (*Pipeline, error) {
	build, ok := profiles[name]
	if !ok {
		return nil, errors.Errorf("unknown profile %q (want one of %s)", name, strings.Join(Profiles(), ", "))
	}
	return build(cfg), nil
}
