// Package loader reads a dbt project from disk into a core.Project.
//
// SQL models and properties files are parsed concurrently. Problems with
// individual files are collected as load issues so the rest of the project
// can still be linted; only an unusable project root is an error.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/dbtstyle/internal/starlark"
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/sqlscan"
	"golang.org/x/sync/errgroup"
)

// ProjectFileName is the dbt project file looked for in the root.
const ProjectFileName = "dbt_project.yml"

// DefaultModelsDir is used when neither options nor dbt_project.yml name one.
const DefaultModelsDir = "models"

// ErrModelsDirNotFound is returned when the models directory does not exist.
var ErrModelsDirNotFound = errors.New("models directory not found")

// Options configures Load.
type Options struct {
	// ModelsDir overrides the models directory, relative to the root
	ModelsDir string
	// Concurrency bounds the number of files parsed at once (default GOMAXPROCS)
	Concurrency int
	Logger      *slog.Logger
}

// Load discovers and parses the dbt project rooted at root.
func Load(ctx context.Context, root string, opts Options) (*core.Project, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	project := &core.Project{Root: absRoot, FolderConfig: map[string]map[string]any{}}

	pf, err := readProjectFile(absRoot)
	if err != nil {
		var pe *ParseError
		if !errors.As(err, &pe) {
			return nil, err
		}
		project.Issues = append(project.Issues, core.LoadIssue{
			FilePath: filepath.Join(absRoot, ProjectFileName), Pos: pe.Pos(), Message: pe.Message,
		})
	}

	modelsDir := opts.ModelsDir
	if pf != nil {
		project.Name = pf.Name
		project.FolderConfig = pf.FolderConfig()
		if modelsDir == "" && len(pf.ModelPaths) > 0 {
			modelsDir = pf.ModelPaths[0]
		}
	}
	if modelsDir == "" {
		modelsDir = DefaultModelsDir
	}
	if !filepath.IsAbs(modelsDir) {
		modelsDir = filepath.Join(absRoot, modelsDir)
	}
	project.ModelsDir = modelsDir

	info, err := os.Stat(modelsDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrModelsDirNotFound, modelsDir)
	}

	sqlFiles, ymlFiles, err := discover(ctx, modelsDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered project files", "models", len(sqlFiles), "properties", len(ymlFiles), "dir", modelsDir)

	models := make([]*core.Model, len(sqlFiles))
	props := make([]*core.PropertiesFile, len(ymlFiles))
	var (
		mu     sync.Mutex
		issues []core.LoadIssue
	)
	addIssue := func(issue core.LoadIssue) {
		mu.Lock()
		issues = append(issues, issue)
		mu.Unlock()
	}

	eval := starlark.NewEvaluator(starlark.NewThreadPool(limit, logger))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, file := range sqlFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, fileIssues, err := loadModel(modelsDir, file, eval)
			if err != nil {
				addIssue(core.LoadIssue{FilePath: file, Message: err.Error()})
				return nil
			}
			for _, issue := range fileIssues {
				addIssue(issue)
			}
			models[i] = m
			return nil
		})
	}

	for i, file := range ymlFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pf, err := loadProperties(modelsDir, file)
			if err != nil {
				issue := core.LoadIssue{FilePath: file, Message: err.Error()}
				var pe *ParseError
				if errors.As(err, &pe) {
					issue.Pos = pe.Pos()
					issue.Message = pe.Message
				}
				addIssue(issue)
				return nil
			}
			props[i] = pf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, m := range models {
		if m != nil {
			project.Models = append(project.Models, m)
		}
	}
	for _, p := range props {
		if p != nil {
			project.Properties = append(project.Properties, p)
		}
	}
	sort.Slice(project.Models, func(i, j int) bool { return project.Models[i].Path < project.Models[j].Path })
	sort.Slice(project.Properties, func(i, j int) bool { return project.Properties[i].Path < project.Properties[j].Path })

	for _, m := range project.Models {
		mp, _ := project.DescribeModel(m.Name)
		placement := InferLayer(m, mp)
		m.Layer, m.Source, m.Unit = placement.Layer, placement.Source, placement.Unit
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].FilePath != issues[j].FilePath {
			return issues[i].FilePath < issues[j].FilePath
		}
		return issues[i].Pos.Line < issues[j].Pos.Line
	})
	project.Issues = append(project.Issues, issues...)

	logger.Debug("loaded project", "name", project.Name, "models", len(project.Models), "issues", len(project.Issues))
	return project, nil
}

func readProjectFile(root string) (*ProjectFile, error) {
	file := filepath.Join(root, ProjectFileName)
	content, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ProjectFileName, err)
	}
	return ParseProjectFile(file, content)
}

// discover walks the models directory for .sql and .yml/.yaml files,
// skipping hidden directories.
func discover(ctx context.Context, dir string) (sqlFiles, ymlFiles []string, err error) {
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".sql":
			sqlFiles = append(sqlFiles, p)
		case ".yml", ".yaml":
			ymlFiles = append(ymlFiles, p)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return sqlFiles, ymlFiles, nil
}

// relPath returns the slash-separated path of file relative to the models
// directory, and its directory ("." for the root).
func relPath(modelsDir, file string) (rel, dir string) {
	r, err := filepath.Rel(modelsDir, file)
	if err != nil {
		r = filepath.Base(file)
	}
	rel = filepath.ToSlash(r)
	return rel, path.Dir(rel)
}

func loadModel(modelsDir, file string, eval *starlark.Evaluator) (*core.Model, []core.LoadIssue, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, fmt.Errorf("read model: %w", err)
	}
	rel, dir := relPath(modelsDir, file)
	name := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	src := string(content)

	tokens, scanErrs := sqlscan.Scan(src)
	var issues []core.LoadIssue
	for _, se := range scanErrs {
		issues = append(issues, core.LoadIssue{FilePath: file, Pos: se.Pos, Message: se.Message})
	}

	calls := eval.Extract(name, tokens)
	outline := sqlscan.BuildOutline(tokens)

	m := &core.Model{
		Name:      name,
		Path:      rel,
		FilePath:  file,
		Dir:       dir,
		Layer:     core.LayerOther,
		SQL:       src,
		Lines:     sqlscan.SplitLines(src),
		Tokens:    tokens,
		Refs:      calls.Refs,
		Sources:   calls.Sources,
		Config:    calls.Config,
		ConfigPos: calls.ConfigPos,
		Outline:   outline,
		Columns:   sqlscan.ResolveColumns(outline),
	}
	if m.Config == nil {
		m.Config = map[string]any{}
	}
	return m, issues, nil
}

func loadProperties(modelsDir, file string) (*core.PropertiesFile, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read properties: %w", err)
	}
	rel, dir := relPath(modelsDir, file)

	models, sources, err := ParseProperties(file, content)
	if err != nil {
		return nil, err
	}
	return &core.PropertiesFile{
		Name:     path.Base(rel),
		Path:     rel,
		FilePath: file,
		Dir:      dir,
		Content:  string(content),
		Lines:    sqlscan.SplitLines(string(content)),
		Models:   models,
		Sources:  sources,
	}, nil
}
