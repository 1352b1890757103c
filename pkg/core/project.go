package core

import (
	"path"
	"sort"
	"strings"

	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

// DefaultMaterialization is what dbt builds when nothing is configured.
const DefaultMaterialization = "view"

// Project is a loaded dbt project.
type Project struct {
	// Name is the name: value of dbt_project.yml, if present
	Name string
	// Root is the absolute project root
	Root string
	// ModelsDir is the absolute models directory
	ModelsDir string

	// Models are sorted by Path
	Models []*Model
	// Properties are sorted by Path
	Properties []*PropertiesFile
	// FolderConfig maps a slash-separated folder (relative to the models
	// directory, "." for the root) to the configs dbt_project.yml applies there.
	FolderConfig map[string]map[string]any
	// Issues are problems found while loading that did not stop the load
	Issues []LoadIssue
}

// LoadIssue is a file that could not be fully read or parsed.
type LoadIssue struct {
	FilePath string
	Pos      token.Position
	Message  string
}

// Model returns the model with the given name.
func (p *Project) Model(name string) (*Model, bool) {
	for _, m := range p.Models {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// ModelDirs returns the distinct directories that contain at least one model, sorted.
func (p *Project) ModelDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, m := range p.Models {
		if !seen[m.Dir] {
			seen[m.Dir] = true
			dirs = append(dirs, m.Dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}

// ModelsIn returns the models located directly in dir.
func (p *Project) ModelsIn(dir string) []*Model {
	var models []*Model
	for _, m := range p.Models {
		if m.Dir == dir {
			models = append(models, m)
		}
	}
	return models
}

// PropertiesIn returns the properties files located directly in dir.
func (p *Project) PropertiesIn(dir string) []*PropertiesFile {
	var files []*PropertiesFile
	for _, f := range p.Properties {
		if f.Dir == dir {
			files = append(files, f)
		}
	}
	return files
}

// DescribeModel finds the properties entry for a model anywhere in the project.
func (p *Project) DescribeModel(name string) (*ModelProperties, *PropertiesFile) {
	for _, f := range p.Properties {
		for i := range f.Models {
			if f.Models[i].Name == name {
				return &f.Models[i], f
			}
		}
	}
	return nil, nil
}

// ConfigOrigin says where an effective config value came from.
type ConfigOrigin string

// Config origins, highest precedence first.
const (
	OriginModel      ConfigOrigin = "model"
	OriginProperties ConfigOrigin = "properties"
	OriginProject    ConfigOrigin = "dbt_project.yml"
	OriginDefault    ConfigOrigin = "default"
)

// EffectiveConfig resolves a config key for a model the way dbt does:
// in-model config() > properties config: > deepest dbt_project.yml folder.
func (p *Project) EffectiveConfig(m *Model, key string) (any, ConfigOrigin) {
	if v, ok := m.Config[key]; ok {
		return v, OriginModel
	}
	if props, _ := p.DescribeModel(m.Name); props != nil {
		if v, ok := props.Config[key]; ok {
			return v, OriginProperties
		}
	}
	dir := m.Dir
	for {
		if cfg, ok := p.FolderConfig[dir]; ok {
			if v, ok := cfg[key]; ok {
				return v, OriginProject
			}
		}
		if dir == "." || dir == "" {
			break
		}
		dir = path.Dir(dir)
	}
	return nil, OriginDefault
}

// Materialization returns the effective materialization of a model.
func (p *Project) Materialization(m *Model) (string, ConfigOrigin) {
	v, origin := p.EffectiveConfig(m, "materialized")
	if s, ok := v.(string); ok && s != "" {
		return strings.ToLower(s), origin
	}
	return DefaultMaterialization, OriginDefault
}

// =============================================================================
// Configuration
// =============================================================================

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Disabled contains rule IDs to disable
	Disabled []string `koanf:"disabled"`

	// Severity maps rule ID to severity override (error, warning, info, hint)
	Severity map[string]string `koanf:"severity"`

	// Rules contains rule-specific options
	Rules map[string]RuleOptions `koanf:"rules"`

	// DocsBaseURL overrides where rule documentation links point
	DocsBaseURL string `koanf:"docs_base_url"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any
