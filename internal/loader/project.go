package loader

import (
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the subset of dbt_project.yml the linter reads.
type ProjectFile struct {
	Name       string         `yaml:"name"`
	ModelPaths []string       `yaml:"model-paths"`
	Models     map[string]any `yaml:"models"`
}

// configKeys are dbt configs that may appear in dbt_project.yml without a
// leading "+". Any other key holding a mapping is a folder.
var configKeys = map[string]bool{
	"materialized": true, "schema": true, "database": true, "alias": true,
	"tags": true, "enabled": true, "docs": true, "persist_docs": true,
	"full_refresh": true, "meta": true, "grants": true, "contract": true,
	"sql_header": true, "on_schema_change": true, "unique_key": true,
	"incremental_strategy": true, "pre-hook": true, "post-hook": true,
	"quoting": true, "column_types": true, "access": true, "group": true,
	"layer": true, "cluster_by": true, "partition_by": true, "dist": true, "sort": true,
}

// ParseProjectFile parses dbt_project.yml.
func ParseProjectFile(file string, content []byte) (*ProjectFile, error) {
	var pf ProjectFile
	if err := yaml.Unmarshal(content, &pf); err != nil {
		return nil, yamlError(file, err)
	}
	return &pf, nil
}

// FolderConfig flattens the models: tree into configs per folder, keyed by
// slash-separated path relative to the models directory ("." for the root).
// Only the entry for the project itself is read; package entries are ignored
// unless the project has no name.
func (pf *ProjectFile) FolderConfig() map[string]map[string]any {
	out := make(map[string]map[string]any)
	for key, v := range pf.Models {
		tree, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if pf.Name != "" && key != pf.Name {
			continue
		}
		walkFolderConfig(tree, ".", out)
	}
	return out
}

func walkFolderConfig(tree map[string]any, dir string, out map[string]map[string]any) {
	for key, v := range tree {
		name := strings.TrimPrefix(key, "+")
		sub, isMap := v.(map[string]any)

		if strings.HasPrefix(key, "+") || configKeys[name] || !isMap {
			if out[dir] == nil {
				out[dir] = make(map[string]any)
			}
			out[dir][name] = v
			continue
		}
		walkFolderConfig(sub, path.Join(dir, key), out)
	}
}
