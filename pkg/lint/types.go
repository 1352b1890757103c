package lint

import (
	"github.com/leapstack-labs/dbtstyle/pkg/core"
	"github.com/leapstack-labs/dbtstyle/pkg/token"
)

// =============================================================================
// Diagnostics
// =============================================================================

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string         `json:"rule_id"`
	Severity core.Severity  `json:"severity"`
	Message  string         `json:"message"`
	FilePath string         `json:"file"`
	Model    string         `json:"model,omitempty"`
	Pos      token.Position `json:"pos"`
	EndPos   token.Position `json:"end_pos"`

	// Remediation metadata
	DocumentationURL string        `json:"documentation_url,omitempty"`
	ImpactScore      int           `json:"impact_score"` // 0-100, used for health score weighting
	RelatedInfo      []RelatedInfo `json:"related,omitempty"`
}

// RelatedInfo points at another location relevant to a diagnostic.
type RelatedInfo struct {
	FilePath string         `json:"file"`
	Pos      token.Position `json:"pos"`
	Message  string         `json:"message"`
}

// =============================================================================
// Check contexts
// =============================================================================

// ModelContext is what a model rule sees.
type ModelContext struct {
	Project *core.Project
	Model   *core.Model
	// Options holds the rule's options from configuration
	Options map[string]any
}

// Properties returns the properties entry describing the model, if any.
func (c *ModelContext) Properties() (*core.ModelProperties, *core.PropertiesFile) {
	return c.Project.DescribeModel(c.Model.Name)
}

// PropertiesContext is what a properties rule sees.
type PropertiesContext struct {
	Project *core.Project
	File    *core.PropertiesFile
	Options map[string]any
}

// ProjectContext is what a project rule sees.
type ProjectContext struct {
	Project *core.Project
	Options map[string]any
}
