package lint

import "github.com/leapstack-labs/dbtstyle/pkg/core"

// Rule is the base interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g., "NM01" or "SQ05"
	ID() string

	// Name returns the dotted name, e.g., "naming.staging"
	Name() string

	// Group returns the category, e.g., "naming", "sql", "yaml"
	Group() string

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this rule
	DefaultSeverity() core.Severity

	// ConfigKeys returns configuration keys this rule accepts
	ConfigKeys() []string

	// Scope returns core.ScopeModel, core.ScopeProperties or core.ScopeProject
	Scope() string

	// Documentation
	Rationale() string
	BadExample() string
	GoodExample() string
	Fix() string
}

// ModelRule checks a single SQL model.
type ModelRule interface {
	Rule
	CheckModel(ctx *ModelContext) []Diagnostic
}

// PropertiesRule checks a single properties file.
type PropertiesRule interface {
	Rule
	CheckProperties(ctx *PropertiesContext) []Diagnostic
}

// ProjectRule checks the project as a whole.
type ProjectRule interface {
	Rule
	CheckProject(ctx *ProjectContext) []Diagnostic
}

// ModelCheckFunc is the check of a model-scope RuleDef.
type ModelCheckFunc func(ctx *ModelContext) []Diagnostic

// PropertiesCheckFunc is the check of a properties-scope RuleDef.
type PropertiesCheckFunc func(ctx *PropertiesContext) []Diagnostic

// ProjectCheckFunc is the check of a project-scope RuleDef.
type ProjectCheckFunc func(ctx *ProjectContext) []Diagnostic

// RuleDef is a data-driven rule definition. Exactly one of Model,
// Properties or Project must be set; it determines the rule's scope.
type RuleDef struct {
	ID          string
	Name        string
	Group       string
	Description string
	Severity    core.Severity
	ConfigKeys  []string

	Model      ModelCheckFunc
	Properties PropertiesCheckFunc
	Project    ProjectCheckFunc

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Code showing the anti-pattern
	GoodExample string // Code showing the correct pattern
	Fix         string // How to fix violations (when not obvious)
}

// Scope returns the scope implied by the check function that is set.
func (d RuleDef) Scope() string {
	switch {
	case d.Model != nil:
		return core.ScopeModel
	case d.Properties != nil:
		return core.ScopeProperties
	default:
		return core.ScopeProject
	}
}

// definedRule adapts a RuleDef to the Rule interfaces.
type definedRule struct {
	def RuleDef
}

// WrapRuleDef turns a RuleDef into a Rule implementing the interface for its scope.
func WrapRuleDef(def RuleDef) Rule {
	base := definedRule{def: def}
	switch def.Scope() {
	case core.ScopeModel:
		return &modelDefRule{base}
	case core.ScopeProperties:
		return &propertiesDefRule{base}
	default:
		return &projectDefRule{base}
	}
}

func (r definedRule) ID() string                     { return r.def.ID }
func (r definedRule) Name() string                   { return r.def.Name }
func (r definedRule) Group() string                  { return r.def.Group }
func (r definedRule) Description() string            { return r.def.Description }
func (r definedRule) DefaultSeverity() core.Severity { return r.def.Severity }
func (r definedRule) ConfigKeys() []string           { return r.def.ConfigKeys }
func (r definedRule) Scope() string                  { return r.def.Scope() }
func (r definedRule) Rationale() string              { return r.def.Rationale }
func (r definedRule) BadExample() string             { return r.def.BadExample }
func (r definedRule) GoodExample() string            { return r.def.GoodExample }
func (r definedRule) Fix() string                    { return r.def.Fix }

type modelDefRule struct{ definedRule }

func (r *modelDefRule) CheckModel(ctx *ModelContext) []Diagnostic { return r.def.Model(ctx) }

type propertiesDefRule struct{ definedRule }

func (r *propertiesDefRule) CheckProperties(ctx *PropertiesContext) []Diagnostic {
	return r.def.Properties(ctx)
}

type projectDefRule struct{ definedRule }

func (r *projectDefRule) CheckProject(ctx *ProjectContext) []Diagnostic {
	if r.def.Project == nil {
		return nil
	}
	return r.def.Project(ctx)
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) core.RuleInfo {
	return core.RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity(),
		ConfigKeys:      r.ConfigKeys(),
		Scope:           r.Scope(),
		Rationale:       r.Rationale(),
		BadExample:      r.BadExample(),
		GoodExample:     r.GoodExample(),
		Fix:             r.Fix(),
	}
}
