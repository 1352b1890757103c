package lint

import (
	"sort"
	"sync"

	"github.com/leapstack-labs/dbtstyle/pkg/core"
)

// globalRegistry holds every registered rule.
var globalRegistry = &Registry{
	rules: make(map[string]Rule),
}

// Registry stores registered lint rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule // keyed by ID
}

// Register adds a RuleDef to the global registry.
// Call this from init() functions in rule packages.
func Register(def RuleDef) {
	RegisterRule(WrapRuleDef(def))
}

// RegisterRule adds a rule implementation to the global registry,
// replacing any rule with the same ID.
func RegisterRule(rule Rule) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[rule.ID()] = rule
}

// Unregister removes a rule by ID.
func Unregister(id string) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	delete(globalRegistry.rules, id)
}

// Rules returns all registered rules sorted by ID.
func Rules() []Rule {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]Rule, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID() < rules[j].ID() })
	return rules
}

// AllRules returns metadata for all registered rules, sorted by ID.
func AllRules() []core.RuleInfo {
	rules := Rules()
	infos := make([]core.RuleInfo, len(rules))
	for i, r := range rules {
		infos[i] = GetRuleInfo(r)
	}
	return infos
}

// GetRuleByID returns a rule by its ID.
func GetRuleByID(id string) (Rule, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[id]
	return rule, ok
}

// GetRulesByGroup returns the rules of a group, sorted by ID.
func GetRulesByGroup(group string) []Rule {
	var rules []Rule
	for _, r := range Rules() {
		if r.Group() == group {
			rules = append(rules, r)
		}
	}
	return rules
}

// Groups returns the distinct rule groups, sorted.
func Groups() []string {
	seen := make(map[string]bool)
	var groups []string
	for _, r := range Rules() {
		if !seen[r.Group()] {
			seen[r.Group()] = true
			groups = append(groups, r.Group())
		}
	}
	sort.Strings(groups)
	return groups
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}
