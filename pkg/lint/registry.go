package lint

import (
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/bqlint/pkg/core"
)

// globalRegistry is the single global registry for all lint rules.
var globalRegistry = &Registry{
	rules: make(map[string]SQLRule),
}

// Registry stores registered lint rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]SQLRule // keyed by ID
}

// RegisterSQLRule adds a rule to the global registry.
// Call this from init() functions in rule packages.
func RegisterSQLRule(rule SQLRule) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[rule.ID()] = rule
}

// GetAllSQLRules returns all registered rules ordered by ID.
func GetAllSQLRules() []SQLRule {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]SQLRule, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sortRules(rules)
	return rules
}

// GetSQLRuleByID returns a rule by its ID. The lookup is case-insensitive.
func GetSQLRuleByID(id string) (SQLRule, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[strings.ToUpper(id)]
	return rule, ok
}

// GetSQLRulesByGroup returns all rules in a specific group.
func GetSQLRulesByGroup(group string) []SQLRule {
	var rules []SQLRule
	for _, rule := range GetAllSQLRules() {
		if rule.Group() == group {
			rules = append(rules, rule)
		}
	}
	return rules
}

// GetSQLRulesByDialect returns rules applicable to a specific dialect.
// Rules without dialect restrictions are always included.
func GetSQLRulesByDialect(dialectName string) []SQLRule {
	var rules []SQLRule
	for _, rule := range GetAllSQLRules() {
		dialects := rule.Dialects()
		if len(dialects) == 0 || slices.Contains(dialects, dialectName) {
			rules = append(rules, rule)
		}
	}
	return rules
}

// AllRules returns metadata for every registered rule ordered by ID.
func AllRules() []core.RuleInfo {
	rules := GetAllSQLRules()
	infos := make([]core.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, GetRuleInfo(rule))
	}
	return infos
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

func sortRules(rules []SQLRule) {
	slices.SortFunc(rules, func(a, b SQLRule) int {
		return strings.Compare(a.ID(), b.ID())
	})
}
