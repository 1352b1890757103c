package lint

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultDocsBaseURL is the hosted rule documentation.
const DefaultDocsBaseURL = "https://dbtstyle.dev/rules"

var (
	docsMu      sync.RWMutex
	docsBaseURL = DefaultDocsBaseURL
)

// BuildDocURL constructs a documentation URL for a rule.
func BuildDocURL(ruleID string) string {
	docsMu.RLock()
	defer docsMu.RUnlock()
	return fmt.Sprintf("%s/%s", docsBaseURL, ruleID)
}

// SetDocsBaseURL overrides the documentation base URL, e.g. for an internal mirror.
func SetDocsBaseURL(url string) {
	docsMu.Lock()
	defer docsMu.Unlock()
	if url == "" {
		docsBaseURL = DefaultDocsBaseURL
		return
	}
	docsBaseURL = strings.TrimSuffix(url, "/")
}

// ImpactLevel represents predefined impact score ranges.
type ImpactLevel int

const (
	// ImpactLow for cosmetic issues (0-30)
	ImpactLow ImpactLevel = 20
	// ImpactMedium for issues that slow readers down (31-60)
	ImpactMedium ImpactLevel = 50
	// ImpactHigh for structural issues (61-80)
	ImpactHigh ImpactLevel = 70
	// ImpactCritical for issues that break conventions other rules rely on (81-100)
	ImpactCritical ImpactLevel = 90
)

// Int returns the impact score as an integer.
func (l ImpactLevel) Int() int {
	return int(l)
}
