package rules

// Import all rule subpackages to register them with the global registry.
// This file triggers all init() functions in the rule packages.
import (
	// Import rule categories - each registers its rules via init()
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules/fields"
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules/jinjastyle"
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules/load"
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules/modeltests"
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules/naming"
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules/refs"
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules/sqlstyle"
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules/structure"
	_ "github.com/leapstack-labs/dbtstyle/pkg/lint/rules/yamlstyle"
)
