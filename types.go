package buck

import (
	"github.com/chrisrhoden/buck/internal/model"
	"github.com/chrisrhoden/buck/internal/rules"
)

// Public type aliases for internal types used in the Parser API. These are
// Go type aliases (=) — identical to the internal types at compile time.
// External consumers use these names; no conversion is needed.

type BuildTarget = model.BuildTarget
type ParseContext = model.ParseContext
type TargetParser = model.TargetParser
type BuildFileTree = model.BuildFileTree
type RawRule = rules.RawRule
type Rule = rules.Rule
type RuleBuilder = rules.Builder
type RuleType = rules.Type
type RuleRegistry = rules.Registry
