// Package discard decides whether an exponent tuple can be dropped from the
// search without losing a case that the external verifier needs to see.
//
// Rules fall into three groups: structural redundancies (an equivalent tuple
// is kept elsewhere or the tuple contains a vanishing sub-sum), the castle
// bound itself, and sub-cases already settled by Cassels's theorem. Cheap
// integer rules run before the floating-point castle test; theorem-specific
// rules run last.
package discard

// CastleCutoff is the bound on the squared modulus of every conjugate. Tuples
// whose castle reaches it are discarded.
const CastleCutoff = 5.1

// Rule identifies which discard rule fired for a tuple.
type Rule int

// Rules in evaluation order. Keep means no rule fired.
const (
	Keep Rule = iota
	Conjugation
	SignPair
	CubeRoot
	FifthRootChain
	Castle
	ThreeTerm
	FourTerm
	SeventhRootChain
)

// NumRules is the number of Rule values, Keep included.
const NumRules = int(SeventhRootChain) + 1

var ruleNames = [NumRules]string{
	Keep:             "keep",
	Conjugation:      "conjugation",
	SignPair:         "sign_pair",
	CubeRoot:         "cube_root",
	FifthRootChain:   "fifth_root_chain",
	Castle:           "castle",
	ThreeTerm:        "three_term",
	FourTerm:         "four_term",
	SeventhRootChain: "seventh_root_chain",
}

// String returns the snake_case name of the rule, used in logs and metric
// labels.
func (r Rule) String() string {
	if r < 0 || int(r) >= NumRules {
		return "unknown"
	}
	return ruleNames[r]
}

// Rules lists every rule in evaluation order, Keep first.
func Rules() []Rule {
	rules := make([]Rule, NumRules)
	for i := range rules {
		rules[i] = Rule(i)
	}
	return rules
}

// Constants are the divisor constants derived from a modulus. A zero N3, N5
// or N7 means the modulus is not divisible by 3, 5 or 7 and the matching rules
// do not apply.
type Constants struct {
	NN int
	N2 int
	N3 int
	N5 int
	N7 int
}

// NewConstants derives the divisor constants for the (even) modulus nn.
func NewConstants(nn int) Constants {
	c := Constants{NN: nn, N2: nn / 2}
	if nn%3 == 0 {
		c.N3 = nn / 3
	}
	if nn%5 == 0 {
		c.N5 = nn / 5
	}
	if nn%7 == 0 {
		c.N7 = nn / 7
	}
	return c
}
