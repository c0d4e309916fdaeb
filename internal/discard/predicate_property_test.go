package discard

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/cassels/internal/cyclotomic"
)

// TestEvaluate_Purity_PropertyBased evaluates random tuples twice and checks
// that the verdict and the input are unchanged.
func TestEvaluate_Purity_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	tables := make(map[int]*cyclotomic.Table)
	for _, nn := range []int{14, 30, 70, 210} {
		table, err := cyclotomic.NewTable(nn)
		if err != nil {
			t.Fatal(err)
		}
		tables[nn] = table
	}

	properties.Property("Evaluate is deterministic and leaves the tuple intact", prop.ForAll(
		func(pick int, raw []int) bool {
			nn := []int{14, 30, 70, 210}[pick]
			l := make([]int, len(raw))
			for i, v := range raw {
				l[i] = v % nn
			}
			l[0] = 0
			before := slices.Clone(l)
			x := cyclotomic.Integer{Modulus: nn, Exponents: l, Table: tables[nn]}
			c := NewConstants(nn)
			first := Evaluate(x, c)
			second := Evaluate(x, c)
			return first == second && slices.Equal(before, l) && Discard(x, c) == (first != Keep)
		},
		gen.IntRange(0, 3),
		gen.SliceOfN(5, gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
