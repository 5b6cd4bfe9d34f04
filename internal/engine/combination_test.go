package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateCombinations_Scenario(t *testing.T) {
	e := newTestEngine(t)
	a := scheme("a", "RVO", 5000, 80, 100, "heat_pump")
	b := scheme("b", "Gemeente Utrecht", 3000, 80, 100, "insulation")

	combos := e.EnumerateCombinations([]Scheme{a, b})
	require.Len(t, combos, 3)

	assert.Equal(t, 5000.0, combos[0].TotalAmount)
	assert.Equal(t, ComplexityLow, combos[0].Complexity)
	assert.Equal(t, 0.85, combos[0].SuccessProbability)
	assert.Equal(t, "6-8 weeks", combos[0].ProcessingTime)
	assert.Equal(t, 3000.0, combos[1].TotalAmount)

	pair := combos[2]
	assert.Equal(t, 8000.0, pair.TotalAmount)
	assert.Equal(t, ComplexityMedium, pair.Complexity)
	assert.Equal(t, 0.70, pair.SuccessProbability)
	assert.Equal(t, "8-12 weeks", pair.ProcessingTime)
	assert.Equal(t, []string{"heat_pump", "insulation"}, pair.Measures)
}

func TestEnumerateCombinations_SharedProviderNeverPairs(t *testing.T) {
	e := newTestEngine(t)
	a := scheme("a", "RVO", 5000, 80, 100, "heat_pump")
	b := scheme("b", "Gemeente Utrecht", 3000, 80, 100, "insulation")
	c := scheme("c", "RVO", 2000, 80, 100, "solar_panels")

	combos := e.EnumerateCombinations([]Scheme{a, b, c})

	singles, pairs := 0, 0
	for _, combo := range combos {
		switch len(combo.Schemes) {
		case 1:
			singles++
		case 2:
			pairs++
			got := []string{combo.Schemes[0].ID, combo.Schemes[1].ID}
			assert.NotEqual(t, []string{"a", "c"}, got)
		default:
			t.Fatalf("unexpected combination size %d", len(combo.Schemes))
		}
	}
	assert.Equal(t, 3, singles)
	assert.Equal(t, 2, pairs)
}

func TestEnumerateCombinations_CompatibilityInvariant(t *testing.T) {
	e := newTestEngine(t)
	pool := []Scheme{
		scheme("1", "RVO", 5000, 80, 100, "heat_pump", "insulation"),
		scheme("2", "RVO", 4000, 80, 100, "solar_panels"),
		scheme("3", "Gemeente", 3000, 80, 100, "insulation"),
		scheme("4", "Provincie", 2500, 80, 100, "glazing"),
		scheme("5", "rvo", 1500, 80, 100, "ventilation"),
		scheme("6", "Gemeente", 1000, 80, 100, "Glazing"),
	}

	combos := e.EnumerateCombinations(pool)

	singles := 0
	for _, combo := range combos {
		require.LessOrEqual(t, len(combo.Schemes), 2)
		if len(combo.Schemes) == 1 {
			singles++
			continue
		}
		x, y := combo.Schemes[0], combo.Schemes[1]
		assert.True(t, Compatible(x, y), "%s+%s violates compatibility", x.ID, y.ID)
		assert.NotEqual(t, normalizeTag(x.Provider), normalizeTag(y.Provider))
		assert.False(t, intersects(x.Measures, tagSet(y.Measures)))
		assert.Equal(t, x.MaxAmount+y.MaxAmount, combo.TotalAmount)
	}
	assert.Equal(t, len(pool), singles)
}

func TestCompatible(t *testing.T) {
	base := scheme("a", "RVO", 1, 80, 100, "heat_pump")

	assert.True(t, Compatible(base, scheme("b", "Gemeente", 1, 80, 100, "insulation")))
	assert.False(t, Compatible(base, scheme("b", "Gemeente", 1, 80, 100, "heat_pump")))
	assert.False(t, Compatible(base, scheme("b", "RVO", 1, 80, 100, "insulation")))
	assert.False(t, Compatible(base, scheme("b", " rvo ", 1, 80, 100, "insulation")))
}

func TestEnumerateCombinations_Empty(t *testing.T) {
	e := newTestEngine(t)
	assert.Empty(t, e.EnumerateCombinations(nil))
}
