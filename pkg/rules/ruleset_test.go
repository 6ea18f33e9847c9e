package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectsConflictingRules(t *testing.T) {
	r := RuleSet{
		Weight:         WeightSpec{Kind: WeightMinutes},
		NodeWeightRule: ConnectorWeightRule{Kind: ConnectorLengthMultiplier, Value: 2},
	}
	assert.ErrorIs(t, r.Validate(), ErrRuleConflict)

	r2 := RuleSet{
		Weight:         WeightSpec{Kind: WeightLength},
		NodeWeightRule: ConnectorWeightRule{Kind: ConnectorSpeedKmh, Value: 30},
	}
	assert.ErrorIs(t, r2.Validate(), ErrRuleConflict)
}

func TestValidateAcceptsSensibleCombinations(t *testing.T) {
	r := RuleSet{Weight: WeightSpec{Kind: WeightLength}, NodeWeightRule: ConnectorWeightRule{Kind: ConnectorZero}}
	assert.NoError(t, r.Validate())
}

func TestFingerprintStableAndSensitive(t *testing.T) {
	a := RuleSet{Weight: WeightSpec{Kind: WeightLength}, SearchTolerance: 50, SearchFactor: 10}
	b := a
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.SearchTolerance = 51
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestConnectorWeightFormulas(t *testing.T) {
	r := RuleSet{NodeWeightRule: ConnectorWeightRule{Kind: ConnectorSpeedKmh, Value: 30}}
	// 30 km/h = 500 m/min; 1000m should take 2 minutes.
	assert.InDelta(t, 2.0, r.ConnectorWeight(1000), 1e-9)

	r2 := RuleSet{NodeWeightRule: ConnectorWeightRule{Kind: ConnectorLengthMultiplier, Value: 1.5}}
	assert.InDelta(t, 150.0, r2.ConnectorWeight(100), 1e-9)

	r3 := RuleSet{NodeWeightRule: ConnectorWeightRule{Kind: ConnectorZero}}
	assert.Equal(t, 0.0, r3.ConnectorWeight(1000))
}

func TestWeightSpecString(t *testing.T) {
	assert.Equal(t, "length", WeightSpec{Kind: WeightLength}.String())
	assert.Equal(t, "minutes", WeightSpec{Kind: WeightMinutes}.String())
	assert.Equal(t, "my_col", WeightSpec{Kind: WeightNamed, Column: "my_col"}.String())
}

func TestResolveWeightsRequiresColumnForNamedWeight(t *testing.T) {
	_, err := ResolveWeights(nil, WeightSpec{Kind: WeightNamed, Column: "cost"}, nil, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWeightColumnMissing)
}
