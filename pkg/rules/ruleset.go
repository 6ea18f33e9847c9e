// Package rules holds the Rule Set value type and the Weight Validator
// (C8): resolving a weight column into per-edge costs, and validating
// combinations that don't make sense together.
package rules

import (
	"fmt"
	"hash/fnv"
)

// WeightKind tags the source of an edge's cost, replacing a "kind string"
// dispatch with an explicit variant.
type WeightKind int

const (
	WeightLength WeightKind = iota
	WeightMinutes
	WeightNamed
)

// WeightSpec names the edge cost column, or the literal meaning "use
// geometric length".
type WeightSpec struct {
	Kind   WeightKind
	Column string // only meaningful when Kind == WeightNamed
}

func (w WeightSpec) String() string {
	switch w.Kind {
	case WeightLength:
		return "length"
	case WeightMinutes:
		return "minutes"
	default:
		return w.Column
	}
}

// ConnectorKind tags the formula used to price a connector edge.
type ConnectorKind int

const (
	ConnectorZero ConnectorKind = iota
	ConnectorSpeedKmh
	ConnectorLengthMultiplier
)

// ConnectorWeightRule is the node_weight_rule tagged variant.
type ConnectorWeightRule struct {
	Kind  ConnectorKind
	Value float64 // speed in km/h, or a length multiplier, depending on Kind
}

// RuleSet is the value-typed configuration consumed by the Point Connector
// and Graph Compiler.
type RuleSet struct {
	Weight          WeightSpec
	SearchTolerance float64
	SearchFactor    float64
	SplitLines      bool
	NodeWeightRule  ConnectorWeightRule
}

// Validate checks for combinations the Design Notes flag as nonsensical:
// length-multiplier with a minutes weight, or speed-kmh with a length
// weight.
func (r RuleSet) Validate() error {
	switch {
	case r.NodeWeightRule.Kind == ConnectorLengthMultiplier && r.Weight.Kind == WeightMinutes:
		return fmt.Errorf("rules: length-multiplier connector rule with minutes weight: %w", ErrRuleConflict)
	case r.NodeWeightRule.Kind == ConnectorSpeedKmh && r.Weight.Kind == WeightLength:
		return fmt.Errorf("rules: speed-kmh connector rule with length weight: %w", ErrRuleConflict)
	}
	return nil
}

// Fingerprint is a content hash of every field that participates in the
// Graph Compiler's cache key (§4.6), replacing a "rules stored twice"
// change-detection scheme with a recomputed hash.
func (r RuleSet) Fingerprint() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s|%v|%v|%v|%d|%v",
		r.Weight.Kind, r.Weight.Column,
		r.SearchTolerance, r.SearchFactor, r.SplitLines,
		r.NodeWeightRule.Kind, r.NodeWeightRule.Value,
	)
	return h.Sum64()
}

// ConnectorWeight implements the connector weight function from §4.8.
// distance is the Euclidean distance in CRS units (meters).
func (r RuleSet) ConnectorWeight(distance float64) float64 {
	switch r.NodeWeightRule.Kind {
	case ConnectorSpeedKmh:
		metersPerMinute := r.NodeWeightRule.Value * 1000 / 60
		return distance / metersPerMinute
	case ConnectorLengthMultiplier:
		return distance * r.NodeWeightRule.Value
	default:
		return 0
	}
}
