// Package metrics computes per-timestep consciousness proxy metrics from the
// active agent population and handles their serialization.
package metrics

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// Placeholder sub-metrics. Behavioral diversity and exploitation efficiency
// need clustering over movement traces and resource-visit accounting that the
// baseline rule set cannot feed yet; downstream consumers already depend on
// the record schema, so the fields stay populated with fixed values.
const (
	BehavioralDiversity    = 0.5
	ExploitationEfficiency = 0.8
)

// Sample is the per-agent input to Compute: one entry per ACTIVE agent,
// in population order.
type Sample struct {
	VelX, VelY      float64
	SignalsReceived int
}

// Record is one timestep's metrics snapshot. Field names in the csv and json
// tags are the output contract and must not change. A degenerate record (no
// active agents) carries all five metric fields as 0.0 and leaves timestep
// and n_active at their zero values, omitted from JSON.
type Record struct {
	Timestep               int     `csv:"timestep" json:"timestep,omitempty"`
	InformationFlow        float64 `csv:"information_flow" json:"information_flow"`
	GroupCoherence         float64 `csv:"group_coherence" json:"group_coherence"`
	BehavioralDiversity    float64 `csv:"behavioral_diversity" json:"behavioral_diversity"`
	ExploitationEfficiency float64 `csv:"exploitation_efficiency" json:"exploitation_efficiency"`
	ConsciousnessScore     float64 `csv:"consciousness_score" json:"consciousness_score"`
	NActive                int     `csv:"n_active" json:"n_active,omitempty"`
}

// LogValue implements slog.LogValuer for structured logging.
func (r Record) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("timestep", r.Timestep),
		slog.Float64("information_flow", r.InformationFlow),
		slog.Float64("group_coherence", r.GroupCoherence),
		slog.Float64("behavioral_diversity", r.BehavioralDiversity),
		slog.Float64("exploitation_efficiency", r.ExploitationEfficiency),
		slog.Float64("consciousness_score", r.ConsciousnessScore),
		slog.Int("n_active", r.NActive),
	)
}

// Compute produces the metrics record for one timestep from the active-agent
// samples. It is a pure function: identical samples yield bit-identical
// records.
//
// information_flow is the fraction of active agents that received at least
// one signal. group_coherence is 1 minus the mean over axes of the population
// standard deviation of velocity components, clamped to [0, 1]; values of
// exactly 0 or 1 are valid. consciousness_score is the arithmetic mean of the
// four sub-metrics.
func Compute(timestep int, samples []Sample) Record {
	nActive := len(samples)
	if nActive == 0 {
		return Record{}
	}

	signaled := 0
	velX := make([]float64, nActive)
	velY := make([]float64, nActive)
	for i, s := range samples {
		if s.SignalsReceived > 0 {
			signaled++
		}
		velX[i] = s.VelX
		velY[i] = s.VelY
	}

	infoFlow := float64(signaled) / float64(nActive)

	// Population (not sample) standard deviation per axis, averaged.
	spread := stat.Mean([]float64{
		stat.PopStdDev(velX, nil),
		stat.PopStdDev(velY, nil),
	}, nil)
	coherence := clamp(1.0-spread, 0, 1)

	score := (infoFlow + coherence + BehavioralDiversity + ExploitationEfficiency) / 4.0

	return Record{
		Timestep:               timestep,
		InformationFlow:        infoFlow,
		GroupCoherence:         coherence,
		BehavioralDiversity:    BehavioralDiversity,
		ExploitationEfficiency: ExploitationEfficiency,
		ConsciousnessScore:     score,
		NActive:                nActive,
	}
}

// clamp clamps x to [min, max].
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
