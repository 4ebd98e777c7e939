package sla

import (
	"fmt"

	"github.com/spec-kit/sla-engine/internal/config"
	"github.com/spec-kit/sla-engine/internal/domain"
	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

// Policy maps issue priority to the expected business hours to resolution.
// Immutable after construction.
type Policy struct {
	thresholds map[domain.Priority]float64
}

// NewPolicy validates and builds a policy. Every threshold must be positive.
func NewPolicy(thresholds map[domain.Priority]float64) (*Policy, error) {
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("sla policy requires at least one priority threshold")
	}
	table := make(map[domain.Priority]float64, len(thresholds))
	for priority, hours := range thresholds {
		if hours <= 0 {
			return nil, fmt.Errorf("sla threshold for %s must be positive, got %v", priority, hours)
		}
		table[priority] = hours
	}
	return &Policy{thresholds: table}, nil
}

// PolicyFromConfig builds the policy from the configured hours table.
func PolicyFromConfig(cfg config.SlaConfig) (*Policy, error) {
	return NewPolicy(map[domain.Priority]float64{
		domain.PriorityHigh:   cfg.HighHours,
		domain.PriorityMedium: cfg.MediumHours,
		domain.PriorityLow:    cfg.LowHours,
	})
}

// DefaultPolicy returns the stock thresholds: High=24, Medium=72, Low=120.
func DefaultPolicy() *Policy {
	policy, err := NewPolicy(map[domain.Priority]float64{
		domain.PriorityHigh:   24,
		domain.PriorityMedium: 72,
		domain.PriorityLow:    120,
	})
	if err != nil {
		panic(err)
	}
	return policy
}

// ExpectedHours returns the threshold for the priority. Priorities outside the
// table fail with UNKNOWN_PRIORITY; there is no silent fallback.
func (p *Policy) ExpectedHours(priority domain.Priority) (float64, error) {
	hours, ok := p.thresholds[priority]
	if !ok {
		return 0, apperrors.NewUnknownPriority(string(priority))
	}
	return hours, nil
}
