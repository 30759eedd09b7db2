package utils

import (
	"fmt"
	"math"
)

// Context factor names
const (
	FactorMotivation = "MOTIVATION"
	FactorForm       = "FORM"
	FactorHeadToHead = "H2H"
	FactorFatigue    = "FATIGUE"
	FactorMomentum   = "MOMENTUM"
)

// FactorWeights holds the weight of each contextual factor. Weights sum to 1.
type FactorWeights struct {
	Motivation float64 `yaml:"motivation"`
	Form       float64 `yaml:"form"`
	HeadToHead float64 `yaml:"head_to_head"`
	Fatigue    float64 `yaml:"fatigue"`
	Momentum   float64 `yaml:"momentum"`
}

// DefaultFactorWeights возвращает веса факторов по умолчанию
func DefaultFactorWeights() FactorWeights {
	return FactorWeights{
		Motivation: 0.20,
		Form:       0.30,
		HeadToHead: 0.15,
		Fatigue:    0.15,
		Momentum:   0.20,
	}
}

// Get возвращает вес фактора по имени
func (w FactorWeights) Get(factor string) float64 {
	switch factor {
	case FactorMotivation:
		return w.Motivation
	case FactorForm:
		return w.Form
	case FactorHeadToHead:
		return w.HeadToHead
	case FactorFatigue:
		return w.Fatigue
	case FactorMomentum:
		return w.Momentum
	default:
		return 0
	}
}

// Sum returns the total weight
func (w FactorWeights) Sum() float64 {
	return w.Motivation + w.Form + w.HeadToHead + w.Fatigue + w.Momentum
}

// Validate checks that weights are non-negative and sum to 1
func (w FactorWeights) Validate() error {
	for _, name := range []string{FactorMotivation, FactorForm, FactorHeadToHead, FactorFatigue, FactorMomentum} {
		v := w.Get(name)
		if math.IsNaN(v) || v < 0 {
			return fmt.Errorf("weight %s must be non-negative, got %v", name, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("factor weights must sum to 1, got %.4f", sum)
	}
	return nil
}
