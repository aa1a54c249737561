package llm

import (
	"errors"
	"fmt"
)

// Bounds for generation parameters.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0

	MinMaxTokens = 50
	MaxMaxTokens = 1000

	MinTopP = 0.0
	MaxTopP = 1.0

	MinTopK = 1
	MaxTopK = 100

	MinPenalty = -2.0
	MaxPenalty = 2.0
)

// Params are the sampling parameters forwarded verbatim to the endpoint.
type Params struct {
	Temperature      float64 `json:"temperature"`
	MaxTokens        int     `json:"maxTokens"`
	TopP             float64 `json:"topP"`
	TopK             *int    `json:"topK,omitempty"`
	FrequencyPenalty float64 `json:"frequencyPenalty"`
	PresencePenalty  float64 `json:"presencePenalty"`
}

func DefaultParams() Params {
	return Params{
		Temperature:      0.5,
		MaxTokens:        512,
		TopP:             0.9,
		FrequencyPenalty: 0.5,
		PresencePenalty:  0.5,
	}
}

// Validate rejects any field outside its bounds.
func (p Params) Validate() error {
	var errs []error
	if !inRange(p.Temperature, MinTemperature, MaxTemperature) {
		errs = append(errs, fmt.Errorf("temperature %v outside [%v, %v]", p.Temperature, MinTemperature, MaxTemperature))
	}
	if !inRange(p.MaxTokens, MinMaxTokens, MaxMaxTokens) {
		errs = append(errs, fmt.Errorf("max tokens %d outside [%d, %d]", p.MaxTokens, MinMaxTokens, MaxMaxTokens))
	}
	if !inRange(p.TopP, MinTopP, MaxTopP) {
		errs = append(errs, fmt.Errorf("top-p %v outside [%v, %v]", p.TopP, MinTopP, MaxTopP))
	}
	if p.TopK != nil && !inRange(*p.TopK, MinTopK, MaxTopK) {
		errs = append(errs, fmt.Errorf("top-k %d outside [%d, %d]", *p.TopK, MinTopK, MaxTopK))
	}
	if !inRange(p.FrequencyPenalty, MinPenalty, MaxPenalty) {
		errs = append(errs, fmt.Errorf("frequency penalty %v outside [%v, %v]", p.FrequencyPenalty, MinPenalty, MaxPenalty))
	}
	if !inRange(p.PresencePenalty, MinPenalty, MaxPenalty) {
		errs = append(errs, fmt.Errorf("presence penalty %v outside [%v, %v]", p.PresencePenalty, MinPenalty, MaxPenalty))
	}
	return errors.Join(errs...)
}

// Clamp pulls every field into its bounds.
func (p Params) Clamp() Params {
	p.Temperature = clamp(p.Temperature, MinTemperature, MaxTemperature)
	p.MaxTokens = clamp(p.MaxTokens, MinMaxTokens, MaxMaxTokens)
	p.TopP = clamp(p.TopP, MinTopP, MaxTopP)
	if p.TopK != nil {
		k := clamp(*p.TopK, MinTopK, MaxTopK)
		p.TopK = &k
	}
	p.FrequencyPenalty = clamp(p.FrequencyPenalty, MinPenalty, MaxPenalty)
	p.PresencePenalty = clamp(p.PresencePenalty, MinPenalty, MaxPenalty)
	return p
}

// inRange is false for NaN.
func inRange[T int | float64](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

// clamp maps NaN to lo.
func clamp[T int | float64](v, lo, hi T) T {
	if v != v {
		return lo
	}
	return min(max(v, lo), hi)
}
