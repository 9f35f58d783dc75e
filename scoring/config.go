package scoring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/poiesic/skillsearch/core"
)

// LabelRange maps a half-open expertise interval [Min, Max) to a label.
type LabelRange struct {
	Min   float64
	Max   float64
	Label string
}

// Config holds the scoring parameters. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// Multipliers weight each proficiency rating. The spread between
	// Beginner and Advanced is deliberately wide so expertise separates
	// users with similar coverage.
	Multipliers map[core.Rating]float64

	// Labels translate the expertise dimension into a human-readable
	// band. Ranges are half-open and must be sorted ascending.
	Labels []LabelRange

	// FallbackLabel is used when expertise falls outside every range.
	FallbackLabel string

	// MinSimilarity drops index hits below this cosine similarity before
	// scoring; weak matches add noise faster than signal.
	MinSimilarity float64

	// DisplayScale is the display score of the top-ranked user.
	DisplayScale float64
}

// DefaultConfig returns the standard scoring parameters.
func DefaultConfig() *Config {
	return &Config{
		Multipliers: map[core.Rating]float64{
			core.RatingBeginner:     1.0,
			core.RatingIntermediate: 3.0,
			core.RatingAdvanced:     6.0,
		},
		Labels: []LabelRange{
			{Min: 1.0, Max: 1.5, Label: "Beginner"},
			{Min: 1.5, Max: 2.5, Label: "Early Career"},
			{Min: 2.5, Max: 4.0, Label: "Intermediate"},
			{Min: 4.0, Max: 5.0, Label: "Advanced"},
			{Min: 5.0, Max: 6.1, Label: "Expert"},
		},
		FallbackLabel: "Expert",
		MinSimilarity: 0.35,
		DisplayScale:  100.0,
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if len(c.Multipliers) == 0 {
		return errors.New("scoring config: Multipliers are required")
	}
	for r, m := range c.Multipliers {
		if m <= 0 {
			return fmt.Errorf("scoring config: multiplier for %s must be positive", r)
		}
	}
	if len(c.Labels) == 0 {
		return errors.New("scoring config: Labels are required")
	}
	if !sort.SliceIsSorted(c.Labels, func(i, j int) bool {
		return c.Labels[i].Min < c.Labels[j].Min
	}) {
		return errors.New("scoring config: Labels must be sorted by Min")
	}
	for _, lr := range c.Labels {
		if lr.Max <= lr.Min {
			return fmt.Errorf("scoring config: label %q has empty range", lr.Label)
		}
	}
	if c.MinSimilarity < 0 || c.MinSimilarity >= 1 {
		return errors.New("scoring config: MinSimilarity must be in [0, 1)")
	}
	if c.DisplayScale <= 0 {
		return errors.New("scoring config: DisplayScale must be positive")
	}
	return nil
}

// multiplier returns the weight for a rating. Unknown ratings weigh as
// Beginner rather than failing, since profile data arrives from outside.
func (c *Config) multiplier(r core.Rating) float64 {
	if m, ok := c.Multipliers[r]; ok {
		return m
	}
	return c.Multipliers[core.RatingBeginner]
}

// Label returns the band label for an expertise value.
func (c *Config) Label(expertise float64) string {
	for _, lr := range c.Labels {
		if expertise >= lr.Min && expertise < lr.Max {
			return lr.Label
		}
	}
	return c.FallbackLabel
}
