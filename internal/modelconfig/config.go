package modelconfig

import "github.com/wonny/proptier/internal/contracts"

// Config is the full scoring model: sub-score tables and tiering policy
// Weights: Location 40%, PropertyType 20%, Valuation 30%, Volatility 10%
type Config struct {
	Meta         Meta         `yaml:"meta" json:"meta"`
	Location     Location     `yaml:"location" json:"location"`
	PropertyType PropertyType `yaml:"property_type" json:"property_type"`
	Valuation    Valuation    `yaml:"valuation" json:"valuation"`
	Volatility   Volatility   `yaml:"volatility" json:"volatility"`
	Tiering      Tiering      `yaml:"tiering" json:"tiering"`
}

// Meta identifies the model
type Meta struct {
	ModelID string `yaml:"model_id" json:"model_id" validate:"required"`
	Version string `yaml:"version" json:"version" validate:"required"`
}

// Location scores the area: decile × multiplier
type Location struct {
	Multiplier    int `yaml:"multiplier" json:"multiplier" validate:"gt=0"`
	NeutralDecile int `yaml:"neutral_decile" json:"neutral_decile" validate:"min=1,max=10"`
}

// PropertyType scores the Land Registry property type code
type PropertyType struct {
	Scores       map[string]int `yaml:"scores" json:"scores" validate:"required,dive,keys,oneof=D S T F,endkeys,gte=0"`
	DefaultScore int            `yaml:"default_score" json:"default_score" validate:"gte=0"`
}

// Valuation maps price quantile bands to scores, lowest band first
type Valuation struct {
	Bands []int `yaml:"bands" json:"bands" validate:"required,len=5,dive,gte=0"`
}

// Volatility is a constant placeholder until price history is available
type Volatility struct {
	Constant int `yaml:"constant" json:"constant" validate:"gte=0"`
}

// Tiering policy for repeated composite-score quantile edges
type Tiering struct {
	OnDuplicateEdges string `yaml:"on_duplicate_edges" json:"on_duplicate_edges" validate:"oneof=collapse error"`
}

const (
	DuplicateEdgesCollapse = "collapse"
	DuplicateEdgesError    = "error"
)

// Default returns the published model
func Default() *Config {
	return &Config{
		Meta: Meta{
			ModelID: "uk_property_tier",
			Version: "1.0",
		},
		Location: Location{
			Multiplier:    4,
			NeutralDecile: contracts.NeutralDecile,
		},
		PropertyType: PropertyType{
			Scores: map[string]int{
				string(contracts.PropertyDetached):     20,
				string(contracts.PropertySemiDetached): 15,
				string(contracts.PropertyTerraced):     10,
				string(contracts.PropertyFlat):         5,
			},
			DefaultScore: 10,
		},
		Valuation: Valuation{
			Bands: []int{6, 12, 18, 24, 30},
		},
		Volatility: Volatility{
			Constant: 10,
		},
		Tiering: Tiering{
			OnDuplicateEdges: DuplicateEdgesCollapse,
		},
	}
}

// PropertyTypeScore returns the score for a property type, or the default
func (c *Config) PropertyTypeScore(p contracts.PropertyType) int {
	if score, ok := c.PropertyType.Scores[string(p)]; ok {
		return score
	}
	return c.PropertyType.DefaultScore
}

// MaxComposite returns the highest reachable composite score
func (c *Config) MaxComposite() int {
	maxType := c.PropertyType.DefaultScore
	for _, s := range c.PropertyType.Scores {
		if s > maxType {
			maxType = s
		}
	}
	return contracts.MaxDecile*c.Location.Multiplier + maxType +
		c.Valuation.Bands[len(c.Valuation.Bands)-1] + c.Volatility.Constant
}

// MinComposite returns the lowest reachable composite score
func (c *Config) MinComposite() int {
	minType := c.PropertyType.DefaultScore
	for _, s := range c.PropertyType.Scores {
		if s < minType {
			minType = s
		}
	}
	return contracts.MinDecile*c.Location.Multiplier + minType +
		c.Valuation.Bands[0] + c.Volatility.Constant
}
