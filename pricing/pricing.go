package pricing

import (
	"encoding/json"
	"fmt"
	"os"
)

// defaultFeatureMap mirrors the product catalog: which features each price
// grants. Overridable at runtime with a JSON file.
var defaultFeatureMap = map[string][]string{
	"price_pro_monthly":   {"pro", "api_access", "priority_support"},
	"price_pro_yearly":    {"pro", "api_access", "priority_support"},
	"price_basic_monthly": {"basic"},
	"price_basic_yearly":  {"basic"},
}

// FeatureMap resolves a provider price ID to the features it grants.
type FeatureMap struct {
	features map[string][]string
}

// Default returns the built-in price catalog.
func Default() *FeatureMap {
	return &FeatureMap{features: defaultFeatureMap}
}

// Load reads a price-to-features map from a JSON file. An empty path
// returns the built-in map.
func Load(path string) (*FeatureMap, error) {
	if path == "" {
		return Default(), nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feature map: %w", err)
	}
	var features map[string][]string
	if err := json.Unmarshal(body, &features); err != nil {
		return nil, fmt.Errorf("parse feature map %s: %w", path, err)
	}
	return &FeatureMap{features: features}, nil
}

// FeaturesFor returns the features granted by a price, or nil for an
// unknown price.
func (m *FeatureMap) FeaturesFor(priceID string) []string {
	return m.features[priceID]
}
