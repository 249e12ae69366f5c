package tips

import (
	"fmt"

	"github.com/phrazzld/sprout/internal/domain/catalog"
)

// StaticTipCount is the number of lines Static always returns.
const StaticTipCount = 7

// Static derives care tips from catalog fields alone. It needs no network and
// always returns the same seven lines for the same entry, in this order:
// watering, lighting, soil, temperature, fertiliser, flowering, toxicity.
func Static(s catalog.Species) []string {
	return []string{
		"Watering: " + s.Watering,
		"Lighting: " + s.Lighting,
		"Soil: " + s.Soil,
		fmt.Sprintf("Temperature: %s °C", s.Temperature),
		fmt.Sprintf("Fertiliser: Use %s, apply %s", s.FertilizerType, s.FertilizerFrequency),
		fmt.Sprintf("Flowering: %s (%s)", s.Flowering, s.FloweringConditions),
		"Toxicity: " + s.Toxicity,
	}
}
