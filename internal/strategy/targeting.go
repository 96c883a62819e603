package strategy

import (
	"rfmpulse/internal/dataprocessing"
	"rfmpulse/pkg/contracts/domain"
)

// NoTargetAge is returned when no ads row matches the product
const NoTargetAge = "All Ages (General)"

// TargetAge returns the age bucket with the most purchases across the ads rows
// whose cleaned campaign name equals the cleaned product name.
func TargetAge(product string, ads []domain.AdRecord) string {
	name := dataprocessing.NormalizeName(product)
	if name == "" {
		return NoTargetAge
	}

	purchases := make(map[string]int64)
	for _, ad := range ads {
		if ad.CampaignClean != name {
			continue
		}
		purchases[ad.AgeBucket] += ad.Purchases
	}
	if len(purchases) == 0 {
		return NoTargetAge
	}
	return maxKey(purchases)
}
