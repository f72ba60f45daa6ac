// Package abtest implements deterministic traffic splitting for template
// variants. The same visitor always lands on the same variant for a given
// test, with no per-visitor state.
package abtest

import (
	"fmt"
	"hash/fnv"

	"github.com/bitquan/Stayboost-sub003/internal/model"
)

// PickVariant chooses a variant by hashing test id + visitor id over the
// cumulative variant weights. Returns nil when the variant set is empty or
// carries no weight.
func PickVariant(testID int, visitorID string, variants []model.ABVariant) *model.ABVariant {
	total := 0
	for _, v := range variants {
		if v.Weight > 0 {
			total += v.Weight
		}
	}
	if total == 0 {
		return nil
	}

	h := fnv.New32a()
	fmt.Fprintf(h, "%d:%s", testID, visitorID)
	bucket := int(h.Sum32() % uint32(total))

	for i := range variants {
		if variants[i].Weight <= 0 {
			continue
		}
		if bucket < variants[i].Weight {
			return &variants[i]
		}
		bucket -= variants[i].Weight
	}
	return nil
}
