package discovery

import (
	"sort"
	"strings"

	"github.com/mercadoperto/mercadoperto-backend/pkg/enums"
)

// rankStores orders rows in place for the given sort mode. Every mode ends
// in name then id comparisons, so a fixed input always yields the same
// ordering.
func rankStores(rows []StoreRow, mode enums.SortMode) {
	sort.Slice(rows, func(i, j int) bool {
		return compareStores(rows[i], rows[j], mode) < 0
	})
}

func compareStores(a, b StoreRow, mode enums.SortMode) int {
	var chain []func(a, b StoreRow) int
	switch mode {
	case enums.SortModeRating:
		chain = []func(a, b StoreRow) int{compareRating}
	case enums.SortModeOrders:
		chain = []func(a, b StoreRow) int{compareOrders}
	case enums.SortModeName:
		chain = nil
	default: // relevance and distance share one chain; without an origin
		// every distance is nil and the rating keys decide.
		chain = []func(a, b StoreRow) int{compareDistance, compareRating, compareRatingCount}
	}
	for _, cmp := range chain {
		if c := cmp(a, b); c != 0 {
			return c
		}
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

// compareDistance sorts ascending with nil distances last.
func compareDistance(a, b StoreRow) int {
	switch {
	case a.DistanceKm == nil && b.DistanceKm == nil:
		return 0
	case a.DistanceKm == nil:
		return 1
	case b.DistanceKm == nil:
		return -1
	case *a.DistanceKm < *b.DistanceKm:
		return -1
	case *a.DistanceKm > *b.DistanceKm:
		return 1
	}
	return 0
}

// compareRating sorts descending by average, with unrated stores in a tier
// below every rated store no matter the averages.
func compareRating(a, b StoreRow) int {
	aRated := a.RatingCount > 0
	bRated := b.RatingCount > 0
	switch {
	case aRated && !bRated:
		return -1
	case !aRated && bRated:
		return 1
	case a.RatingAvg > b.RatingAvg:
		return -1
	case a.RatingAvg < b.RatingAvg:
		return 1
	}
	return 0
}

func compareRatingCount(a, b StoreRow) int {
	switch {
	case a.RatingCount > b.RatingCount:
		return -1
	case a.RatingCount < b.RatingCount:
		return 1
	}
	return 0
}

func compareOrders(a, b StoreRow) int {
	switch {
	case a.OrderCount > b.OrderCount:
		return -1
	case a.OrderCount < b.OrderCount:
		return 1
	}
	return 0
}
