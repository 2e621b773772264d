// Package pricing resolves the effective price of a catalog item: the
// currently valid promotional price when one applies, the base price
// otherwise.
package pricing

import (
	"strings"
	"time"

	"github.com/mercadoperto/mercadoperto-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ActivePromotion returns the promotion in effect at asOf, or nil.
//
// A promotion applies when asOf falls inside [StartsOn, EndsOn], inclusive on
// both ends and compared at date granularity. Among applicable promotions the
// one with the latest start date wins; promotions sharing that start date are
// tie-broken by the greatest ID, so the result never depends on slice order.
func ActivePromotion(promos []models.ProductPromotion, asOf time.Time) *models.ProductPromotion {
	day := dateOf(asOf)

	var winner *models.ProductPromotion
	for i := range promos {
		promo := &promos[i]
		if day.Before(dateOf(promo.StartsOn)) || day.After(dateOf(promo.EndsOn)) {
			continue
		}
		if winner == nil {
			winner = promo
			continue
		}
		switch {
		case dateOf(promo.StartsOn).After(dateOf(winner.StartsOn)):
			winner = promo
		case dateOf(promo.StartsOn).Equal(dateOf(winner.StartsOn)) &&
			strings.Compare(promo.ID.String(), winner.ID.String()) > 0:
			winner = promo
		}
	}
	return winner
}

// Effective resolves the price of an item at asOf given its promotions.
func Effective(basePrice decimal.Decimal, promos []models.ProductPromotion, asOf time.Time) decimal.Decimal {
	if promo := ActivePromotion(promos, asOf); promo != nil {
		return promo.Price
	}
	return basePrice
}

func dateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
