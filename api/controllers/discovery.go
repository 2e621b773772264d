package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mercadoperto/mercadoperto-backend/api/responses"
	"github.com/mercadoperto/mercadoperto-backend/internal/discovery"
	"github.com/mercadoperto/mercadoperto-backend/pkg/config"
	"github.com/mercadoperto/mercadoperto-backend/pkg/enums"
	"github.com/mercadoperto/mercadoperto-backend/pkg/logger"
	"github.com/mercadoperto/mercadoperto-backend/pkg/pagination"
	"github.com/mercadoperto/mercadoperto-backend/pkg/params"
)

// Discovery query parameters are parsed tolerantly: malformed values fall
// back to documented defaults instead of rejecting the request. Read-only
// traffic favors availability over strictness.

func DiscoveryFeed(svc discovery.Service, cfg config.DiscoveryConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		input := discovery.FeedInput{
			Origin:   params.Origin(q.Get("lat"), q.Get("lng")),
			RadiusKm: params.PositiveFloat(q.Get("radius_km"), cfg.DefaultRadiusKm),
			Limit:    params.PositiveInt(q.Get("limit"), cfg.FeedLimit),
		}

		feed, err := svc.Feed(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, feed)
	}
}

func DiscoveryStoreSearch(svc discovery.Service, cfg config.DiscoveryConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		input := discovery.StoreSearchInput{
			Name:     params.Text(q.Get("name")),
			Address:  params.Text(q.Get("address")),
			Category: params.Text(q.Get("category")),
			Sort:     enums.SortModeOrDefault(q.Get("sort")),
			Origin:   params.Origin(q.Get("lat"), q.Get("lng")),
			RadiusKm: params.PositiveFloat(q.Get("radius_km"), cfg.DefaultRadiusKm),
			Page:     pageParams(q.Get("page"), q.Get("limit"), cfg),
		}

		page, err := svc.SearchStores(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func DiscoveryProductSearch(svc discovery.Service, cfg config.DiscoveryConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		input := discovery.ProductSearchInput{
			Search: params.Text(q.Get("search")),
			Active: params.TriState(q.Get("active")),
			Page:   pageParams(q.Get("page"), q.Get("limit"), cfg),
		}
		if id, err := uuid.Parse(q.Get("store_id")); err == nil {
			input.StoreID = &id
		}

		page, err := svc.SearchProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func pageParams(pageRaw, limitRaw string, cfg config.DiscoveryConfig) pagination.Params {
	limit := params.PositiveInt(limitRaw, cfg.PageLimit)
	if limit > cfg.MaxPageLimit {
		limit = cfg.MaxPageLimit
	}
	return pagination.Params{
		Page:  params.PositiveInt(pageRaw, pagination.DefaultPage),
		Limit: limit,
	}
}
