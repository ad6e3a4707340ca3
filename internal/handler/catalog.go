package handler

import (
	"net/http"
	"time"

	"dinarex/internal/domain"
	"dinarex/internal/pricing"
	"dinarex/pkg/cache"
	"dinarex/pkg/logger"
)

const catalogCacheKey = "catalog:v1"

// CatalogHandler serves the static price list, bank details, and the
// current bonus promotion to the storefront.
type CatalogHandler struct {
	catalog *pricing.Catalog
	bank    domain.BankDetails
	bonus   *domain.BonusConfig
	cache   *cache.RedisCache
	logger  logger.Logger
}

func NewCatalogHandler(catalog *pricing.Catalog, bank domain.BankDetails, bonus *domain.BonusConfig, c *cache.RedisCache, log logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, bank: bank, bonus: bonus, cache: c, logger: log}
}

type catalogResponse struct {
	Options     []domain.CurrencyOption `json:"options"`
	BankDetails domain.BankDetails      `json:"bankDetails"`
	Bonus       *domain.BonusConfig     `json:"bonus,omitempty"`
}

// Get returns the catalog, cached for a minute to keep the storefront's
// polling cheap.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		var cached catalogResponse
		if err := h.cache.Get(r.Context(), catalogCacheKey, &cached); err == nil {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	resp := catalogResponse{
		Options:     h.catalog.Options(),
		BankDetails: h.bank,
		Bonus:       h.bonus,
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), catalogCacheKey, resp, time.Minute); err != nil {
			h.logger.Warn("Failed to cache catalog", map[string]interface{}{"error": err.Error()})
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
