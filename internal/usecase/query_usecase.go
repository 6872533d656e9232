package usecase

import (
	"context"
	"sort"
	"strings"

	"usedmarket/internal/domain/entity"
	"usedmarket/internal/domain/repository"
	"usedmarket/pkg/errors"
)

// ProductListCacheKey caches the sorted full product list; catalog and
// sales writes invalidate it.
const ProductListCacheKey = "query:usedProducts:recent"

// QueryUseCase is the read side: full-collection reads, filtered and
// sorted in memory. Collections are assumed to fit in memory; there is no
// server-side filtering or ordering.
type QueryUseCase struct {
	store repository.ProjectionStore
	cache ListCache
}

func NewQueryUseCase(store repository.ProjectionStore, cache ListCache) *QueryUseCase {
	if cache == nil {
		cache = noopCache{}
	}

	return &QueryUseCase{
		store: store,
		cache: cache,
	}
}

// SearchProducts returns products whose name contains text
// case-insensitively, in storage (key) order. Products without a name
// never match, not even the empty query.
func (uc *QueryUseCase) SearchProducts(ctx context.Context, text string) ([]entity.Product, error) {
	all, err := uc.readAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(text)
	matches := make([]entity.Product, 0, len(all))
	for _, product := range all {
		if product.Name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(product.Name), needle) {
			matches = append(matches, product)
		}
	}
	return matches, nil
}

// ListProducts returns every product, newest first. The result is cached
// briefly; writers invalidate.
func (uc *QueryUseCase) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var cached []entity.Product
	if uc.cache.GetJSON(ctx, ProductListCacheKey, &cached) {
		return cached, nil
	}

	products, err := uc.readAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	uc.cache.SetJSON(ctx, ProductListCacheKey, products)
	return products, nil
}

func (uc *QueryUseCase) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	var product entity.Product
	if err := uc.store.Get(ctx, repository.ProductPath(productID), &product); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Product", nil)
		}
		return nil, err
	}
	return &product, nil
}

func (uc *QueryUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	var user entity.User
	if err := uc.store.Get(ctx, repository.UserPath(userID), &user); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("User", nil)
		}
		return nil, err
	}
	return &user, nil
}

func (uc *QueryUseCase) GetThread(ctx context.Context, threadID string) (*entity.MessageThread, error) {
	var thread entity.MessageThread
	if err := uc.store.Get(ctx, repository.ThreadPath(threadID), &thread); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Thread", nil)
		}
		return nil, err
	}
	thread.ID = threadID
	return &thread, nil
}

// ListPurchases returns the buyer's purchase records, newest first.
func (uc *QueryUseCase) ListPurchases(ctx context.Context, buyerID string) ([]entity.Purchase, error) {
	var raw map[string]entity.Purchase
	if err := uc.store.Get(ctx, repository.PurchaseListPath(buyerID), &raw); err != nil {
		if errors.IsNotFound(err) {
			return []entity.Purchase{}, nil
		}
		return nil, err
	}

	purchases := make([]entity.Purchase, 0, len(raw))
	for _, p := range raw {
		purchases = append(purchases, p)
	}
	sort.SliceStable(purchases, func(i, j int) bool {
		return purchases[i].CreatedAt.After(purchases[j].CreatedAt)
	})
	return purchases, nil
}

// ListSellerListings returns the seller's inventory entries, newest first.
func (uc *QueryUseCase) ListSellerListings(ctx context.Context, sellerID string) ([]entity.SellerListing, error) {
	var raw map[string]entity.SellerListing
	if err := uc.store.Get(ctx, repository.SellerListPath(sellerID), &raw); err != nil {
		if errors.IsNotFound(err) {
			return []entity.SellerListing{}, nil
		}
		return nil, err
	}

	listings := make([]entity.SellerListing, 0, len(raw))
	for _, l := range raw {
		listings = append(listings, l)
	}
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].UploadDate.After(listings[j].UploadDate)
	})
	return listings, nil
}

// readAllProducts reads the whole usedProducts collection in key order.
// The store hands back an unordered map, so storage order is recovered by
// sorting the keys.
func (uc *QueryUseCase) readAllProducts(ctx context.Context) ([]entity.Product, error) {
	var raw map[string]entity.Product
	if err := uc.store.Get(ctx, repository.ProductsRoot, &raw); err != nil {
		if errors.IsNotFound(err) {
			return []entity.Product{}, nil
		}
		return nil, err
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	products := make([]entity.Product, 0, len(keys))
	for _, key := range keys {
		products = append(products, raw[key])
	}
	return products, nil
}
