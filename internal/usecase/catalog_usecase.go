package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"usedmarket/internal/domain/entity"
	"usedmarket/internal/domain/repository"
	"usedmarket/internal/infrastructure/events"
	"usedmarket/internal/infrastructure/lock"
	"usedmarket/pkg/errors"
	"usedmarket/pkg/logger"
)

// CatalogUseCase owns the product listing lifecycle. Every mutation is one
// atomic multi-path write covering the product, its seller-listing
// projection and the seller's counter, so the three views never diverge on
// a successful write.
//
// There is deliberately no RemoveListing: the removal fan-out (product,
// seller listing, open threads referencing the product) is undecided, and
// deleting a single projection would strand the others.
type CatalogUseCase struct {
	store     repository.ProjectionStore
	locks     *lock.KeyedMutex
	publisher EventPublisher
	cache     ListCache
	hook      CounterHook
}

func NewCatalogUseCase(
	store repository.ProjectionStore,
	locks *lock.KeyedMutex,
	publisher EventPublisher,
	cache ListCache,
	hook CounterHook,
) *CatalogUseCase {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if cache == nil {
		cache = noopCache{}
	}
	if hook == nil {
		hook = noopCounterHook{}
	}

	return &CatalogUseCase{
		store:     store,
		locks:     locks,
		publisher: publisher,
		cache:     cache,
		hook:      hook,
	}
}

// CreateListing stores a new product together with its seller-listing
// projection and bumps the seller's listSells counter in one multi-path
// write. The seller summary embedded in the product is refreshed from the
// seller's current user record.
func (uc *CatalogUseCase) CreateListing(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	unlock := uc.locks.LockAll(lock.ProductKey(product.ID), lock.UserKey(product.Seller.ID))
	defer unlock()

	var seller entity.User
	if err := uc.store.Get(ctx, repository.UserPath(product.Seller.ID), &seller); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Seller", nil)
		}
		return nil, err
	}
	product.Seller = seller.Summary()

	listing := entity.SellerListing{
		UserID:        seller.ID,
		ProductID:     product.ID,
		UploadDate:    product.CreatedAt,
		IsSales:       product.Quantity > 0,
		Image:         product.PrimaryImage(),
		Name:          product.Name,
		Price:         product.Price,
		Quantity:      product.Quantity,
		SellsQuantity: 0,
	}

	updatedListSells := seller.ListSells + 1

	updates := map[string]interface{}{
		repository.ProductPath(product.ID):                  product,
		repository.SellerListingPath(seller.ID, product.ID): listing,
		repository.UserListSellsPath(seller.ID):             updatedListSells,
	}

	if err := uc.store.ApplyMulti(ctx, updates); err != nil {
		return nil, err
	}

	uc.hook.ListSellsUpdated(seller.ID, updatedListSells)
	uc.cache.Invalidate(ctx, ProductListCacheKey)

	if err := uc.publisher.Publish(ctx, product.ID, events.ListingCreatedEvent{
		Type:      events.TypeListingCreated,
		ProductID: product.ID,
		SellerID:  seller.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  product.Quantity,
		CreatedAt: product.CreatedAt,
	}); err != nil {
		logger.Warn("listing.created publish failed for %s: %v", product.ID, err)
	}

	return product, nil
}

// EditListing overwrites the product wholesale and patches only name,
// price, quantity and the in-stock flag on the seller listing, preserving
// sellsQuantity and buyerInfo. Editing a product whose listing does not
// exist is a logged no-op: the caller raced an edit against creation, and
// inventing the missing projection here would hide that.
func (uc *CatalogUseCase) EditListing(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if product.ID == "" {
		return nil, errors.Validation("product id is required", nil)
	}

	unlock := uc.locks.Lock(lock.ProductKey(product.ID))
	defer unlock()

	var listing entity.SellerListing
	if err := uc.store.Get(ctx, repository.SellerListingPath(product.Seller.ID, product.ID), &listing); err != nil {
		if errors.IsNotFound(err) {
			logger.Warn("edit of unlisted product %s by seller %s skipped", product.ID, product.Seller.ID)
			return nil, errors.NotFound("Listing", nil)
		}
		return nil, err
	}

	// The product record is overwritten wholesale, but the seller snapshot
	// and upload time are not caller-editable; carry them over.
	var existing entity.Product
	if err := uc.store.Get(ctx, repository.ProductPath(product.ID), &existing); err == nil {
		product.Seller = existing.Seller
		product.CreatedAt = existing.CreatedAt
	}

	listing.Name = product.Name
	listing.Price = product.Price
	listing.Quantity = product.Quantity
	listing.IsSales = product.Quantity > 0

	updates := map[string]interface{}{
		repository.ProductPath(product.ID):                          product,
		repository.SellerListingPath(product.Seller.ID, product.ID): listing,
	}

	if err := uc.store.ApplyMulti(ctx, updates); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, ProductListCacheKey)

	return product, nil
}

func validateProduct(product *entity.Product) error {
	if product == nil {
		return errors.Validation("product is required", nil)
	}
	if product.Seller.ID == "" {
		return errors.Validation("seller id is required", nil)
	}
	if product.Name == "" {
		return errors.Validation("product name is required", nil)
	}
	if product.Price < 0 {
		return errors.Validation("price must not be negative", nil)
	}
	if product.Quantity < 0 {
		return errors.Validation("quantity must not be negative", nil)
	}
	return nil
}
