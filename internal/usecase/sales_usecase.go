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

// SalesUseCase owns the purchase transaction, the most state-heavy
// operation in the system: one sale touches the product's stock, the
// seller listing's stock, sells counter and buyer ledger, the buyer's
// purchase record and the buyer's counter. Six paths, one multi-write.
type SalesUseCase struct {
	store     repository.ProjectionStore
	locks     *lock.KeyedMutex
	publisher EventPublisher
	cache     ListCache
	hook      CounterHook
}

func NewSalesUseCase(
	store repository.ProjectionStore,
	locks *lock.KeyedMutex,
	publisher EventPublisher,
	cache ListCache,
	hook CounterHook,
) *SalesUseCase {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if cache == nil {
		cache = noopCache{}
	}
	if hook == nil {
		hook = noopCounterHook{}
	}

	return &SalesUseCase{
		store:     store,
		locks:     locks,
		publisher: publisher,
		cache:     cache,
		hook:      hook,
	}
}

// ExecuteSaleInput identifies the sale. PurchaseID is generated on first
// use and written back, so a retry of the same input lands on the same
// purchase path instead of minting a duplicate record.
type ExecuteSaleInput struct {
	PurchaseID string
	BuyerID    string
	ProductID  string
	Quantity   int
}

// ExecuteSale performs the purchase. Any failed read aborts before the
// write; a rejected multi-write leaves no path mutated. Oversells are
// rejected up front: the sale may drain stock to exactly zero, never
// below.
func (uc *SalesUseCase) ExecuteSale(ctx context.Context, input *ExecuteSaleInput) (*entity.Purchase, error) {
	if input == nil || input.BuyerID == "" || input.ProductID == "" {
		return nil, errors.Validation("buyer and product ids are required", nil)
	}
	if input.Quantity <= 0 {
		return nil, errors.Validation("purchase quantity must be positive", nil)
	}
	if input.PurchaseID == "" {
		input.PurchaseID = uuid.New().String()
	}

	unlock := uc.locks.LockAll(lock.ProductKey(input.ProductID), lock.UserKey(input.BuyerID))
	defer unlock()

	var product entity.Product
	if err := uc.store.Get(ctx, repository.ProductPath(input.ProductID), &product); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Product", nil)
		}
		return nil, err
	}

	if input.Quantity > product.Quantity {
		return nil, errors.Validation("purchase quantity exceeds available stock", nil)
	}
	newQuantity := product.Quantity - input.Quantity

	sellerID := product.Seller.ID
	var listing entity.SellerListing
	if err := uc.store.Get(ctx, repository.SellerListingPath(sellerID, input.ProductID), &listing); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Seller listing", nil)
		}
		return nil, err
	}
	newSellsQuantity := listing.SellsQuantity + input.Quantity

	var buyer entity.User
	if err := uc.store.Get(ctx, repository.UserPath(input.BuyerID), &buyer); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Buyer", nil)
		}
		return nil, err
	}
	newListPurchases := buyer.ListPurchases + 1

	purchase := entity.Purchase{
		PurchaseID:   input.PurchaseID,
		BuyerID:      input.BuyerID,
		SellerID:     sellerID,
		SellerName:   product.Seller.Username,
		ProductID:    input.ProductID,
		ProductImage: product.PrimaryImage(),
		ProductName:  product.Name,
		Price:        product.Price,
		Quantity:     input.Quantity,
		CreatedAt:    time.Now().UTC(),
	}

	// Repeat buyers accumulate one ledger entry per sale; no dedup.
	updatedBuyerInfo := append(listing.BuyerInfo, entity.BuyerInfo{
		BuyerID:  buyer.ID,
		Username: buyer.Username,
		Email:    buyer.Email,
		Phone:    buyer.Phone,
		Address:  buyer.Address,
	})

	updates := map[string]interface{}{
		repository.ProductQuantityPath(input.ProductID):                      newQuantity,
		repository.SellerListingQuantityPath(sellerID, input.ProductID):      newQuantity,
		repository.SellerListingSellsQuantityPath(sellerID, input.ProductID): newSellsQuantity,
		repository.SellerListingBuyerInfoPath(sellerID, input.ProductID):     updatedBuyerInfo,
		repository.PurchasePath(input.BuyerID, purchase.PurchaseID):          purchase,
		repository.UserListPurchasesPath(input.BuyerID):                      newListPurchases,
	}
	if newQuantity == 0 {
		updates[repository.SellerListingIsSalesPath(sellerID, input.ProductID)] = false
	}

	if err := uc.store.ApplyMulti(ctx, updates); err != nil {
		return nil, err
	}

	uc.hook.ListPurchasesUpdated(input.BuyerID, newListPurchases)
	uc.cache.Invalidate(ctx, ProductListCacheKey)

	if err := uc.publisher.Publish(ctx, input.ProductID, events.SaleCompletedEvent{
		Type:              events.TypeSaleCompleted,
		PurchaseID:        purchase.PurchaseID,
		ProductID:         input.ProductID,
		BuyerID:           input.BuyerID,
		SellerID:          sellerID,
		Quantity:          input.Quantity,
		RemainingQuantity: newQuantity,
		SoldOut:           newQuantity == 0,
		CompletedAt:       purchase.CreatedAt,
	}); err != nil {
		logger.Warn("sale.completed publish failed for %s: %v", purchase.PurchaseID, err)
	}

	return &purchase, nil
}
