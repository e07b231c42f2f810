package commands

import (
	"context"

	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/domain/model/pricing"
	"forwarder/internal/core/domain/services"
	"forwarder/internal/core/ports"
)

// QuotePackageCommandHandler prices an arrived package from the active rate
// catalog and hands it to the customer for value declaration.
type QuotePackageCommandHandler struct {
	uowFactory ParcelUoWFactory
	priceRules ports.PriceRuleRepository
	notifier   ports.Notifier
	calculator services.PriceCalculator
}

// NewQuotePackageCommandHandler creates a handler for package quoting.
func NewQuotePackageCommandHandler(
	uowFactory ParcelUoWFactory,
	priceRules ports.PriceRuleRepository,
	notifier ports.Notifier,
) QuotePackageCommandHandler {
	return QuotePackageCommandHandler{
		uowFactory: uowFactory,
		priceRules: priceRules,
		notifier:   notifier,
		calculator: services.NewPriceCalculator(),
	}
}

// Handle processes the quote command. The rate catalog is consulted for
// Delivery packages only; Pickup packages ship free.
func (h QuotePackageCommandHandler) Handle(ctx context.Context, cmd QuotePackageCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()

	aggregate, err := parcelRepo.Get(ctx, cmd.PackageID())
	if err != nil {
		return err
	}

	var rules []*pricing.PriceRule
	if aggregate.DeliveryMode() == parcel.ModeDelivery {
		rules, err = h.priceRules.GetActiveForRoute(
			ctx, cmd.OriginCountry(), aggregate.WarehouseID(), *aggregate.DeliveryTypeID(),
		)
		if err != nil {
			return err
		}
	}

	quote, err := h.calculator.Calculate(aggregate.DeliveryMode(), cmd.Weight(), rules)
	if err != nil {
		return err
	}

	if err = aggregate.Quote(
		cmd.Weight(), quote.ShippingCost, quote.FlatRate, cmd.OfferedServiceIDs(), cmd.StaffID(),
	); err != nil {
		return err
	}

	if err = parcelRepo.UpdateWithStatusGuard(ctx, aggregate, parcel.ArrivedAtWarehouse); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	packageID := aggregate.ID()
	_ = h.notifier.Notify(ctx, ports.Notification{
		Event:    ports.EventActionRequired,
		UserID:   aggregate.UserID(),
		ParcelID: &packageID,
	})

	return nil
}
