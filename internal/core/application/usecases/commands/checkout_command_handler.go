package commands

import (
	"context"
	"time"

	"forwarder/internal/core/domain/model/billing"
	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/domain/model/pricing"
	"forwarder/internal/core/domain/model/shipment"
	"forwarder/internal/core/domain/services"
	"forwarder/internal/core/ports"
	"forwarder/internal/pkg/errs"
)

// CheckoutResult reports what the checkout produced, for the HTTP response.
type CheckoutResult struct {
	InvoiceID     kernel.UUID
	InvoiceNr     int64
	TransactionID kernel.UUID
	ShipmentIDs   []kernel.UUID
	Total         float64
}

// CheckoutCommandHandler turns a cart of Unpaid packages into an invoice, a
// payment transaction, and one Created shipment per destination bundle, all
// inside one database transaction.
//
// Any cart entry that cannot be resolved to a package owned by the customer
// aborts the whole checkout; there is no partial success.
type CheckoutCommandHandler struct {
	uowFactory   UoWFactory
	serviceRules ports.ServiceRuleRepository
	settings     ports.SettingsRepository
	bundler      services.CartBundler
}

// NewCheckoutCommandHandler creates a handler for cart checkout.
func NewCheckoutCommandHandler(
	uowFactory UoWFactory,
	serviceRules ports.ServiceRuleRepository,
	settings ports.SettingsRepository,
) CheckoutCommandHandler {
	return CheckoutCommandHandler{
		uowFactory:   uowFactory,
		serviceRules: serviceRules,
		settings:     settings,
		bundler:      services.NewCartBundler(),
	}
}

// Handle processes the checkout command.
func (h CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) (CheckoutResult, error) {
	if err := cmd.Validate(); err != nil {
		return CheckoutResult{}, err
	}

	operationalSettings, err := h.settings.Get(ctx)
	if err != nil {
		return CheckoutResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CheckoutResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()

	parcels, err := h.loadCart(ctx, parcelRepo, cmd)
	if err != nil {
		return CheckoutResult{}, err
	}

	rules, err := h.loadServiceRules(ctx, cmd)
	if err != nil {
		return CheckoutResult{}, err
	}

	now := time.Now().UTC()
	cartPricing, err := h.bundler.PriceCart(parcels, rules, operationalSettings, now)
	if err != nil {
		return CheckoutResult{}, err
	}

	invoice, err := h.issueInvoice(ctx, uow, cmd, parcels, cartPricing, now)
	if err != nil {
		return CheckoutResult{}, err
	}

	trx, err := billing.NewTransaction(kernel.NewUUID(), cmd.UserID(), cartPricing.Total, now)
	if err != nil {
		return CheckoutResult{}, err
	}
	if err = uow.TransactionRepository().Add(ctx, trx); err != nil {
		return CheckoutResult{}, err
	}

	shipmentIDs, err := h.createShipments(ctx, uow, cmd.UserID(), invoice.ID(), trx.ID(), cartPricing.Bundles, now)
	if err != nil {
		return CheckoutResult{}, err
	}

	for _, p := range parcels {
		if err = parcelRepo.UpdateWithStatusGuard(ctx, p, parcel.Unpaid); err != nil {
			return CheckoutResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return CheckoutResult{}, err
	}

	return CheckoutResult{
		InvoiceID:     invoice.ID(),
		InvoiceNr:     invoice.InvoiceNr(),
		TransactionID: trx.ID(),
		ShipmentIDs:   shipmentIDs,
		Total:         cartPricing.Total,
	}, nil
}

// loadCart resolves every cart entry to an Unpaid package owned by the
// customer and applies the confirmed extras. Missing and foreign packages
// abort the checkout.
func (h CheckoutCommandHandler) loadCart(
	ctx context.Context,
	parcelRepo ports.ParcelRepository,
	cmd CheckoutCommand,
) ([]*parcel.Parcel, error) {
	ids := make([]kernel.UUID, 0, len(cmd.Entries()))
	for _, entry := range cmd.Entries() {
		ids = append(ids, entry.PackageID)
	}

	parcels, err := parcelRepo.GetAllByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[kernel.UUID]*parcel.Parcel, len(parcels))
	for _, p := range parcels {
		byID[p.ID()] = p
	}

	ordered := make([]*parcel.Parcel, 0, len(cmd.Entries()))
	for _, entry := range cmd.Entries() {
		p, ok := byID[entry.PackageID]
		if !ok {
			return nil, errs.NewObjectNotFoundError("packageID", entry.PackageID)
		}
		if !p.UserID().IsEqual(cmd.UserID()) {
			return nil, errs.NewObjectNotFoundError("packageID", entry.PackageID)
		}

		if err = p.ConfirmExtras(entry.DeclaredType, entry.ServiceIDs); err != nil {
			return nil, err
		}
		ordered = append(ordered, p)
	}

	return ordered, nil
}

func (h CheckoutCommandHandler) loadServiceRules(
	ctx context.Context,
	cmd CheckoutCommand,
) (map[kernel.UUID]*pricing.ServiceRule, error) {
	var ids []kernel.UUID
	for _, entry := range cmd.Entries() {
		ids = append(ids, entry.ServiceIDs...)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return h.serviceRules.GetByIDs(ctx, ids)
}

func (h CheckoutCommandHandler) issueInvoice(
	ctx context.Context,
	uow UoW,
	cmd CheckoutCommand,
	parcels []*parcel.Parcel,
	cartPricing services.CartPricing,
	now time.Time,
) (*billing.Invoice, error) {
	customer, err := billing.NewCustomer(cmd.CustomerName(), cmd.CustomerEmail(), addressLines(parcels))
	if err != nil {
		return nil, err
	}

	invoiceRepo := uow.InvoiceRepository()

	invoiceNr, err := invoiceRepo.NextInvoiceNr(ctx)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(
		kernel.NewUUID(), invoiceNr, cmd.UserID(), customer,
		cartPricing.Lines, cartPricing.Discount, now,
	)
	if err != nil {
		return nil, err
	}

	if err = invoiceRepo.Add(ctx, invoice); err != nil {
		return nil, err
	}

	return invoice, nil
}

func (h CheckoutCommandHandler) createShipments(
	ctx context.Context,
	uow UoW,
	userID kernel.UUID,
	invoiceID kernel.UUID,
	transactionID kernel.UUID,
	bundles []services.Bundle,
	now time.Time,
) ([]kernel.UUID, error) {
	shipmentRepo := uow.ShipmentRepository()
	shipmentIDs := make([]kernel.UUID, 0, len(bundles))

	for _, bundle := range bundles {
		packageIDs := make([]kernel.UUID, 0, len(bundle.Parcels))
		for _, p := range bundle.Parcels {
			packageIDs = append(packageIDs, p.ID())
		}

		newShipment, err := shipment.NewShipment(
			kernel.NewUUID(), shipment.NewShipmentUID(), packageIDs,
			bundle.Mode, bundle.WarehouseID, userID, invoiceID, transactionID, now,
		)
		if err != nil {
			return nil, err
		}

		if err = shipmentRepo.Add(ctx, newShipment); err != nil {
			return nil, err
		}

		for _, p := range bundle.Parcels {
			if err = p.AttachCheckout(invoiceID, newShipment.ID()); err != nil {
				return nil, err
			}
		}

		shipmentIDs = append(shipmentIDs, newShipment.ID())
	}

	return shipmentIDs, nil
}

// addressLines renders the first Delivery destination in the cart for the
// invoice recipient block. Pickup-only carts have no address lines.
func addressLines(parcels []*parcel.Parcel) []string {
	for _, p := range parcels {
		if p.ShippedTo() != nil {
			addr := p.ShippedTo()
			return []string{addr.Street(), addr.City() + " " + addr.Zipcode(), addr.Country()}
		}
	}
	return nil
}
