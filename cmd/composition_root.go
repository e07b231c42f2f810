package cmd

import (
	"forwarder/internal/adapters/out/dispatch"
	"forwarder/internal/adapters/out/postgres"
	"forwarder/internal/adapters/out/postgres/errlogrepo"
	"forwarder/internal/adapters/out/postgres/notifyrepo"
	"forwarder/internal/adapters/out/postgres/pricingrepo"
	"forwarder/internal/core/application/usecases/commands"
	"forwarder/internal/core/application/usecases/queries"
	"forwarder/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	priceRules  *pricingrepo.GormPriceRuleRepository
	serviceRule *pricingrepo.GormServiceRuleRepository
	settings    *pricingrepo.GormSettingsRepository
	notifier    *notifyrepo.OutboxNotifier
	errorLedger *errlogrepo.GormErrorLedger
	gateway     *dispatch.HTTPGateway
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) (CompositionRoot, error) {
	gateway, err := dispatch.NewHTTPGateway(config.DispatchBaseURL, config.DispatchAPIKey)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		priceRules:  pricingrepo.NewGormPriceRuleRepository(gormDB),
		serviceRule: pricingrepo.NewGormServiceRuleRepository(gormDB),
		settings:    pricingrepo.NewGormSettingsRepository(gormDB),
		notifier:    notifyrepo.NewOutboxNotifier(gormDB),
		errorLedger: errlogrepo.NewGormErrorLedger(gormDB),
		gateway:     gateway,
	}, nil
}

// UnitOfWorkFactory exposes the shared unit of work factory for background jobs.
func (c *CompositionRoot) UnitOfWorkFactory() ports.UnitOfWorkFactory {
	return &c.uowFactory
}

// SettingsRepository exposes the operational settings lookup.
func (c *CompositionRoot) SettingsRepository() ports.SettingsRepository {
	return c.settings
}

// Notifier exposes the notification outbox.
func (c *CompositionRoot) Notifier() ports.Notifier {
	return c.notifier
}

// ErrorLedger exposes the HTTP boundary failure ledger.
func (c *CompositionRoot) ErrorLedger() ports.ErrorLedger {
	return c.errorLedger
}

func (c *CompositionRoot) parcelUoWFactory() commands.ParcelUoWFactory {
	return FuncParcelUoWFactory(func() commands.ParcelUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) shipmentUoWFactory() commands.ShipmentUoWFactory {
	return FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreatePackageCommandHandler() commands.CreatePackageCommandHandler {
	return commands.NewCreatePackageCommandHandler(c.parcelUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreatePrebookPackageCommandHandler() commands.PrebookPackageCommandHandler {
	return commands.NewPrebookPackageCommandHandler(c.parcelUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateConfirmIntakeCommandHandler() commands.ConfirmIntakeCommandHandler {
	return commands.NewConfirmIntakeCommandHandler(c.parcelUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateMarkArrivedCommandHandler() commands.MarkArrivedCommandHandler {
	return commands.NewMarkArrivedCommandHandler(c.parcelUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateQuotePackageCommandHandler() commands.QuotePackageCommandHandler {
	return commands.NewQuotePackageCommandHandler(c.parcelUoWFactory(), c.priceRules, c.notifier)
}

func (c *CompositionRoot) CreateDeclareValueCommandHandler() commands.DeclareValueCommandHandler {
	return commands.NewDeclareValueCommandHandler(c.parcelUoWFactory())
}

func (c *CompositionRoot) CreateCancelPackageCommandHandler() commands.CancelPackageCommandHandler {
	return commands.NewCancelPackageCommandHandler(c.parcelUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateMarkReturnedCommandHandler() commands.MarkReturnedCommandHandler {
	return commands.NewMarkReturnedCommandHandler(c.parcelUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateCheckoutCommandHandler() commands.CheckoutCommandHandler {
	return commands.NewCheckoutCommandHandler(c.fullUoWFactory(), c.serviceRule, c.settings)
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	return commands.NewConfirmPaymentCommandHandler(c.fullUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateDispatchShipmentCommandHandler() commands.DispatchShipmentCommandHandler {
	return commands.NewDispatchShipmentCommandHandler(c.shipmentUoWFactory(), c.gateway, c.notifier)
}

func (c *CompositionRoot) CreateConfirmPickupCommandHandler() commands.ConfirmPickupCommandHandler {
	return commands.NewConfirmPickupCommandHandler(c.shipmentUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateCourierEventCommandHandler() commands.CourierEventCommandHandler {
	return commands.NewCourierEventCommandHandler(c.shipmentUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateGetUnshippedShipmentsQueryHandler() queries.GetUnshippedShipmentsQueryHandler {
	return queries.NewGetUnshippedShipmentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCustomerPackagesQueryHandler() queries.GetCustomerPackagesQueryHandler {
	return queries.NewGetCustomerPackagesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetInvoiceQueryHandler() queries.GetInvoiceQueryHandler {
	return queries.NewGetInvoiceQueryHandler(c.gormDB)
}

type FuncParcelUoWFactory func() commands.ParcelUoW

func (f FuncParcelUoWFactory) Create() commands.ParcelUoW {
	return f()
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
