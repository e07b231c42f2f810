package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "forwarder/internal/adapters/out/postgres"
	"forwarder/internal/adapters/out/postgres/billingrepo"
	"forwarder/internal/adapters/out/postgres/parcelrepo"
	"forwarder/internal/adapters/out/postgres/shipmentrepo"
	"forwarder/internal/core/domain/model/billing"
	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/domain/model/shipment"
	"forwarder/internal/core/ports"
	"forwarder/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes PostgreSQL container and database connection for all tests.
// Runs database migrations to prepare schema for unit of work operations.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Connect to database
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Run migrations
	err = db.AutoMigrate(
		&parcelrepo.ParcelDTO{}, &parcelrepo.ParcelServiceDTO{},
		&shipmentrepo.ShipmentDTO{}, &shipmentrepo.ShipmentPackageDTO{},
		&billingrepo.InvoiceDTO{}, &billingrepo.InvoiceLineDTO{},
		&billingrepo.TransactionDTO{}, &billingrepo.InvoiceCounterDTO{},
	)
	suite.Require().NoError(err)

	// Create factory
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE parcels, parcel_services, shipments, shipment_packages," +
			" invoices, invoice_lines, transactions, invoice_counters",
	).Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWorkFactory_Create verifies the factory creates independent
// instances with access to all repositories.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.ParcelRepository(), "First instance should provide parcel repository")
	suite.NotNil(uow1.ShipmentRepository(), "First instance should provide shipment repository")
	suite.NotNil(uow2.InvoiceRepository(), "Second instance should provide invoice repository")
	suite.NotNil(uow2.TransactionRepository(), "Second instance should provide transaction repository")
}

// TestUnitOfWork_TransactionLifecycle verifies proper transaction management
// including begin, commit, and rollback operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

// TestUnitOfWork_TransactionErrors verifies error handling for invalid transaction operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_CheckoutWorkflow exercises the widest transaction boundary in
// the system: one checkout writes a parcel, an invoice, a payment transaction,
// and a shipment, and all four must commit together.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CheckoutWorkflow() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testParcel := createUnpaidParcel()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.ParcelRepository().Add(ctx, testParcel)
	suite.Require().NoError(err)

	// Issue the billing documents
	invoiceNr, err := uow.InvoiceRepository().NextInvoiceNr(ctx)
	suite.Require().NoError(err)

	customer, err := billing.NewCustomer("Jane Doe", "jane@example.com",
		[]string{"1 Main St", "Springfield IL 62701", "US"})
	suite.Require().NoError(err)

	weight := testParcel.Weight()
	shippingLine, err := billing.NewLine("Shipping "+testParcel.TrackingNumber(), &weight, testParcel.ShippingCost())
	suite.Require().NoError(err)

	testInvoice, err := billing.NewInvoice(
		kernel.NewUUID(), invoiceNr, testParcel.UserID(),
		customer, []billing.Line{shippingLine}, 0, time.Now(),
	)
	suite.Require().NoError(err)
	err = uow.InvoiceRepository().Add(ctx, testInvoice)
	suite.Require().NoError(err)

	testTrx, err := billing.NewTransaction(kernel.NewUUID(), testParcel.UserID(), testInvoice.Total(), time.Now())
	suite.Require().NoError(err)
	err = uow.TransactionRepository().Add(ctx, testTrx)
	suite.Require().NoError(err)

	// Bundle the parcel into a shipment
	testShipment, err := shipment.NewShipment(
		kernel.NewUUID(), shipment.NewShipmentUID(),
		[]kernel.UUID{testParcel.ID()},
		testParcel.DeliveryMode(), testParcel.WarehouseID(), testParcel.UserID(),
		testInvoice.ID(), testTrx.ID(), time.Now(),
	)
	suite.Require().NoError(err)
	err = uow.ShipmentRepository().Add(ctx, testShipment)
	suite.Require().NoError(err)

	// Link the parcel to its billing documents
	err = testParcel.AttachCheckout(testInvoice.ID(), testShipment.ID())
	suite.Require().NoError(err)
	err = uow.ParcelRepository().UpdateWithStatusGuard(ctx, testParcel, parcel.Unpaid)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Verify everything persisted using a new unit of work
	newUow := suite.factory.Create()

	retrievedParcel, err := newUow.ParcelRepository().Get(ctx, testParcel.ID())
	suite.Require().NoError(err)
	suite.Equal(parcel.Unpaid, retrievedParcel.Status())
	suite.Require().NotNil(retrievedParcel.InvoiceID())
	suite.Equal(testInvoice.ID(), *retrievedParcel.InvoiceID())
	suite.Require().NotNil(retrievedParcel.ShipmentID())
	suite.Equal(testShipment.ID(), *retrievedParcel.ShipmentID())

	retrievedInvoice, err := newUow.InvoiceRepository().Get(ctx, testInvoice.ID())
	suite.Require().NoError(err)
	suite.Equal(invoiceNr, retrievedInvoice.InvoiceNr())
	suite.Len(retrievedInvoice.Lines(), 1)
	suite.Equal(testInvoice.Total(), retrievedInvoice.Total())

	retrievedShipments, err := newUow.ShipmentRepository().GetAllByTransaction(ctx, testTrx.ID())
	suite.Require().NoError(err)
	suite.Require().Len(retrievedShipments, 1)
	suite.True(retrievedShipments[0].ContainsPackage(testParcel.ID()))
}

// TestUnitOfWork_TransactionRollback verifies rollback discards all changes
// made within the transaction across multiple repositories.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testParcel := createUnpaidParcel()
	testTrx, err := billing.NewTransaction(kernel.NewUUID(), testParcel.UserID(), 80, time.Now())
	suite.Require().NoError(err)

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.ParcelRepository().Add(ctx, testParcel)
	suite.Require().NoError(err)

	err = uow.TransactionRepository().Add(ctx, testTrx)
	suite.Require().NoError(err)

	// Both exist within the transaction
	_, err = uow.ParcelRepository().Get(ctx, testParcel.ID())
	suite.Require().NoError(err)

	_, err = uow.TransactionRepository().Get(ctx, testTrx.ID())
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	// Neither exists after rollback
	newUow := suite.factory.Create()

	_, err = newUow.ParcelRepository().Get(ctx, testParcel.ID())
	suite.Require().Error(err, "Parcel should not exist after rollback")

	_, err = newUow.TransactionRepository().Get(ctx, testTrx.ID())
	suite.Require().Error(err, "Transaction should not exist after rollback")
}

// TestUnitOfWork_RepositoryIsolation verifies that repositories obtained
// from different unit of work instances operate independently.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	parcel1 := createUnpaidParcel()
	parcel2 := createUnpaidParcel()

	err := uow1.Begin(ctx)
	suite.Require().NoError(err)

	err = uow2.Begin(ctx)
	suite.Require().NoError(err)

	err = uow1.ParcelRepository().Add(ctx, parcel1)
	suite.Require().NoError(err)

	err = uow2.ParcelRepository().Add(ctx, parcel2)
	suite.Require().NoError(err)

	// Each transaction only sees its own changes
	_, err = uow1.ParcelRepository().Get(ctx, parcel1.ID())
	suite.Require().NoError(err, "UOW1 should see parcel1")

	_, err = uow1.ParcelRepository().Get(ctx, parcel2.ID())
	suite.Require().Error(err, "UOW1 should not see parcel2")

	_, err = uow2.ParcelRepository().Get(ctx, parcel2.ID())
	suite.Require().NoError(err, "UOW2 should see parcel2")

	_, err = uow2.ParcelRepository().Get(ctx, parcel1.ID())
	suite.Require().Error(err, "UOW2 should not see parcel1")

	err = uow1.Commit(ctx)
	suite.Require().NoError(err)

	err = uow2.Rollback(ctx)
	suite.Require().NoError(err)

	// Only parcel1 persisted
	newUow := suite.factory.Create()
	_, err = newUow.ParcelRepository().Get(ctx, parcel1.ID())
	suite.Require().NoError(err, "Parcel1 should persist after commit")

	_, err = newUow.ParcelRepository().Get(ctx, parcel2.ID())
	suite.Require().Error(err, "Parcel2 should not persist after rollback")
}

// TestUnitOfWork_WithoutTransaction verifies that repositories work correctly
// without explicit transaction boundaries for immediate operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testParcel := createUnpaidParcel()

	// Add parcel without beginning transaction (should auto-commit)
	err := uow.ParcelRepository().Add(ctx, testParcel)
	suite.Require().NoError(err)

	retrievedParcel, err := uow.ParcelRepository().Get(ctx, testParcel.ID())
	suite.Require().NoError(err)
	suite.Equal(testParcel.ID(), retrievedParcel.ID())

	newUow := suite.factory.Create()
	retrievedParcel, err = newUow.ParcelRepository().Get(ctx, testParcel.ID())
	suite.Require().NoError(err)
	suite.Equal(testParcel.ID(), retrievedParcel.ID())
}

// TestUnitOfWork_StatusGuardDetectsConcurrentWriter verifies that a guarded
// update fails when another writer already advanced the parcel's status.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_StatusGuardDetectsConcurrentWriter() {
	ctx := context.Background()

	testParcel := createUnpaidParcel()

	initialUow := suite.factory.Create()
	err := initialUow.ParcelRepository().Add(ctx, testParcel)
	suite.Require().NoError(err)

	// Two handlers load the same unpaid parcel
	firstUow := suite.factory.Create()
	firstCopy, err := firstUow.ParcelRepository().Get(ctx, testParcel.ID())
	suite.Require().NoError(err)

	secondUow := suite.factory.Create()
	secondCopy, err := secondUow.ParcelRepository().Get(ctx, testParcel.ID())
	suite.Require().NoError(err)

	// First writer confirms the payment
	err = firstCopy.ConfirmPayment(time.Now())
	suite.Require().NoError(err)
	err = firstUow.ParcelRepository().UpdateWithStatusGuard(ctx, firstCopy, parcel.Unpaid)
	suite.Require().NoError(err)

	// Second writer holds a stale copy; its guard must reject the write
	err = secondCopy.ConfirmPayment(time.Now())
	suite.Require().NoError(err)
	err = secondUow.ParcelRepository().UpdateWithStatusGuard(ctx, secondCopy, parcel.Unpaid)
	suite.Require().ErrorIs(err, errs.ErrConcurrentModification)

	// The first write stands
	finalUow := suite.factory.Create()
	retrievedParcel, err := finalUow.ParcelRepository().Get(ctx, testParcel.ID())
	suite.Require().NoError(err)
	suite.Equal(parcel.Paid, retrievedParcel.Status())
}

// TestUnitOfWork_InvoiceNumbersAreMonotonic verifies the invoice counter
// increases across unit of work instances.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_InvoiceNumbersAreMonotonic() {
	ctx := context.Background()

	first, err := suite.factory.Create().InvoiceRepository().NextInvoiceNr(ctx)
	suite.Require().NoError(err)

	second, err := suite.factory.Create().InvoiceRepository().NextInvoiceNr(ctx)
	suite.Require().NoError(err)

	suite.Greater(second, first, "Invoice numbers should increase")
}

// createUnpaidParcel creates a parcel driven through intake, arrival, quoting,
// and value declaration, ready for checkout.
func createUnpaidParcel() *parcel.Parcel {
	deliveryTypeID := kernel.NewUUID()
	address, _ := kernel.NewAddress("Jane Doe", "1 Main St", "IL", "Springfield", "62701", "US")

	id := kernel.NewUUID()
	testParcel, _ := parcel.NewParcel(
		id, "TRK-"+id.String()[:8], kernel.NewUUID(), kernel.NewUUID(),
		parcel.ModeDelivery, &deliveryTypeID, &address, nil, time.Now(),
	)
	_ = testParcel.MarkArrived(time.Now())
	_ = testParcel.Quote(5, 50, 20, nil, kernel.NewUUID())
	_ = testParcel.DeclareValue(100)
	return testParcel
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
