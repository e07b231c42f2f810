package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"forwarder/cmd"
	httpadapter "forwarder/internal/adapters/in/http"
	"forwarder/internal/adapters/out/postgres/billingrepo"
	"forwarder/internal/adapters/out/postgres/errlogrepo"
	"forwarder/internal/adapters/out/postgres/notifyrepo"
	"forwarder/internal/adapters/out/postgres/parcelrepo"
	"forwarder/internal/adapters/out/postgres/pricingrepo"
	"forwarder/internal/adapters/out/postgres/shipmentrepo"
	"forwarder/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	db := openDatabase(configs)

	app, err := cmd.NewCompositionRoot(configs, db)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	jobManager := jobs.NewJobManager(app.UnitOfWorkFactory(), app.SettingsRepository(), app.Notifier(), logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:        goDotEnvVariable("HTTP_PORT"),
		DBHost:          goDotEnvVariable("DB_HOST"),
		DBPort:          goDotEnvVariable("DB_PORT"),
		DBUser:          goDotEnvVariable("DB_USER"),
		DBPassword:      goDotEnvVariable("DB_PASSWORD"),
		DBName:          goDotEnvVariable("DB_NAME"),
		DBSslMode:       goDotEnvVariable("DB_SSLMODE"),
		DispatchBaseURL: goDotEnvVariable("DISPATCH_BASE_URL"),
		DispatchAPIKey:  goDotEnvVariable("DISPATCH_API_KEY"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&parcelrepo.ParcelDTO{}, &parcelrepo.ParcelServiceDTO{},
		&shipmentrepo.ShipmentDTO{}, &shipmentrepo.ShipmentPackageDTO{},
		&billingrepo.InvoiceDTO{}, &billingrepo.InvoiceLineDTO{},
		&billingrepo.TransactionDTO{}, &billingrepo.InvoiceCounterDTO{},
		&pricingrepo.PriceRuleDTO{}, &pricingrepo.ServiceRuleDTO{}, &pricingrepo.SettingsDTO{},
		&notifyrepo.NotificationDTO{}, &errlogrepo.ErrorEntryDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpadapter.NewServer(
		app.CreateCreatePackageCommandHandler(),
		app.CreatePrebookPackageCommandHandler(),
		app.CreateConfirmIntakeCommandHandler(),
		app.CreateMarkArrivedCommandHandler(),
		app.CreateQuotePackageCommandHandler(),
		app.CreateDeclareValueCommandHandler(),
		app.CreateCancelPackageCommandHandler(),
		app.CreateMarkReturnedCommandHandler(),
		app.CreateCheckoutCommandHandler(),
		app.CreateConfirmPaymentCommandHandler(),
		app.CreateDispatchShipmentCommandHandler(),
		app.CreateConfirmPickupCommandHandler(),
		app.CreateCourierEventCommandHandler(),
		app.CreateGetUnshippedShipmentsQueryHandler(),
		app.CreateGetCustomerPackagesQueryHandler(),
		app.CreateGetInvoiceQueryHandler(),
		app.ErrorLedger(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
