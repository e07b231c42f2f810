// Package http provides the echo server exposing staff, customer, and webhook
// routes. Handlers translate JSON payloads into commands and queries; every
// handler failure is written to the error ledger and answered with a generic
// failure body.
package http

import (
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"forwarder/internal/core/application/usecases/commands"
	"forwarder/internal/core/application/usecases/queries"
	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/domain/model/shipment"
	"forwarder/internal/core/ports"
	"forwarder/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Identity headers. Auth itself lives in front of this service; the headers
// carry the already authenticated actor.
const (
	headerUserID  = "X-User-Id"
	headerStaffID = "X-Staff-Id"
)

// ErrorResponse is the generic failure body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createPackageHandler  commands.CreatePackageCommandHandler
	prebookPackageHandler commands.PrebookPackageCommandHandler
	confirmIntakeHandler  commands.ConfirmIntakeCommandHandler
	markArrivedHandler    commands.MarkArrivedCommandHandler
	quotePackageHandler   commands.QuotePackageCommandHandler
	declareValueHandler   commands.DeclareValueCommandHandler
	cancelPackageHandler  commands.CancelPackageCommandHandler
	markReturnedHandler   commands.MarkReturnedCommandHandler
	checkoutHandler       commands.CheckoutCommandHandler
	confirmPaymentHandler commands.ConfirmPaymentCommandHandler
	dispatchHandler       commands.DispatchShipmentCommandHandler
	confirmPickupHandler  commands.ConfirmPickupCommandHandler
	courierEventHandler   commands.CourierEventCommandHandler

	// Query handlers
	unshippedShipmentsHandler queries.GetUnshippedShipmentsQueryHandler
	customerPackagesHandler   queries.GetCustomerPackagesQueryHandler
	invoiceHandler            queries.GetInvoiceQueryHandler

	errorLedger ports.ErrorLedger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createPackageHandler commands.CreatePackageCommandHandler,
	prebookPackageHandler commands.PrebookPackageCommandHandler,
	confirmIntakeHandler commands.ConfirmIntakeCommandHandler,
	markArrivedHandler commands.MarkArrivedCommandHandler,
	quotePackageHandler commands.QuotePackageCommandHandler,
	declareValueHandler commands.DeclareValueCommandHandler,
	cancelPackageHandler commands.CancelPackageCommandHandler,
	markReturnedHandler commands.MarkReturnedCommandHandler,
	checkoutHandler commands.CheckoutCommandHandler,
	confirmPaymentHandler commands.ConfirmPaymentCommandHandler,
	dispatchHandler commands.DispatchShipmentCommandHandler,
	confirmPickupHandler commands.ConfirmPickupCommandHandler,
	courierEventHandler commands.CourierEventCommandHandler,
	unshippedShipmentsHandler queries.GetUnshippedShipmentsQueryHandler,
	customerPackagesHandler queries.GetCustomerPackagesQueryHandler,
	invoiceHandler queries.GetInvoiceQueryHandler,
	errorLedger ports.ErrorLedger,
) *Server {
	return &Server{
		createPackageHandler:      createPackageHandler,
		prebookPackageHandler:     prebookPackageHandler,
		confirmIntakeHandler:      confirmIntakeHandler,
		markArrivedHandler:        markArrivedHandler,
		quotePackageHandler:       quotePackageHandler,
		declareValueHandler:       declareValueHandler,
		cancelPackageHandler:      cancelPackageHandler,
		markReturnedHandler:       markReturnedHandler,
		checkoutHandler:           checkoutHandler,
		confirmPaymentHandler:     confirmPaymentHandler,
		dispatchHandler:           dispatchHandler,
		confirmPickupHandler:      confirmPickupHandler,
		courierEventHandler:       courierEventHandler,
		unshippedShipmentsHandler: unshippedShipmentsHandler,
		customerPackagesHandler:   customerPackagesHandler,
		invoiceHandler:            invoiceHandler,
		errorLedger:               errorLedger,
	}
}

// RegisterRoutes wires all staff, customer, and webhook routes on the echo
// instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	logistics := e.Group("/logistics")
	logistics.POST("/packages", s.PrebookPackage)
	logistics.POST("/packages/:id/arrived", s.MarkArrived)
	logistics.POST("/packages/:id/quote", s.QuotePackage)
	logistics.POST("/packages/:id/return", s.PrepareReturn)
	logistics.POST("/packages/:id/returned", s.MarkReturned)
	logistics.POST("/shipments/:id/ready", s.DispatchShipment)
	logistics.POST("/shipments/:id/pickup", s.ConfirmPickup)
	logistics.GET("/shipments/unshipped", s.GetUnshippedShipments)

	customer := e.Group("/customer")
	customer.GET("/packages", s.GetCustomerPackages)
	customer.POST("/packages", s.CreatePackage)
	customer.POST("/packages/:id/confirm", s.ConfirmIntake)
	customer.POST("/packages/:id/declare", s.DeclareValue)
	customer.POST("/packages/:id/cancel", s.CancelPackage)
	customer.POST("/checkout", s.Checkout)
	customer.GET("/invoices/:id", s.GetInvoice)

	hooks := e.Group("/hooks")
	hooks.POST("/payment", s.PaymentWebhook)
	hooks.POST("/courier", s.CourierWebhook)
}

// AddressRequest is the destination address block on intake payloads.
type AddressRequest struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	State   string `json:"state"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Country string `json:"country"`
}

// DestinationRequest is the delivery-mode-dependent destination block shared
// by self-intake and intake confirmation.
type DestinationRequest struct {
	Mode             string          `json:"mode"`
	DeliveryTypeID   *string         `json:"delivery_type_id"`
	Address          *AddressRequest `json:"address"`
	PickupLocationID *string         `json:"pickup_location_id"`
}

// CreatePackageRequest is the customer self-intake payload.
type CreatePackageRequest struct {
	TrackingNumber string `json:"tracking_number"`
	WarehouseID    string `json:"warehouse_id"`
	DestinationRequest
}

// PrebookPackageRequest is the staff intake payload.
type PrebookPackageRequest struct {
	TrackingNumber string `json:"tracking_number"`
	WarehouseID    string `json:"warehouse_id"`
	UserID         string `json:"user_id"`
}

// QuotePackageRequest is the staff quoting payload.
type QuotePackageRequest struct {
	Weight            float64  `json:"weight"`
	OriginCountry     string   `json:"origin_country"`
	OfferedServiceIDs []string `json:"offered_service_ids"`
}

// DeclareValueRequest is the customer value declaration payload.
type DeclareValueRequest struct {
	Value float64 `json:"value"`
}

// CheckoutEntryRequest is one cart entry on the checkout payload.
type CheckoutEntryRequest struct {
	PackageID    string   `json:"package_id"`
	DeclaredType string   `json:"declared_type"`
	ServiceIDs   []string `json:"service_ids"`
}

// CheckoutRequest is the customer checkout payload.
type CheckoutRequest struct {
	CustomerName  string                 `json:"customer_name"`
	CustomerEmail string                 `json:"customer_email"`
	Entries       []CheckoutEntryRequest `json:"entries"`
}

// CheckoutResponse reports the billing documents the checkout produced.
type CheckoutResponse struct {
	InvoiceID     string   `json:"invoice_id"`
	InvoiceNr     int64    `json:"invoice_nr"`
	TransactionID string   `json:"transaction_id"`
	ShipmentIDs   []string `json:"shipment_ids"`
	Total         float64  `json:"total"`
}

// PaymentWebhookRequest is the payment provider's settlement notification.
type PaymentWebhookRequest struct {
	TransactionID string `json:"transaction_id"`
}

// CourierWebhookRequest is the courier service's job progress notification.
type CourierWebhookRequest struct {
	ShipmentID string `json:"shipment_id"`
	JobType    int    `json:"job_type"`
	JobStatus  int    `json:"job_status"`
}

// IDResponse carries the identifier of a newly created resource.
type IDResponse struct {
	ID string `json:"id"`
}

// PrebookPackage handles POST /logistics/packages - staff package intake.
func (s *Server) PrebookPackage(ctx echo.Context) error {
	staffID, err := headerUUID(ctx, headerStaffID)
	if err != nil {
		return badRequest(ctx, "Invalid staff identity")
	}

	var req PrebookPackageRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return badRequest(ctx, "Invalid user id")
	}
	warehouseID, err := kernel.UUIDFromString(req.WarehouseID)
	if err != nil {
		return badRequest(ctx, "Invalid warehouse id")
	}

	packageID := kernel.NewUUID()
	cmd, err := commands.NewPrebookPackageCommand(packageID, userID, staffID, warehouseID, req.TrackingNumber)
	if err != nil {
		return badRequest(ctx, "Invalid package data: "+err.Error())
	}

	if err := s.prebookPackageHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "logistics", err)
	}

	return ctx.JSON(http.StatusCreated, IDResponse{ID: packageID.String()})
}

// MarkArrived handles POST /logistics/packages/:id/arrived.
func (s *Server) MarkArrived(ctx echo.Context) error {
	packageID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid package id")
	}

	cmd, err := commands.NewMarkArrivedCommand(packageID)
	if err != nil {
		return badRequest(ctx, "Invalid package id")
	}

	if err := s.markArrivedHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "logistics", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// QuotePackage handles POST /logistics/packages/:id/quote.
func (s *Server) QuotePackage(ctx echo.Context) error {
	staffID, err := headerUUID(ctx, headerStaffID)
	if err != nil {
		return badRequest(ctx, "Invalid staff identity")
	}
	packageID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid package id")
	}

	var req QuotePackageRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	serviceIDs, err := parseUUIDs(req.OfferedServiceIDs)
	if err != nil {
		return badRequest(ctx, "Invalid service id")
	}

	cmd, err := commands.NewQuotePackageCommand(packageID, staffID, req.Weight, req.OriginCountry, serviceIDs)
	if err != nil {
		return badRequest(ctx, "Invalid quote data: "+err.Error())
	}

	if err := s.quotePackageHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "logistics", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PrepareReturn handles POST /logistics/packages/:id/return - staff moving a
// package towards return before it was ever paid.
func (s *Server) PrepareReturn(ctx echo.Context) error {
	packageID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid package id")
	}

	cmd, err := commands.NewPrepareReturnCommand(packageID)
	if err != nil {
		return badRequest(ctx, "Invalid package id")
	}

	if err := s.cancelPackageHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "logistics", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// MarkReturned handles POST /logistics/packages/:id/returned.
func (s *Server) MarkReturned(ctx echo.Context) error {
	packageID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid package id")
	}

	cmd, err := commands.NewMarkReturnedCommand(packageID)
	if err != nil {
		return badRequest(ctx, "Invalid package id")
	}

	if err := s.markReturnedHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "logistics", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DispatchShipment handles POST /logistics/shipments/:id/ready - the
// ready-to-ship batch operation.
func (s *Server) DispatchShipment(ctx echo.Context) error {
	shipmentID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid shipment id")
	}

	cmd, err := commands.NewDispatchShipmentCommand(shipmentID)
	if err != nil {
		return badRequest(ctx, "Invalid shipment id")
	}

	if err := s.dispatchHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "logistics", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ConfirmPickup handles POST /logistics/shipments/:id/pickup - the customer
// collecting a pickup shipment at the counter.
func (s *Server) ConfirmPickup(ctx echo.Context) error {
	shipmentID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid shipment id")
	}

	cmd, err := commands.NewConfirmPickupCommand(shipmentID)
	if err != nil {
		return badRequest(ctx, "Invalid shipment id")
	}

	if err := s.confirmPickupHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "logistics", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetUnshippedShipments handles GET /logistics/shipments/unshipped.
func (s *Server) GetUnshippedShipments(ctx echo.Context) error {
	query := queries.NewGetUnshippedShipmentsQuery()

	shipments, err := s.unshippedShipmentsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "logistics", err)
	}

	type shipmentRow struct {
		ID           string    `json:"id"`
		ShipmentUID  string    `json:"shipment_uid"`
		DeliveryMode string    `json:"delivery_mode"`
		WarehouseID  string    `json:"warehouse_id"`
		UserID       string    `json:"user_id"`
		PackageCount int       `json:"package_count"`
		CreatedAt    time.Time `json:"created_at"`
	}

	response := make([]shipmentRow, len(shipments))
	for i, row := range shipments {
		response[i] = shipmentRow{
			ID:           row.ID.String(),
			ShipmentUID:  row.ShipmentUID,
			DeliveryMode: row.DeliveryMode,
			WarehouseID:  row.WarehouseID.String(),
			UserID:       row.UserID.String(),
			PackageCount: row.PackageCount,
			CreatedAt:    row.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreatePackage handles POST /customer/packages - customer self-intake.
func (s *Server) CreatePackage(ctx echo.Context) error {
	userID, err := headerUUID(ctx, headerUserID)
	if err != nil {
		return badRequest(ctx, "Invalid user identity")
	}

	var req CreatePackageRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	warehouseID, err := kernel.UUIDFromString(req.WarehouseID)
	if err != nil {
		return badRequest(ctx, "Invalid warehouse id")
	}
	mode, deliveryTypeID, shippedTo, pickupLocationID, err := parseDestination(req.DestinationRequest)
	if err != nil {
		return badRequest(ctx, "Invalid destination: "+err.Error())
	}

	packageID := kernel.NewUUID()
	cmd, err := commands.NewCreatePackageCommand(
		packageID, userID, warehouseID, req.TrackingNumber,
		mode, deliveryTypeID, shippedTo, pickupLocationID,
	)
	if err != nil {
		return badRequest(ctx, "Invalid package data: "+err.Error())
	}

	if err := s.createPackageHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "customer", err)
	}

	return ctx.JSON(http.StatusCreated, IDResponse{ID: packageID.String()})
}

// ConfirmIntake handles POST /customer/packages/:id/confirm - the customer
// supplying destination details for a staff-prebooked package.
func (s *Server) ConfirmIntake(ctx echo.Context) error {
	userID, err := headerUUID(ctx, headerUserID)
	if err != nil {
		return badRequest(ctx, "Invalid user identity")
	}
	packageID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid package id")
	}

	var req DestinationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	mode, deliveryTypeID, shippedTo, pickupLocationID, err := parseDestination(req)
	if err != nil {
		return badRequest(ctx, "Invalid destination: "+err.Error())
	}

	cmd, err := commands.NewConfirmIntakeCommand(packageID, userID, mode, deliveryTypeID, shippedTo, pickupLocationID)
	if err != nil {
		return badRequest(ctx, "Invalid confirmation data: "+err.Error())
	}

	if err := s.confirmIntakeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "customer", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeclareValue handles POST /customer/packages/:id/declare.
func (s *Server) DeclareValue(ctx echo.Context) error {
	userID, err := headerUUID(ctx, headerUserID)
	if err != nil {
		return badRequest(ctx, "Invalid user identity")
	}
	packageID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid package id")
	}

	var req DeclareValueRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewDeclareValueCommand(packageID, userID, req.Value)
	if err != nil {
		return badRequest(ctx, "Invalid declaration: "+err.Error())
	}

	if err := s.declareValueHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "customer", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelPackage handles POST /customer/packages/:id/cancel.
func (s *Server) CancelPackage(ctx echo.Context) error {
	userID, err := headerUUID(ctx, headerUserID)
	if err != nil {
		return badRequest(ctx, "Invalid user identity")
	}
	packageID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid package id")
	}

	cmd, err := commands.NewCancelPackageCommand(packageID, userID)
	if err != nil {
		return badRequest(ctx, "Invalid package id")
	}

	if err := s.cancelPackageHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "customer", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// Checkout handles POST /customer/checkout.
func (s *Server) Checkout(ctx echo.Context) error {
	userID, err := headerUUID(ctx, headerUserID)
	if err != nil {
		return badRequest(ctx, "Invalid user identity")
	}

	var req CheckoutRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	entries := make([]commands.CheckoutEntry, 0, len(req.Entries))
	for _, entry := range req.Entries {
		packageID, parseErr := kernel.UUIDFromString(entry.PackageID)
		if parseErr != nil {
			return badRequest(ctx, "Invalid package id")
		}
		serviceIDs, parseErr := parseUUIDs(entry.ServiceIDs)
		if parseErr != nil {
			return badRequest(ctx, "Invalid service id")
		}
		entries = append(entries, commands.CheckoutEntry{
			PackageID:    packageID,
			DeclaredType: entry.DeclaredType,
			ServiceIDs:   serviceIDs,
		})
	}

	cmd, err := commands.NewCheckoutCommand(userID, req.CustomerName, req.CustomerEmail, entries)
	if err != nil {
		return badRequest(ctx, "Invalid checkout data: "+err.Error())
	}

	result, err := s.checkoutHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "customer", err)
	}

	shipmentIDs := make([]string, len(result.ShipmentIDs))
	for i, id := range result.ShipmentIDs {
		shipmentIDs[i] = id.String()
	}

	return ctx.JSON(http.StatusOK, CheckoutResponse{
		InvoiceID:     result.InvoiceID.String(),
		InvoiceNr:     result.InvoiceNr,
		TransactionID: result.TransactionID.String(),
		ShipmentIDs:   shipmentIDs,
		Total:         result.Total,
	})
}

// GetCustomerPackages handles GET /customer/packages.
func (s *Server) GetCustomerPackages(ctx echo.Context) error {
	userID, err := headerUUID(ctx, headerUserID)
	if err != nil {
		return badRequest(ctx, "Invalid user identity")
	}

	query, err := queries.NewGetCustomerPackagesQuery(userID)
	if err != nil {
		return badRequest(ctx, "Invalid user identity")
	}

	packages, err := s.customerPackagesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "customer", err)
	}

	type packageRow struct {
		ID             string     `json:"id"`
		TrackingNumber string     `json:"tracking_number"`
		Status         string     `json:"status"`
		DeliveryMode   string     `json:"delivery_mode"`
		Weight         float64    `json:"weight"`
		ShippingCost   float64    `json:"shipping_cost"`
		CreatedAt      time.Time  `json:"created_at"`
		ArrivedAt      *time.Time `json:"arrived_at"`
	}

	response := make([]packageRow, len(packages))
	for i, row := range packages {
		response[i] = packageRow{
			ID:             row.ID.String(),
			TrackingNumber: row.TrackingNumber,
			Status:         row.Status,
			DeliveryMode:   row.DeliveryMode,
			Weight:         row.Weight,
			ShippingCost:   row.ShippingCost,
			CreatedAt:      row.CreatedAt,
			ArrivedAt:      row.ArrivedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetInvoice handles GET /customer/invoices/:id.
func (s *Server) GetInvoice(ctx echo.Context) error {
	userID, err := headerUUID(ctx, headerUserID)
	if err != nil {
		return badRequest(ctx, "Invalid user identity")
	}
	invoiceID, err := pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid invoice id")
	}

	query, err := queries.NewGetInvoiceQuery(invoiceID, userID)
	if err != nil {
		return badRequest(ctx, "Invalid invoice id")
	}

	invoice, err := s.invoiceHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "customer", err)
	}

	type invoiceLine struct {
		Name   string   `json:"name"`
		Weight *float64 `json:"weight"`
		Cost   float64  `json:"cost"`
	}
	type invoiceView struct {
		ID            string        `json:"id"`
		InvoiceNr     int64         `json:"invoice_nr"`
		CustomerName  string        `json:"customer_name"`
		CustomerEmail string        `json:"customer_email"`
		AddressLines  []string      `json:"address_lines"`
		Lines         []invoiceLine `json:"lines"`
		Subtotal      float64       `json:"subtotal"`
		Discount      float64       `json:"discount"`
		Total         float64       `json:"total"`
		CreatedAt     time.Time     `json:"created_at"`
	}

	lines := make([]invoiceLine, len(invoice.Lines))
	for i, line := range invoice.Lines {
		lines[i] = invoiceLine{Name: line.Name, Weight: line.Weight, Cost: line.Cost}
	}

	return ctx.JSON(http.StatusOK, invoiceView{
		ID:            invoice.ID.String(),
		InvoiceNr:     invoice.InvoiceNr,
		CustomerName:  invoice.CustomerName,
		CustomerEmail: invoice.CustomerEmail,
		AddressLines:  invoice.AddressLines,
		Lines:         lines,
		Subtotal:      invoice.Subtotal,
		Discount:      invoice.Discount,
		Total:         invoice.Total,
		CreatedAt:     invoice.CreatedAt,
	})
}

// PaymentWebhook handles POST /hooks/payment - the payment provider reporting
// a settled transaction. Replays are acknowledged without effect.
func (s *Server) PaymentWebhook(ctx echo.Context) error {
	var req PaymentWebhookRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	transactionID, err := kernel.UUIDFromString(req.TransactionID)
	if err != nil {
		return badRequest(ctx, "Invalid transaction id")
	}

	cmd, err := commands.NewConfirmPaymentCommand(transactionID)
	if err != nil {
		return badRequest(ctx, "Invalid transaction id")
	}

	if err := s.confirmPaymentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "hooks", err)
	}

	return ctx.NoContent(http.StatusOK)
}

// CourierWebhook handles POST /hooks/courier - the courier service reporting
// job progress. Replays are acknowledged without effect.
func (s *Server) CourierWebhook(ctx echo.Context) error {
	var req CourierWebhookRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	shipmentID, err := kernel.UUIDFromString(req.ShipmentID)
	if err != nil {
		return badRequest(ctx, "Invalid shipment id")
	}
	event, err := commands.CourierEventFromJob(req.JobType, req.JobStatus)
	if err != nil {
		return badRequest(ctx, "Unknown courier event")
	}

	cmd, err := commands.NewCourierEventCommand(shipmentID, event)
	if err != nil {
		return badRequest(ctx, "Invalid courier event")
	}

	if err := s.courierEventHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "hooks", err)
	}

	return ctx.NoContent(http.StatusOK)
}

// fail records the failure in the error ledger and maps it to a response with
// a generic body. The ledger write is best effort.
func (s *Server) fail(ctx echo.Context, subsystem string, err error) error {
	entry := ports.ErrorEntry{
		Subsystem: subsystem,
		Endpoint:  ctx.Request().Method + " " + ctx.Path(),
		Name:      subsystem + " failure",
		Message:   err.Error(),
		Stack:     string(debug.Stack()),
		UserID:    ctx.Request().Header.Get(headerUserID),
	}
	_ = s.errorLedger.Record(ctx.Request().Context(), entry)

	code := statusFor(err)
	return ctx.JSON(code, ErrorResponse{Code: code, Message: messageFor(code)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, parcel.ErrInvalidTransition),
		errors.Is(err, shipment.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, parcel.ErrDestinationIsInvalid):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrDispatchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(code int) string {
	switch code {
	case http.StatusNotFound:
		return "Not found"
	case http.StatusConflict:
		return "Operation conflicts with current state"
	case http.StatusBadRequest:
		return "Invalid request"
	case http.StatusBadGateway:
		return "Upstream service unavailable"
	default:
		return "Operation failed"
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func pathUUID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

func headerUUID(ctx echo.Context, header string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Request().Header.Get(header))
}

func parseUUIDs(raw []string) ([]kernel.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]kernel.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := kernel.UUIDFromString(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseDestination(req DestinationRequest) (
	parcel.DeliveryMode, *kernel.UUID, *kernel.Address, *kernel.UUID, error,
) {
	mode := parcel.DeliveryMode(req.Mode)
	if err := mode.Validate(); err != nil {
		return "", nil, nil, nil, err
	}

	var deliveryTypeID, pickupLocationID *kernel.UUID
	var shippedTo *kernel.Address

	if req.DeliveryTypeID != nil {
		id, err := kernel.UUIDFromString(*req.DeliveryTypeID)
		if err != nil {
			return "", nil, nil, nil, err
		}
		deliveryTypeID = &id
	}
	if req.PickupLocationID != nil {
		id, err := kernel.UUIDFromString(*req.PickupLocationID)
		if err != nil {
			return "", nil, nil, nil, err
		}
		pickupLocationID = &id
	}
	if req.Address != nil {
		address, err := kernel.NewAddress(
			req.Address.Name, req.Address.Street, req.Address.State,
			req.Address.City, req.Address.Zipcode, req.Address.Country,
		)
		if err != nil {
			return "", nil, nil, nil, err
		}
		shippedTo = &address
	}

	return mode, deliveryTypeID, shippedTo, pickupLocationID, nil
}
