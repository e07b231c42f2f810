package commands

import (
	"context"

	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/pkg/errs"
)

// DeclareValueCommandHandler stores the customer's declared value and moves
// the package to Unpaid. Declared-value-percentage services depend on the
// value being present before checkout.
type DeclareValueCommandHandler struct {
	uowFactory ParcelUoWFactory
}

// NewDeclareValueCommandHandler creates a handler for value declaration.
func NewDeclareValueCommandHandler(uowFactory ParcelUoWFactory) DeclareValueCommandHandler {
	return DeclareValueCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the value declaration command.
func (h DeclareValueCommandHandler) Handle(ctx context.Context, cmd DeclareValueCommand) error {
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
	if !aggregate.UserID().IsEqual(cmd.UserID()) {
		return errs.NewObjectNotFoundError("packageID", cmd.PackageID())
	}

	if err = aggregate.DeclareValue(cmd.Value()); err != nil {
		return err
	}

	if err = parcelRepo.UpdateWithStatusGuard(ctx, aggregate, parcel.AwaitingUserActions); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
