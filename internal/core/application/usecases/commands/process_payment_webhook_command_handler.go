package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/payment"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"
)

// ProcessPaymentWebhookCommandHandler ingests payment processor webhooks.
//
// Processing pipeline:
//  1. actions not about payments are acknowledged and dropped
//  2. the event id is checked against the dedup store; a recent duplicate is
//     acknowledged without work (best effort, the upsert below is the
//     correctness point)
//  3. the payment's authoritative state is fetched from the processor
//  4. an in-process payment is deferred; the processor will notify again
//  5. the payment record is upserted by external id in the same transaction
//     as the order transition; a re-delivery carrying an unchanged status
//     commits the metadata update and triggers nothing else
//
// The order's target status comes from the payment outcome: an approved
// pickup order goes to InPreparation, an approved home delivery to Pending
// (reserving stock), a rejected or cancelled payment to PaymentRejected, and
// a still-pending payment stays in PaymentPending.
type ProcessPaymentWebhookCommandHandler struct {
	uowFactory WebhookUoWFactory
	gateway    ports.PaymentGateway
	dedup      ports.EventDeduplicator
	lifecycle  services.OrderLifecycleService
	hook       StatusChangeHook
	logger     *slog.Logger
}

// NewProcessPaymentWebhookCommandHandler creates a handler for webhook
// ingestion.
func NewProcessPaymentWebhookCommandHandler(
	uowFactory WebhookUoWFactory,
	gateway ports.PaymentGateway,
	dedup ports.EventDeduplicator,
	lifecycle services.OrderLifecycleService,
	hook StatusChangeHook,
	logger *slog.Logger,
) ProcessPaymentWebhookCommandHandler {
	return ProcessPaymentWebhookCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		dedup:      dedup,
		lifecycle:  lifecycle,
		hook:       hook,
		logger:     logger.With("component", "payment_webhook"),
	}
}

// Handle processes one webhook notification. Returns nil for every absorbed
// event (wrong action, duplicate, in-process payment, unchanged re-delivery);
// the processor must not retry those.
func (h *ProcessPaymentWebhookCommandHandler) Handle(ctx context.Context, cmd ProcessPaymentWebhookCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !strings.Contains(cmd.Action(), "payment") {
		h.logger.Info("ignoring non-payment webhook", "eventId", cmd.EventID(), "action", cmd.Action())
		return nil
	}

	seen, err := h.dedup.AlreadyProcessed(ctx, cmd.EventID())
	if err != nil {
		h.logger.Warn("dedup check failed, continuing", "eventId", cmd.EventID(), "error", err)
	} else if seen {
		h.logger.Info("duplicate webhook absorbed", "eventId", cmd.EventID())
		return nil
	}

	details, err := h.gateway.GetPaymentDetails(ctx, cmd.PaymentID())
	if err != nil {
		return fmt.Errorf("fetch payment %s: %w", cmd.PaymentID(), err)
	}

	status, err := payment.ParseStatus(details.Status)
	if err != nil {
		return err
	}

	if status == payment.StatusInProcess {
		h.logger.Info("payment still in process, deferring", "paymentId", details.ID)
		return nil
	}

	if details.ExternalReference == "" {
		return fmt.Errorf("%w: payment %s", ErrMissingOrderReference, details.ID)
	}

	orderID, err := kernel.UUIDFromString(details.ExternalReference)
	if err != nil {
		return fmt.Errorf("%w: payment %s carries %q", ErrMissingOrderReference, details.ID, details.ExternalReference)
	}

	changedOrder, err := h.apply(ctx, orderID, status, details)
	if err != nil {
		return err
	}

	if err = h.dedup.MarkProcessed(ctx, cmd.EventID()); err != nil {
		h.logger.Warn("dedup mark failed", "eventId", cmd.EventID(), "error", err)
	}

	if changedOrder != nil {
		h.hook.OrderStatusChanged(ctx, changedOrder.ID(), changedOrder.Status())
	}

	return nil
}

// apply upserts the payment record and transitions the order in one
// transaction. Returns the order when its status changed, nil otherwise.
func (h *ProcessPaymentWebhookCommandHandler) apply(
	ctx context.Context,
	orderID kernel.UUID,
	status payment.Status,
	details ports.PaymentDetails,
) (*order.Order, error) {
	amount, err := kernel.NewMoney(details.TransactionAmountCents)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	paymentRepo := uow.PaymentRepository()

	record, err := paymentRepo.GetByExternalID(ctx, details.ID)
	switch {
	case err == nil:
		if changed := record.ApplyUpdate(status, amount, details.DateCreated); !changed {
			// Unchanged status re-delivery: persist metadata, skip the
			// transition entirely.
			if updateErr := paymentRepo.Update(ctx, record); updateErr != nil {
				return nil, updateErr
			}
			h.logger.Info("payment status unchanged, transition skipped", "paymentId", details.ID)
			return nil, uow.Commit(ctx)
		}
		if updateErr := paymentRepo.Update(ctx, record); updateErr != nil {
			return nil, updateErr
		}
	case errors.Is(err, errs.ErrObjectNotFound):
		record, err = payment.NewRecord(details.ID, orderID, status, amount, details.DateCreated)
		if err != nil {
			return nil, err
		}
		if addErr := paymentRepo.Add(ctx, record); addErr != nil {
			return nil, addErr
		}
	default:
		return nil, err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	target := paymentOutcomeTarget(status, aggregate.DeliveryMethod())

	stockRepo := uow.StockRepository()
	stocks, err := loadStocksForOrders(ctx, stockRepo, []*order.Order{aggregate})
	if err != nil {
		return nil, err
	}

	changed, err := h.lifecycle.Transition(aggregate, target, stocks)
	if err != nil {
		return nil, err
	}

	if changed {
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return nil, err
		}
		if err = persistAdjustedStocks(ctx, stockRepo, stocks); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if !changed {
		return nil, nil
	}
	return aggregate, nil
}

// paymentOutcomeTarget maps a payment outcome and delivery method to the
// order's next status.
func paymentOutcomeTarget(status payment.Status, method order.DeliveryMethod) order.Status {
	switch status {
	case payment.StatusApproved:
		if method == order.PickUpAtStore {
			return order.StatusInPreparation
		}
		return order.StatusPending
	case payment.StatusRejected, payment.StatusCancelled:
		return order.StatusPaymentRejected
	default:
		return order.StatusPaymentPending
	}
}
