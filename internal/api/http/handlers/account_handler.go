package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/billing-portal/internal/api/dto"
	"github.com/spec-kit/billing-portal/internal/auth"
	"github.com/spec-kit/billing-portal/internal/domain"
	"github.com/spec-kit/billing-portal/internal/service"
	apperrors "github.com/spec-kit/billing-portal/pkg/util/errorutil"
)

var errInvalidPayload = apperrors.NewValidationError("Invalid request payload", nil)

// AccountHandler serves the authenticated customer's own data.
type AccountHandler struct {
	billing *service.BillingService
	support *service.SupportService
}

// NewAccountHandler constructs handler.
func NewAccountHandler(billing *service.BillingService, support *service.SupportService) *AccountHandler {
	return &AccountHandler{billing: billing, support: support}
}

// Stats GET /api/auth/stats.
func (h *AccountHandler) Stats(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	stats, err := h.billing.GetStats(c.UserContext(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStatsResponse(*stats))
}

// Receipts GET /api/auth/receipts.
func (h *AccountHandler) Receipts(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	receipts, err := h.billing.ListReceipts(c.UserContext(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReceiptResponses(receipts))
}

// SubmitTicket POST /api/auth/support.
func (h *AccountHandler) SubmitTicket(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidPayload
	}
	ticket, err := h.support.Submit(c.UserContext(), caller, req.Subject, req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.SubmitTicketResponse{
		Message:  "Ticket submitted successfully",
		TicketID: ticket.ID,
	})
}

// Tickets GET /api/auth/support.
func (h *AccountHandler) Tickets(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	tickets, err := h.support.ListForUser(c.UserContext(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}

// Pay POST /api/auth/payment.
func (h *AccountHandler) Pay(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidPayload
	}
	receipt, err := h.billing.Pay(c.UserContext(), caller, req.ReceiptID)
	if err != nil {
		return err
	}
	paid := dto.NewReceiptResponse(*receipt)
	return c.JSON(dto.PaymentResponse{
		Message: "Payment processed successfully",
		Receipt: dto.PaymentReceipt{ID: paid.ID, Total: paid.Total, PaidDate: paid.PaidDate},
	})
}

func callerIdentity(c *fiber.Ctx) (domain.Identity, error) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return domain.Identity{}, auth.ErrMissingToken
	}
	return claims.Identity(), nil
}
