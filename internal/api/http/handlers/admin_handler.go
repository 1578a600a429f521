package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/billing-portal/internal/api/dto"
	"github.com/spec-kit/billing-portal/internal/domain"
	"github.com/spec-kit/billing-portal/internal/service"
)

// AdminHandler serves the /api/admin group. The group is guarded by
// auth.RequireAdmin, so handlers only need the caller for event attribution.
type AdminHandler struct {
	auth    *service.AuthService
	billing *service.BillingService
	support *service.SupportService
	admin   *service.AdminService
}

// AdminHandlerDeps bundles the services behind admin endpoints.
type AdminHandlerDeps struct {
	Auth    *service.AuthService
	Billing *service.BillingService
	Support *service.SupportService
	Admin   *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(deps AdminHandlerDeps) *AdminHandler {
	return &AdminHandler{auth: deps.Auth, billing: deps.Billing, support: deps.Support, admin: deps.Admin}
}

// ListCustomers GET /api/admin/customers.
func (h *AdminHandler) ListCustomers(c *fiber.Ctx) error {
	role := domain.RoleCustomer
	users, err := h.auth.ListUsers(c.UserContext(), &role)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponses(users))
}

// ListUsers GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.UserContext(), nil)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponses(users))
}

// CustomerDetail GET /api/admin/customers/:id.
func (h *AdminHandler) CustomerDetail(c *fiber.Ctx) error {
	detail, err := h.admin.CustomerDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.CustomerDetailResponse{
		Customer: dto.NewUserResponse(detail.Customer),
		Stats:    dto.NewStatsResponse(detail.Stats),
		Receipts: dto.NewReceiptResponses(detail.Receipts),
	})
}

// UpdateStats POST /api/admin/stats/update.
func (h *AdminHandler) UpdateStats(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatsRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidPayload
	}
	if req.CustomerID == "" || !req.WeekUsage.Present || !req.MonthUsage.Present {
		return service.ErrMissingFields
	}

	stats, err := h.billing.UpsertStats(c.UserContext(), caller, req.CustomerID, req.WeekUsage.Value, req.MonthUsage.Value)
	if err != nil {
		return err
	}
	return c.JSON(dto.UpdateStatsResponse{
		Message:    "Statistics updated successfully",
		CustomerID: stats.UserID,
		WeekUsage:  stats.WeekUsage,
		MonthUsage: stats.MonthUsage,
	})
}

// GenerateReceipt POST /api/admin/receipts/generate.
func (h *AdminHandler) GenerateReceipt(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req dto.GenerateReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidPayload
	}

	receipt, err := h.billing.GenerateReceipt(c.UserContext(), caller, service.GenerateReceiptInput{
		CustomerID:   req.CustomerID,
		Consumption:  req.Consumption.Value,
		Rate:         req.Rate.Value,
		BillingMonth: req.BillingMonth,
		DueDate:      req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.ReceiptMessageResponse{
		Message: "Receipt generated successfully",
		Receipt: dto.NewReceiptResponse(*receipt),
	})
}

// ListReceipts GET /api/admin/receipts.
func (h *AdminHandler) ListReceipts(c *fiber.Ctx) error {
	receipts, err := h.billing.ListAllReceipts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReceiptResponses(receipts))
}

// ListTickets GET /api/admin/support/tickets.
func (h *AdminHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.support.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}

// RespondTicket POST /api/admin/support/respond.
func (h *AdminHandler) RespondTicket(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req dto.RespondTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidPayload
	}

	ticket, err := h.support.Respond(c.UserContext(), caller, req.TicketID, req.Response)
	if err != nil {
		return err
	}
	return c.JSON(dto.RespondTicketResponse{
		Message: "Response sent successfully",
		Ticket: dto.RespondedTicket{
			ID:           ticket.ID,
			CustomerName: ticket.CustomerName,
			Subject:      ticket.Subject,
			Status:       ticket.Status,
		},
	})
}

// DashboardStats GET /api/admin/dashboard/stats.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	summary, err := h.admin.DashboardStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDashboardResponse(*summary))
}
