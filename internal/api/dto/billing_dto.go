package dto

import (
	"time"

	"github.com/spec-kit/billing-portal/internal/domain"
)

// StatsResponse is a customer's usage.
type StatsResponse struct {
	WeekUsage  float64 `json:"week_usage"`
	MonthUsage float64 `json:"month_usage"`
}

// UpdateStatsRequest payload for POST /api/admin/stats/update.
type UpdateStatsRequest struct {
	CustomerID string `json:"customerId"`
	WeekUsage  Number `json:"weekUsage"`
	MonthUsage Number `json:"monthUsage"`
}

// UpdateStatsResponse echoes the stored figures.
type UpdateStatsResponse struct {
	Message    string  `json:"message"`
	CustomerID string  `json:"customerId"`
	WeekUsage  float64 `json:"weekUsage"`
	MonthUsage float64 `json:"monthUsage"`
}

// GenerateReceiptRequest payload for POST /api/admin/receipts/generate.
type GenerateReceiptRequest struct {
	CustomerID   string `json:"customerId"`
	Consumption  Number `json:"consumption"`
	Rate         Number `json:"rate"`
	BillingMonth string `json:"billingMonth"`
	DueDate      string `json:"dueDate"`
}

// PaymentRequest payload for POST /api/auth/payment. PaymentMethod is accepted and ignored.
type PaymentRequest struct {
	ReceiptID     string `json:"receiptId"`
	PaymentMethod string `json:"paymentMethod"`
}

// ReceiptResponse renders a receipt. Customer fields are set on admin listings only.
type ReceiptResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	BillingMonth  string               `json:"billing_month"`
	Consumption   float64              `json:"consumption"`
	Rate          float64              `json:"rate"`
	Total         float64              `json:"total"`
	Status        domain.ReceiptStatus `json:"status"`
	DueDate       string               `json:"due_date"`
	PaidDate      *string              `json:"paid_date"`
	CreatedAt     time.Time            `json:"created_at"`
	CustomerName  string               `json:"customer_name,omitempty"`
	CustomerEmail string               `json:"customer_email,omitempty"`
}

// ReceiptMessageResponse wraps a receipt with a confirmation message.
type ReceiptMessageResponse struct {
	Message string          `json:"message"`
	Receipt ReceiptResponse `json:"receipt"`
}

// PaymentReceipt is the slice of a paid receipt returned to the payer.
type PaymentReceipt struct {
	ID       string  `json:"id"`
	Total    float64 `json:"total"`
	PaidDate *string `json:"paid_date"`
}

// PaymentResponse for POST /api/auth/payment.
type PaymentResponse struct {
	Message string         `json:"message"`
	Receipt PaymentReceipt `json:"receipt"`
}

// CustomerDetailResponse for GET /api/admin/customers/:id.
type CustomerDetailResponse struct {
	Customer UserResponse      `json:"customer"`
	Stats    StatsResponse     `json:"stats"`
	Receipts []ReceiptResponse `json:"receipts"`
}

// PendingPayments summarizes unpaid receipts.
type PendingPayments struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// ActivityResponse is one dashboard feed entry.
type ActivityResponse struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// DashboardResponse for GET /api/admin/dashboard/stats.
type DashboardResponse struct {
	TotalCustomers  int64              `json:"totalCustomers"`
	PendingPayments PendingPayments    `json:"pendingPayments"`
	OpenTickets     int64              `json:"openTickets"`
	RecentActivity  []ActivityResponse `json:"recentActivity"`
}

// NewStatsResponse maps usage stats.
func NewStatsResponse(s domain.UsageStats) StatsResponse {
	return StatsResponse{WeekUsage: s.WeekUsage, MonthUsage: s.MonthUsage}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}

// NewReceiptResponse maps a receipt.
func NewReceiptResponse(r domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		BillingMonth:  r.BillingMonth,
		Consumption:   r.Consumption,
		Rate:          r.Rate,
		Total:         r.Total,
		Status:        r.Status,
		DueDate:       r.DueDate.Format(domain.DateLayout),
		PaidDate:      formatDate(r.PaidDate),
		CreatedAt:     r.CreatedAt,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
	}
}

// NewReceiptResponses maps a slice of receipts.
func NewReceiptResponses(receipts []domain.Receipt) []ReceiptResponse {
	out := make([]ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		out = append(out, NewReceiptResponse(r))
	}
	return out
}

// NewDashboardResponse maps the admin summary.
func NewDashboardResponse(s domain.DashboardSummary) DashboardResponse {
	activity := make([]ActivityResponse, 0, len(s.RecentActivity))
	for _, a := range s.RecentActivity {
		activity = append(activity, ActivityResponse{Type: a.Type, Description: a.Description, CreatedAt: a.CreatedAt})
	}
	return DashboardResponse{
		TotalCustomers:  s.TotalCustomers,
		PendingPayments: PendingPayments{Count: s.PendingCount, Amount: s.PendingAmount},
		OpenTickets:     s.OpenTickets,
		RecentActivity:  activity,
	}
}
