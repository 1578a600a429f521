package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/billing-portal/internal/domain"
)

func TestNumberAcceptsNumbersAndStrings(t *testing.T) {
	cases := []struct {
		body    string
		value   float64
		present bool
	}{
		{`{"consumption": 185}`, 185, true},
		{`{"consumption": "2850.5"}`, 2850.5, true},
		{`{"consumption": " 0 "}`, 0, true},
		{`{"consumption": ""}`, 0, false},
		{`{"consumption": null}`, 0, false},
		{`{}`, 0, false},
	}
	for _, tc := range cases {
		var req GenerateReceiptRequest
		require.NoError(t, json.Unmarshal([]byte(tc.body), &req), tc.body)
		assert.Equal(t, tc.value, req.Consumption.Value, tc.body)
		assert.Equal(t, tc.present, req.Consumption.Present, tc.body)
	}
}

func TestNumberRejectsGarbage(t *testing.T) {
	var req GenerateReceiptRequest
	assert.Error(t, json.Unmarshal([]byte(`{"rate": "abc"}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"rate": true}`), &req))
}

func TestReceiptResponseFormatsDates(t *testing.T) {
	paid := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	resp := NewReceiptResponse(domain.Receipt{
		ID:       "r1",
		Total:    527250,
		Status:   domain.ReceiptStatusPaid,
		DueDate:  time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC),
		PaidDate: &paid,
	})

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "2025-03-25", decoded["due_date"])
	assert.Equal(t, "2025-03-12", decoded["paid_date"])
	assert.NotContains(t, decoded, "customer_name")

	pending := NewReceiptResponse(domain.Receipt{DueDate: paid})
	assert.Nil(t, pending.PaidDate)
}

func TestDashboardResponseNeverNilActivity(t *testing.T) {
	resp := NewDashboardResponse(domain.DashboardSummary{PendingCount: 2, PendingAmount: 30})
	assert.NotNil(t, resp.RecentActivity)
	assert.Equal(t, PendingPayments{Count: 2, Amount: 30}, resp.PendingPayments)
}
