package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func compact(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

func TestMarkPaidOnlyMatchesPendingOwnedReceipt(t *testing.T) {
	query := compact(markReceiptPaidQuery)
	assert.True(t, strings.HasPrefix(query, "UPDATE receipts"))
	assert.Contains(t, query, "WHERE id=$1 AND user_id=$2 AND status=$4")
	assert.Contains(t, query, "paid_date=CURRENT_DATE")
	assert.Contains(t, query, "RETURNING id, user_id")
}

func TestStatsUpsertIsSingleStatement(t *testing.T) {
	query := compact(upsertStatsQuery)
	assert.True(t, strings.HasPrefix(query, "INSERT INTO user_stats"))
	assert.Contains(t, query, "ON CONFLICT (user_id) DO UPDATE SET")
	assert.Contains(t, query, "week_usage = EXCLUDED.week_usage")
	assert.Contains(t, query, "month_usage = EXCLUDED.month_usage")
	assert.Contains(t, query, "RETURNING week_usage, month_usage, updated_at")
}

func TestInsertReceiptReadsBackStoredAmounts(t *testing.T) {
	query := compact(insertReceiptQuery)
	assert.Contains(t, query, "RETURNING id, consumption, rate, total, due_date, created_at, updated_at")
}

func TestResolveTicketTargetsSingleTicket(t *testing.T) {
	query := compact(resolveTicketQuery)
	assert.True(t, strings.HasPrefix(query, "UPDATE support_tickets"))
	assert.Contains(t, query, "WHERE id=$3")
	assert.Contains(t, query, "RETURNING id, user_id, customer_name")
}
