package db

import (
	"context"
	"testing"

	"toolcrib/apperr"
	"toolcrib/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLoanBatch(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewRepo(gdb)
	ctx := context.Background()

	operator := seedUser(t, gdb, "op", "warehouse", models.RoleOperator)
	recipient := seedUser(t, gdb, "worker", "assembly", models.RoleUser)
	class := seedClass(t, gdb, "hand tools")
	model := seedModel(t, gdb, "generic", false, 0)

	t.Run("partial quantities keep tool available", func(t *testing.T) {
		tool := seedTool(t, gdb, "DRL-01", class, model, 5, 5)

		batch, err := repo.CreateLoanBatch(ctx, CreateLoanBatchInput{
			Items:      []BatchItem{{ToolID: tool.ID, Quantity: 3}},
			UserID:     recipient.ID,
			OperatorID: operator.ID,
		})
		require.NoError(t, err)
		require.Len(t, batch.Loans, 1)
		assert.NotEmpty(t, batch.BatchID)

		loan := batch.Loans[0]
		assert.Equal(t, models.LoanActive, loan.Status)
		assert.True(t, loan.UserConfirmation)
		require.NotNil(t, loan.UserConfirmationDate)
		assert.Equal(t, 3, loan.QuantityLoaned)

		after := reloadTool(t, gdb, tool.ID)
		assert.Equal(t, 2, after.AvailableQuantity)
		assert.Equal(t, models.ToolAvailable, after.Status)

		// 借空后整体转为 loaned
		_, err = repo.CreateLoanBatch(ctx, CreateLoanBatchInput{
			Items:      []BatchItem{{ToolID: tool.ID, Quantity: 2}},
			UserID:     recipient.ID,
			OperatorID: operator.ID,
		})
		require.NoError(t, err)
		after = reloadTool(t, gdb, tool.ID)
		assert.Equal(t, 0, after.AvailableQuantity)
		assert.Equal(t, models.ToolLoaned, after.Status)
	})

	t.Run("one batch id spans every tool in the request", func(t *testing.T) {
		t1 := seedTool(t, gdb, "SAW-01", class, model, 2, 2)
		t2 := seedTool(t, gdb, "HAM-01", class, model, 4, 4)

		batch, err := repo.CreateLoanBatch(ctx, CreateLoanBatchInput{
			Items: []BatchItem{
				{ToolID: t1.ID, Quantity: 1},
				{ToolID: t2.ID, Quantity: 2},
			},
			UserID:     recipient.ID,
			OperatorID: operator.ID,
		})
		require.NoError(t, err)
		require.Len(t, batch.Loans, 2)
		assert.Equal(t, batch.BatchID, batch.Loans[0].BatchID)
		assert.Equal(t, batch.BatchID, batch.Loans[1].BatchID)
	})

	t.Run("rejects empty and non positive input", func(t *testing.T) {
		_, err := repo.CreateLoanBatch(ctx, CreateLoanBatchInput{
			UserID: recipient.ID, OperatorID: operator.ID,
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		tool := seedTool(t, gdb, "WRN-01", class, model, 1, 1)
		_, err = repo.CreateLoanBatch(ctx, CreateLoanBatchInput{
			Items:      []BatchItem{{ToolID: tool.ID, Quantity: 0}},
			UserID:     recipient.ID,
			OperatorID: operator.ID,
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("unknown tool fails with not found", func(t *testing.T) {
		_, err := repo.CreateLoanBatch(ctx, CreateLoanBatchInput{
			Items:      []BatchItem{{ToolID: "no-such-tool", Quantity: 1}},
			UserID:     recipient.ID,
			OperatorID: operator.ID,
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("all or nothing when one tool lacks availability", func(t *testing.T) {
		ok := seedTool(t, gdb, "PLR-01", class, model, 5, 5)
		scarce := seedTool(t, gdb, "MTR-01", class, model, 2, 1)

		_, err := repo.CreateLoanBatch(ctx, CreateLoanBatchInput{
			Items: []BatchItem{
				{ToolID: ok.ID, Quantity: 2},
				{ToolID: scarce.ID, Quantity: 2},
			},
			UserID:     recipient.ID,
			OperatorID: operator.ID,
		})
		require.ErrorIs(t, err, apperr.ErrInsufficientAvailability)

		// 没有任何一条借用落库，库存原封不动
		var n int64
		require.NoError(t, gdb.Model(&models.Loan{}).
			Where("tool_id IN ?", []string{ok.ID, scarce.ID}).
			Count(&n).Error)
		assert.Zero(t, n)
		assert.Equal(t, 5, reloadTool(t, gdb, ok.ID).AvailableQuantity)
		assert.Equal(t, 1, reloadTool(t, gdb, scarce.ID).AvailableQuantity)
	})

	t.Run("availability invariant holds after every operation", func(t *testing.T) {
		var tools []models.Tool
		require.NoError(t, gdb.Find(&tools).Error)
		for _, tool := range tools {
			assert.GreaterOrEqual(t, tool.AvailableQuantity, 0, tool.Code)
			assert.LessOrEqual(t, tool.AvailableQuantity, tool.Quantity, tool.Code)
		}
	})
}

func TestReturnLoan(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewRepo(gdb)
	ctx := context.Background()

	operator := seedUser(t, gdb, "op", "warehouse", models.RoleOperator)
	recipient := seedUser(t, gdb, "worker", "assembly", models.RoleUser)
	class := seedClass(t, gdb, "power tools")
	model := seedModel(t, gdb, "generic", false, 0)

	t.Run("restores quantity and resets status", func(t *testing.T) {
		tool := seedTool(t, gdb, "GRD-01", class, model, 2, 2)
		batch, err := repo.CreateLoanBatch(ctx, CreateLoanBatchInput{
			Items:      []BatchItem{{ToolID: tool.ID, Quantity: 2}},
			UserID:     recipient.ID,
			OperatorID: operator.ID,
		})
		require.NoError(t, err)
		require.Equal(t, models.ToolLoaned, reloadTool(t, gdb, tool.ID).Status)

		returned, err := repo.ReturnLoan(ctx, batch.Loans[0].ID)
		require.NoError(t, err)
		assert.Equal(t, models.LoanReturned, returned.Status)
		require.NotNil(t, returned.ReturnDate)

		after := reloadTool(t, gdb, tool.ID)
		assert.Equal(t, 2, after.AvailableQuantity)
		assert.Equal(t, models.ToolAvailable, after.Status)
	})

	t.Run("second return is a no-op", func(t *testing.T) {
		tool := seedTool(t, gdb, "GRD-02", class, model, 3, 3)
		batch, err := repo.CreateLoanBatch(ctx, CreateLoanBatchInput{
			Items:      []BatchItem{{ToolID: tool.ID, Quantity: 1}},
			UserID:     recipient.ID,
			OperatorID: operator.ID,
		})
		require.NoError(t, err)

		_, err = repo.ReturnLoan(ctx, batch.Loans[0].ID)
		require.NoError(t, err)
		_, err = repo.ReturnLoan(ctx, batch.Loans[0].ID)
		require.NoError(t, err)

		// 库存只恢复一次
		assert.Equal(t, 3, reloadTool(t, gdb, tool.ID).AvailableQuantity)
	})

	t.Run("unknown loan is not found", func(t *testing.T) {
		_, err := repo.ReturnLoan(ctx, "missing")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestListLoans(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewRepo(gdb)
	ctx := context.Background()

	operator := seedUser(t, gdb, "op", "warehouse", models.RoleOperator)
	alice := seedUser(t, gdb, "alice", "assembly", models.RoleUser)
	bob := seedUser(t, gdb, "bob", "paint", models.RoleUser)
	class := seedClass(t, gdb, "hand tools")
	model := seedModel(t, gdb, "generic", false, 0)
	tool := seedTool(t, gdb, "DRL-02", class, model, 10, 10)

	mkBatch := func(userID string, qty int, due int) *LoanBatch {
		b, err := repo.CreateLoanBatch(ctx, CreateLoanBatchInput{
			Items:              []BatchItem{{ToolID: tool.ID, Quantity: qty}},
			UserID:             userID,
			OperatorID:         operator.ID,
			ExpectedReturnDate: daysFromNow(due),
		})
		require.NoError(t, err)
		return b
	}

	aliceBatch := mkBatch(alice.ID, 2, 7)
	mkBatch(bob.ID, 1, -2) // 已逾期
	_, err := repo.ReturnLoan(ctx, aliceBatch.Loans[0].ID)
	require.NoError(t, err)

	t.Run("filter by user", func(t *testing.T) {
		loans, err := repo.ListLoans(ctx, ListLoansQuery{UserID: alice.ID})
		require.NoError(t, err)
		require.Len(t, loans, 1)
		require.NotNil(t, loans[0].User)
		assert.Equal(t, "alice", loans[0].User.Username)
		require.NotNil(t, loans[0].Tool)
		assert.Equal(t, "DRL-02", loans[0].Tool.Code)
	})

	t.Run("filter by status", func(t *testing.T) {
		active, err := repo.ListLoans(ctx, ListLoansQuery{Status: "active"})
		require.NoError(t, err)
		assert.Len(t, active, 1)

		returned, err := repo.ListLoans(ctx, ListLoansQuery{Status: "returned"})
		require.NoError(t, err)
		assert.Len(t, returned, 1)

		overdue, err := repo.ListLoans(ctx, ListLoansQuery{Status: "overdue"})
		require.NoError(t, err)
		require.Len(t, overdue, 1)
		require.NotNil(t, overdue[0].User)
		assert.Equal(t, "bob", overdue[0].User.Username)
	})

	t.Run("filter by batch", func(t *testing.T) {
		loans, err := repo.ListLoans(ctx, ListLoansQuery{BatchID: aliceBatch.BatchID})
		require.NoError(t, err)
		assert.Len(t, loans, 1)
	})
}
