package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
)

func newBank(t *testing.T) (*usecase.Bank, *memory.Store) {
	t.Helper()
	store := memory.NewStore(nil)
	b, err := usecase.NewBank(context.Background(), store, zap.NewNop())
	require.NoError(t, err)
	return b, store
}

// run 餵入每行輸入並回傳輸出
func run(t *testing.T, bank usecase.Banking, lines ...string) string {
	t.Helper()
	var out strings.Builder
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, NewMenu(bank, in, &out).Run(context.Background()))
	return out.String()
}

func TestMenuFullSession(t *testing.T) {
	b, _ := newBank(t)

	out := run(t, b,
		"1", "C1", "Ann", "Road 1",
		"1", "C1", "Dup", "x",
		"3", "C1", "Savings", "100", "0.05",
		"3", "C1", "checking", "50", "20",
		"8",
		"10",
		"11",
	)
	assert.Contains(t, out, "=== Banking System Menu ===")
	assert.Contains(t, out, "Customer added successfully.")
	assert.Contains(t, out, "Customer ID already exists.")
	assert.Contains(t, out, "Savings account created. Account No: ")
	assert.Contains(t, out, "Checking account created. Account No: ")
	assert.Contains(t, out, "All Customers:\nCustomer ID: C1, Name: Ann, Address: Road 1, Accounts: 2\n")
	assert.Contains(t, out, "Interest applied to all savings accounts.")
	assert.True(t, strings.HasSuffix(out, "Exiting... Goodbye!\n"))

	accounts, err := b.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.True(t, accounts[0].Balance().Equal(decimal.NewFromInt(105)))
}

func TestMenuMoneyMovement(t *testing.T) {
	b, _ := newBank(t)
	ctx := context.Background()
	require.NoError(t, b.AddCustomer(ctx, domain.NewCustomer("C1", "Ann", "Road")))
	s, err := b.CreateAccount(ctx, "C1", domain.KindSavings, decimal.NewFromInt(100))
	require.NoError(t, err)
	c, err := b.CreateAccount(ctx, "C1", domain.KindChecking, decimal.Zero)
	require.NoError(t, err)

	out := run(t, b,
		"4", s.AccountNumber(), "10",
		"4", s.AccountNumber(), "-5",
		"5", s.AccountNumber(), "500",
		"6", s.AccountNumber(), c.AccountNumber(), "30",
		"6", "missing", c.AccountNumber(), "1",
		"7", "C1",
		"7", "ghost",
		"9",
		"11",
	)
	assert.Contains(t, out, "Deposit successful.")
	assert.Contains(t, out, "Deposit failed: amount must be positive")
	assert.Contains(t, out, "Withdrawal failed: insufficient balance")
	assert.Contains(t, out, "Transfer successful.")
	assert.Contains(t, out, "Transfer failed: source account not found")
	assert.Contains(t, out, "Acc No: "+s.AccountNumber()+", Balance: $80.00, Interest Rate: 1.00%")
	assert.Contains(t, out, "No accounts found or invalid customer.")
	assert.Contains(t, out, "All Accounts:\n")
}

func TestMenuInvalidInput(t *testing.T) {
	b, _ := newBank(t)
	require.NoError(t, b.AddCustomer(context.Background(), domain.NewCustomer("C1", "Ann", "Road")))

	out := run(t, b,
		"42",
		"4", "any", "ten",
		"3", "C1", "bond", "10",
		"2", "ghost",
		"2", "C1",
		"11",
	)
	assert.Contains(t, out, "Invalid option. Please try again.")
	assert.Contains(t, out, `Invalid number: "ten"`)
	assert.Contains(t, out, "Account creation failed: unknown account type")
	assert.Contains(t, out, "Cannot remove customer. Either not found or has active accounts.")
	assert.Contains(t, out, "Customer removed successfully.")
}

func TestMenuEndsOnEOF(t *testing.T) {
	b, _ := newBank(t)
	var out strings.Builder
	err := NewMenu(b, strings.NewReader("1\nC1\n"), &out).Run(context.Background())
	assert.NoError(t, err)

	customers, err := b.Customers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, customers, "half-entered customer is not added")
}

func TestMenuReportsPersistFailure(t *testing.T) {
	b, store := newBank(t)
	store.FailWith(errors.New("disk full"))

	out := run(t, b, "1", "C1", "Ann", "Road", "11")
	assert.Contains(t, out, "Operation failed: persist ledger state failed: disk full")
}
