package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/codec"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
)

var ctx = context.Background()

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newBank(t *testing.T) (*usecase.Bank, *memory.Store) {
	t.Helper()
	store := memory.NewStore(nil)
	b, err := usecase.NewBank(ctx, store, nil)
	require.NoError(t, err)
	return b, store
}

func addCustomer(t *testing.T, b *usecase.Bank, id string) {
	t.Helper()
	require.NoError(t, b.AddCustomer(ctx, domain.NewCustomer(id, "Name "+id, "Addr "+id)))
}

func balance(t *testing.T, b *usecase.Bank, number string) decimal.Decimal {
	t.Helper()
	acc, err := b.GetAccount(ctx, number)
	require.NoError(t, err)
	return acc.Balance()
}

func TestAddAndRemoveCustomer(t *testing.T) {
	b, store := newBank(t)

	addCustomer(t, b, "C1")
	assert.Equal(t, 1, store.Saves())

	err := b.AddCustomer(ctx, domain.NewCustomer("C1", "dup", ""))
	assert.ErrorIs(t, err, domain.ErrCustomerAlreadyExists)
	assert.Equal(t, 1, store.Saves(), "failed add must not persist")

	assert.ErrorIs(t, b.RemoveCustomer(ctx, "nope"), domain.ErrCustomerNotFound)

	_, err = b.CreateAccount(ctx, "C1", domain.KindSavings, d("10"))
	require.NoError(t, err)
	assert.ErrorIs(t, b.RemoveCustomer(ctx, "C1"), domain.ErrCustomerHasAccounts)

	addCustomer(t, b, "C2")
	require.NoError(t, b.RemoveCustomer(ctx, "C2"))
	customers, err := b.Customers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "C1", customers[0].ID())
}

func TestCreateAccount(t *testing.T) {
	b, store := newBank(t)
	addCustomer(t, b, "C1")

	_, err := b.CreateAccount(ctx, "ghost", domain.KindSavings, d("0"))
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
	_, err = b.CreateAccount(ctx, "C1", domain.AccountKind("brokerage"), d("0"))
	assert.ErrorIs(t, err, domain.ErrUnknownAccountKind)
	_, err = b.CreateAccount(ctx, "C1", domain.KindSavings, d("0"), usecase.WithInterestRate(d("-0.1")))
	assert.ErrorIs(t, err, domain.ErrNegativeInterestRate)
	assert.Equal(t, 1, store.Saves())

	s, err := b.CreateAccount(ctx, "C1", domain.KindSavings, d("100"))
	require.NoError(t, err)
	k, err := b.CreateAccount(ctx, "C1", domain.KindChecking, d("50"), usecase.WithOverdraftLimit(d("20")))
	require.NoError(t, err)

	assert.NotEqual(t, s.AccountNumber(), k.AccountNumber())
	assert.Equal(t, "C1", s.HolderID())
	assert.True(t, s.(domain.InterestBearer).InterestRate().Equal(d("0.01")), "default rate")
	assert.True(t, k.(domain.Overdrafter).OverdraftLimit().Equal(d("20")))

	accs, err := b.GetCustomerAccounts(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, accs, 2)
	assert.Equal(t, s.AccountNumber(), accs[0].AccountNumber())
	assert.Equal(t, k.AccountNumber(), accs[1].AccountNumber())
	assert.Equal(t, 3, store.Saves())
}

func TestReturnedAccountIsDetached(t *testing.T) {
	b, _ := newBank(t)
	addCustomer(t, b, "C1")
	acc, err := b.CreateAccount(ctx, "C1", domain.KindSavings, d("10"))
	require.NoError(t, err)

	require.NoError(t, acc.Deposit(d("1000")))
	assert.True(t, balance(t, b, acc.AccountNumber()).Equal(d("10")))
}

func TestDepositWithdraw(t *testing.T) {
	b, store := newBank(t)
	addCustomer(t, b, "C1")
	acc, err := b.CreateAccount(ctx, "C1", domain.KindSavings, d("100"))
	require.NoError(t, err)
	n := acc.AccountNumber()
	saves := store.Saves()

	assert.ErrorIs(t, b.Deposit(ctx, "missing", d("1")), domain.ErrAccountNotFound)
	assert.ErrorIs(t, b.Deposit(ctx, n, d("0")), domain.ErrAmountMustBePositive)
	assert.ErrorIs(t, b.Withdraw(ctx, n, d("-1")), domain.ErrAmountMustBePositive)
	assert.ErrorIs(t, b.Withdraw(ctx, n, d("500")), domain.ErrInsufficientBalance)
	assert.Equal(t, saves, store.Saves())

	require.NoError(t, b.Deposit(ctx, n, d("25")))
	require.NoError(t, b.Withdraw(ctx, n, d("5")))
	assert.True(t, balance(t, b, n).Equal(d("120")))
	assert.Equal(t, saves+2, store.Saves())
}

func TestCheckingOverdraftScenario(t *testing.T) {
	b, _ := newBank(t)
	addCustomer(t, b, "C1")
	acc, err := b.CreateAccount(ctx, "C1", domain.KindChecking, d("50"), usecase.WithOverdraftLimit(d("20")))
	require.NoError(t, err)
	n := acc.AccountNumber()

	require.NoError(t, b.Withdraw(ctx, n, d("60")))
	assert.True(t, balance(t, b, n).Equal(d("-10")))

	assert.ErrorIs(t, b.Withdraw(ctx, n, d("15")), domain.ErrOverdraftLimitExceeded)
	assert.True(t, balance(t, b, n).Equal(d("-10")))
}

func TestTransferFunds(t *testing.T) {
	b, store := newBank(t)
	addCustomer(t, b, "C1")
	s, err := b.CreateAccount(ctx, "C1", domain.KindSavings, d("100"))
	require.NoError(t, err)
	k, err := b.CreateAccount(ctx, "C1", domain.KindChecking, d("0"))
	require.NoError(t, err)

	require.NoError(t, b.TransferFunds(ctx, s.AccountNumber(), k.AccountNumber(), d("30")))
	assert.True(t, balance(t, b, s.AccountNumber()).Equal(d("70")))
	assert.True(t, balance(t, b, k.AccountNumber()).Equal(d("30")))
	saves := store.Saves()

	t.Run("missing destination", func(t *testing.T) {
		err := b.TransferFunds(ctx, s.AccountNumber(), "nope", d("10"))
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.True(t, balance(t, b, s.AccountNumber()).Equal(d("70")))
	})
	t.Run("missing source", func(t *testing.T) {
		err := b.TransferFunds(ctx, "nope", k.AccountNumber(), d("10"))
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.True(t, balance(t, b, k.AccountNumber()).Equal(d("30")))
	})
	t.Run("insufficient", func(t *testing.T) {
		err := b.TransferFunds(ctx, s.AccountNumber(), k.AccountNumber(), d("71"))
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	})
	t.Run("rejected deposit rolls back source", func(t *testing.T) {
		err := b.TransferFunds(ctx, k.AccountNumber(), s.AccountNumber(), d("-5"))
		assert.ErrorIs(t, err, domain.ErrAmountMustBePositive)
		assert.True(t, balance(t, b, k.AccountNumber()).Equal(d("30")))
		assert.True(t, balance(t, b, s.AccountNumber()).Equal(d("70")))
	})
	assert.Equal(t, saves, store.Saves(), "failed transfers must not persist")

	total := balance(t, b, s.AccountNumber()).Add(balance(t, b, k.AccountNumber()))
	assert.True(t, total.Equal(d("100")))
}

func TestApplyAllInterest(t *testing.T) {
	b, store := newBank(t)
	addCustomer(t, b, "C1")
	s1, err := b.CreateAccount(ctx, "C1", domain.KindSavings, d("100"), usecase.WithInterestRate(d("0.05")))
	require.NoError(t, err)
	s2, err := b.CreateAccount(ctx, "C1", domain.KindSavings, d("200"), usecase.WithInterestRate(d("0.1")))
	require.NoError(t, err)
	k, err := b.CreateAccount(ctx, "C1", domain.KindChecking, d("80"))
	require.NoError(t, err)
	saves := store.Saves()

	require.NoError(t, b.ApplyAllInterest(ctx))
	assert.True(t, balance(t, b, s1.AccountNumber()).Equal(d("105")))
	assert.True(t, balance(t, b, s2.AccountNumber()).Equal(d("220")))
	assert.True(t, balance(t, b, k.AccountNumber()).Equal(d("80")))
	assert.Equal(t, saves+1, store.Saves(), "one write per batch")
}

func TestSetters(t *testing.T) {
	b, _ := newBank(t)
	addCustomer(t, b, "C1")
	s, err := b.CreateAccount(ctx, "C1", domain.KindSavings, d("0"))
	require.NoError(t, err)
	k, err := b.CreateAccount(ctx, "C1", domain.KindChecking, d("0"))
	require.NoError(t, err)

	require.NoError(t, b.SetInterestRate(ctx, s.AccountNumber(), d("0.2")))
	assert.ErrorIs(t, b.SetInterestRate(ctx, s.AccountNumber(), d("-1")), domain.ErrNegativeInterestRate)
	assert.ErrorIs(t, b.SetInterestRate(ctx, k.AccountNumber(), d("0.2")), domain.ErrVariantMismatch)
	require.NoError(t, b.SetOverdraftLimit(ctx, k.AccountNumber(), d("15")))
	assert.ErrorIs(t, b.SetOverdraftLimit(ctx, s.AccountNumber(), d("15")), domain.ErrVariantMismatch)
	assert.ErrorIs(t, b.SetOverdraftLimit(ctx, "nope", d("15")), domain.ErrAccountNotFound)

	got, err := b.GetAccount(ctx, s.AccountNumber())
	require.NoError(t, err)
	assert.True(t, got.(domain.InterestBearer).InterestRate().Equal(d("0.2")))

	require.NoError(t, b.UpdateCustomerAddress(ctx, "C1", "New Road"))
	assert.ErrorIs(t, b.UpdateCustomerAddress(ctx, "C9", "x"), domain.ErrCustomerNotFound)
	customers, err := b.Customers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "New Road", customers[0].Address())
}

func TestGetCustomerAccountsToleratesDanglingReferences(t *testing.T) {
	store := memory.NewStore(&codec.State{
		Customers: []codec.CustomerRecord{{CustomerID: "C1", Name: "A", AccountNumbers: []string{"gone", "s1"}}},
		Accounts:  []codec.AccountRecord{{Type: "savings", AccountNumber: "s1", AccountHolderID: "C1", Balance: codec.NewAmount(d("10"))}},
	})
	b, err := usecase.NewBank(ctx, store, nil)
	require.NoError(t, err)

	accs, err := b.GetCustomerAccounts(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, accs, 1)
	assert.Equal(t, "s1", accs[0].AccountNumber())

	accs, err = b.GetCustomerAccounts(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, accs)
}

func TestLoadSkipsUnknownAndInvalidRecords(t *testing.T) {
	store := memory.NewStore(&codec.State{
		Accounts: []codec.AccountRecord{
			{Type: "brokerage", AccountNumber: "b1"},
			{Type: "savings", AccountNumber: "s1", InterestRate: codec.NewAmount(d("-1"))},
			{Type: "checking", AccountNumber: "k1"},
		},
	})
	b, err := usecase.NewBank(ctx, store, nil)
	require.NoError(t, err)

	accs, err := b.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, accs, 1)
	assert.Equal(t, "k1", accs[0].AccountNumber())
}

func TestPersistRoundTrip(t *testing.T) {
	b, store := newBank(t)
	addCustomer(t, b, "C1")
	addCustomer(t, b, "C2")
	s, err := b.CreateAccount(ctx, "C1", domain.KindSavings, d("100"), usecase.WithInterestRate(d("0.0123456789")))
	require.NoError(t, err)
	_, err = b.CreateAccount(ctx, "C2", domain.KindChecking, d("-5"), usecase.WithOverdraftLimit(d("50")))
	require.NoError(t, err)
	for range 5 {
		require.NoError(t, b.ApplyAllInterest(ctx))
	}
	require.NoError(t, b.Withdraw(ctx, s.AccountNumber(), d("0.25")))

	reloaded, err := usecase.NewBank(ctx, memory.NewStore(store.State()), nil)
	require.NoError(t, err)

	wantCustomers, _ := b.Customers(ctx)
	gotCustomers, _ := reloaded.Customers(ctx)
	assert.Equal(t, wantCustomers, gotCustomers)

	wantAccounts, _ := b.Accounts(ctx)
	gotAccounts, _ := reloaded.Accounts(ctx)
	require.Len(t, gotAccounts, len(wantAccounts))
	for i, want := range wantAccounts {
		got := gotAccounts[i]
		assert.Equal(t, want.AccountNumber(), got.AccountNumber())
		assert.Equal(t, want.Kind(), got.Kind())
		assert.Equal(t, want.HolderID(), got.HolderID())
		assert.True(t, got.Balance().Equal(want.Balance()), "balance %s: got %s want %s",
			want.AccountNumber(), got.Balance(), want.Balance())
		assert.Equal(t, want.Details(), got.Details())
	}
	rate := gotAccounts[0].(domain.InterestBearer).InterestRate()
	assert.True(t, rate.Equal(d("0.0123456789")))
}

func TestPersistFailureRollsBack(t *testing.T) {
	b, store := newBank(t)
	addCustomer(t, b, "C1")
	s, err := b.CreateAccount(ctx, "C1", domain.KindSavings, d("100"))
	require.NoError(t, err)
	k, err := b.CreateAccount(ctx, "C1", domain.KindChecking, d("0"))
	require.NoError(t, err)

	diskFull := errors.New("no space left on device")
	store.FailWith(diskFull)

	err = b.Deposit(ctx, s.AccountNumber(), d("10"))
	assert.ErrorIs(t, err, usecase.ErrPersistFailed)
	assert.ErrorIs(t, err, diskFull)
	assert.True(t, balance(t, b, s.AccountNumber()).Equal(d("100")))

	err = b.TransferFunds(ctx, s.AccountNumber(), k.AccountNumber(), d("40"))
	assert.ErrorIs(t, err, usecase.ErrPersistFailed)
	assert.True(t, balance(t, b, s.AccountNumber()).Equal(d("100")))
	assert.True(t, balance(t, b, k.AccountNumber()).IsZero())

	_, err = b.CreateAccount(ctx, "C1", domain.KindSavings, d("1"))
	assert.ErrorIs(t, err, usecase.ErrPersistFailed)
	accs, _ := b.GetCustomerAccounts(ctx, "C1")
	assert.Len(t, accs, 2)

	assert.ErrorIs(t, b.AddCustomer(ctx, domain.NewCustomer("C2", "x", "y")), usecase.ErrPersistFailed)
	assert.ErrorIs(t, b.ApplyAllInterest(ctx), usecase.ErrPersistFailed)
	assert.True(t, balance(t, b, s.AccountNumber()).Equal(d("100")))

	store.FailWith(nil)
	addCustomer(t, b, "C2")
	require.NoError(t, b.RemoveCustomer(ctx, "C2"))
	customers, _ := b.Customers(ctx)
	assert.Len(t, customers, 1)
}

func TestDisplay(t *testing.T) {
	b, _ := newBank(t)
	addCustomer(t, b, "C1")
	acc, err := b.CreateAccount(ctx, "C1", domain.KindChecking, d("12.5"), usecase.WithOverdraftLimit(d("3")))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, b.DisplayAllCustomers(ctx, &buf))
	assert.Equal(t, "Customer ID: C1, Name: Name C1, Address: Addr C1, Accounts: 1\n", buf.String())

	buf.Reset()
	require.NoError(t, b.DisplayAllAccounts(ctx, &buf))
	assert.Equal(t, "Acc No: "+acc.AccountNumber()+", Balance: $12.50, Overdraft Limit: $3.00\n", buf.String())
}
