package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferMovesFunds(t *testing.T) {
	from := newSavings(t, "100", "0.01")
	to := newChecking(t, "0", "0")

	require.NoError(t, Transfer(from, to, d("30")))
	assert.True(t, from.Balance().Equal(d("70")))
	assert.True(t, to.Balance().Equal(d("30")))
}

func TestTransferWithdrawFailureLeavesBothUntouched(t *testing.T) {
	from := newSavings(t, "10", "0.01")
	to := newChecking(t, "0", "0")

	err := Transfer(from, to, d("30"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, from.Balance().Equal(d("10")))
	assert.True(t, to.Balance().IsZero())
}

func TestTransferRollsBackWhenDepositFails(t *testing.T) {
	// 支票帳戶接受負數提款，但目的帳戶拒絕負數存款，補償存款同樣會被拒絕
	from := newChecking(t, "40", "0")
	to := newSavings(t, "5", "0.01")

	err := Transfer(from, to, d("-10"))
	assert.ErrorIs(t, err, ErrAmountMustBePositive)
	assert.True(t, from.Balance().Equal(d("40")), "source not restored: %s", from.Balance())
	assert.True(t, to.Balance().Equal(d("5")))
}

func TestCheckpointRestoresAllFields(t *testing.T) {
	acc := newSavings(t, "10", "0.01")
	restore := Checkpoint(acc)

	require.NoError(t, acc.Deposit(d("90")))
	require.NoError(t, acc.SetInterestRate(d("0.2")))
	restore()

	assert.True(t, acc.Balance().Equal(d("10")))
	assert.True(t, acc.InterestRate().Equal(d("0.01")))
}

func TestCustomerAccountNumbers(t *testing.T) {
	c := NewCustomer("C1", "Ann", "1 Main St")
	c.AddAccountNumber("a")
	c.AddAccountNumber("b")
	c.AddAccountNumber("a")
	assert.Equal(t, []string{"a", "b"}, c.AccountNumbers())

	c.RemoveAccountNumber("zzz")
	c.RemoveAccountNumber("a")
	assert.Equal(t, []string{"b"}, c.AccountNumbers())
	assert.True(t, c.HasAccounts())

	nums := c.AccountNumbers()
	nums[0] = "mutated"
	assert.Equal(t, []string{"b"}, c.AccountNumbers())

	assert.Equal(t, "Customer ID: C1, Name: Ann, Address: 1 Main St, Accounts: 1", c.Details())
}
