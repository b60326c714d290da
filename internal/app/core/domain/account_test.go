package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newSavings(t *testing.T, balance, rate string) *SavingsAccount {
	t.Helper()
	acc, err := NewSavingsAccount("S-1", "C1", d(balance), d(rate))
	require.NoError(t, err)
	return acc
}

func newChecking(t *testing.T, balance, limit string) *CheckingAccount {
	t.Helper()
	acc, err := NewCheckingAccount("K-1", "C1", d(balance), d(limit))
	require.NoError(t, err)
	return acc
}

func TestDepositRejectsNonPositive(t *testing.T) {
	accounts := []Account{newSavings(t, "10", "0.01"), newChecking(t, "10", "5")}
	for _, acc := range accounts {
		t.Run(string(acc.Kind()), func(t *testing.T) {
			for _, amt := range []string{"0", "-1", "-0.01"} {
				err := acc.Deposit(d(amt))
				assert.ErrorIs(t, err, ErrAmountMustBePositive)
				assert.True(t, acc.Balance().Equal(d("10")), "balance changed by deposit %s", amt)
			}
			require.NoError(t, acc.Deposit(d("2.5")))
			assert.True(t, acc.Balance().Equal(d("12.5")))
		})
	}
}

func TestSavingsWithdraw(t *testing.T) {
	acc := newSavings(t, "100", "0.01")

	assert.ErrorIs(t, acc.Withdraw(d("0")), ErrAmountMustBePositive)
	assert.ErrorIs(t, acc.Withdraw(d("-5")), ErrAmountMustBePositive)
	assert.ErrorIs(t, acc.Withdraw(d("100.01")), ErrInsufficientBalance)
	assert.True(t, acc.Balance().Equal(d("100")))

	require.NoError(t, acc.Withdraw(d("100")))
	assert.True(t, acc.Balance().IsZero())
}

func TestCheckingOverdraftScenario(t *testing.T) {
	acc := newChecking(t, "50", "20")

	require.NoError(t, acc.Withdraw(d("60")))
	assert.True(t, acc.Balance().Equal(d("-10")))

	assert.ErrorIs(t, acc.Withdraw(d("15")), ErrOverdraftLimitExceeded)
	assert.True(t, acc.Balance().Equal(d("-10")))

	require.NoError(t, acc.Withdraw(d("10")))
	assert.True(t, acc.Balance().Equal(d("-20")))
}

func TestCheckingNegativeWithdrawRaisesBalance(t *testing.T) {
	acc := newChecking(t, "0", "0")

	require.NoError(t, acc.Withdraw(d("-5")))
	assert.True(t, acc.Balance().Equal(d("5")))
}

func TestBalanceFloorsHoldOverSequence(t *testing.T) {
	savings := newSavings(t, "30", "0")
	checking := newChecking(t, "30", "25")
	ops := []struct {
		deposit bool
		amount  string
	}{
		{false, "10"}, {false, "25"}, {true, "3"}, {false, "40"},
		{false, "0.5"}, {true, "-2"}, {false, "100"}, {true, "7"}, {false, "30"},
	}
	for _, op := range ops {
		for _, acc := range []Account{savings, checking} {
			if op.deposit {
				_ = acc.Deposit(d(op.amount))
			} else {
				_ = acc.Withdraw(d(op.amount))
			}
		}
		assert.False(t, savings.Balance().IsNegative(), "savings below zero: %s", savings.Balance())
		assert.False(t, checking.Balance().LessThan(checking.OverdraftLimit().Neg()),
			"checking below overdraft floor: %s", checking.Balance())
	}
}

func TestApplyInterest(t *testing.T) {
	acc := newSavings(t, "100", "0.05")
	acc.ApplyInterest()
	assert.True(t, acc.Balance().Equal(d("105")), "got %s", acc.Balance())
}

func TestSetters(t *testing.T) {
	s := newSavings(t, "0", "0.02")
	assert.ErrorIs(t, s.SetInterestRate(d("-0.01")), ErrNegativeInterestRate)
	assert.True(t, s.InterestRate().Equal(d("0.02")))
	require.NoError(t, s.SetInterestRate(d("0")))
	assert.True(t, s.InterestRate().IsZero())

	c := newChecking(t, "0", "10")
	assert.ErrorIs(t, c.SetOverdraftLimit(d("-1")), ErrNegativeOverdraftLimit)
	assert.True(t, c.OverdraftLimit().Equal(d("10")))

	_, err := NewSavingsAccount("x", "y", d("0"), d("-1"))
	assert.ErrorIs(t, err, ErrNegativeInterestRate)
	_, err = NewCheckingAccount("x", "y", d("0"), d("-1"))
	assert.ErrorIs(t, err, ErrNegativeOverdraftLimit)
}

func TestDetails(t *testing.T) {
	assert.Equal(t, "Acc No: S-1, Balance: $100.50, Interest Rate: 5.00%",
		newSavings(t, "100.5", "0.05").Details())
	assert.Equal(t, "Acc No: K-1, Balance: $-10.00, Overdraft Limit: $20.00",
		newChecking(t, "-10", "20").Details())
}

func TestParseAccountKind(t *testing.T) {
	k, err := ParseAccountKind("checking")
	require.NoError(t, err)
	assert.Equal(t, KindChecking, k)

	_, err = ParseAccountKind("brokerage")
	assert.ErrorIs(t, err, ErrUnknownAccountKind)
}

func TestCloneIsIndependent(t *testing.T) {
	acc := newSavings(t, "10", "0.01")
	cp := acc.Clone()
	require.NoError(t, acc.Deposit(d("5")))
	assert.True(t, cp.Balance().Equal(d("10")))
}
