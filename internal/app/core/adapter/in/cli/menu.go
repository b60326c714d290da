// Package cli 提供互動式選單，操作任何 usecase.Banking (本機或遠端)。
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
)

const menuText = `
=== Banking System Menu ===
1. Add Customer
2. Remove Customer
3. Create Account
4. Deposit
5. Withdraw
6. Transfer Funds
7. View Customer Accounts
8. View All Customers
9. View All Accounts
10. Apply Interest to All Savings Accounts
11. Exit
`

// errInput 輸入結束 (EOF)
var errInput = errors.New("input closed")

// Menu 互動式選單
type Menu struct {
	bank usecase.Banking
	in   *bufio.Scanner
	out  io.Writer
}

func NewMenu(bank usecase.Banking, in io.Reader, out io.Writer) *Menu {
	return &Menu{bank: bank, in: bufio.NewScanner(in), out: out}
}

// Run 執行選單直到選擇 Exit 或輸入結束
//
// 單一操作失敗只會印出訊息，不會結束選單；
// 只有讀取輸入發生錯誤時才回傳 error。
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.printf("%s", menuText)
		choice, err := m.prompt("Enter your choice (1-11): ")
		if err != nil {
			return m.inputErr(err)
		}

		var actionErr error
		switch choice {
		case "1":
			actionErr = m.addCustomer(ctx)
		case "2":
			actionErr = m.removeCustomer(ctx)
		case "3":
			actionErr = m.createAccount(ctx)
		case "4":
			actionErr = m.deposit(ctx)
		case "5":
			actionErr = m.withdraw(ctx)
		case "6":
			actionErr = m.transfer(ctx)
		case "7":
			actionErr = m.customerAccounts(ctx)
		case "8":
			m.printf("All Customers:\n")
			actionErr = m.bank.DisplayAllCustomers(ctx, m.out)
		case "9":
			m.printf("All Accounts:\n")
			actionErr = m.bank.DisplayAllAccounts(ctx, m.out)
		case "10":
			if actionErr = m.bank.ApplyAllInterest(ctx); actionErr == nil {
				m.printf("Interest applied to all savings accounts.\n")
			}
		case "11":
			m.printf("Exiting... Goodbye!\n")
			return nil
		default:
			m.printf("Invalid option. Please try again.\n")
		}

		if errors.Is(actionErr, errInput) {
			return m.inputErr(actionErr)
		}
		if actionErr != nil {
			m.printf("Operation failed: %v\n", actionErr)
		}
	}
}

func (m *Menu) addCustomer(ctx context.Context) error {
	id, err := m.prompt("Customer ID: ")
	if err != nil {
		return err
	}
	name, err := m.prompt("Full Name: ")
	if err != nil {
		return err
	}
	address, err := m.prompt("Address: ")
	if err != nil {
		return err
	}
	err = m.bank.AddCustomer(ctx, domain.NewCustomer(id, name, address))
	switch {
	case err == nil:
		m.printf("Customer added successfully.\n")
	case errors.Is(err, domain.ErrCustomerAlreadyExists):
		m.printf("Customer ID already exists.\n")
	default:
		return err
	}
	return nil
}

func (m *Menu) removeCustomer(ctx context.Context) error {
	id, err := m.prompt("Customer ID to remove: ")
	if err != nil {
		return err
	}
	err = m.bank.RemoveCustomer(ctx, id)
	switch {
	case err == nil:
		m.printf("Customer removed successfully.\n")
	case errors.Is(err, domain.ErrCustomerNotFound), errors.Is(err, domain.ErrCustomerHasAccounts):
		m.printf("Cannot remove customer. Either not found or has active accounts.\n")
	default:
		return err
	}
	return nil
}

func (m *Menu) createAccount(ctx context.Context) error {
	id, err := m.prompt("Customer ID: ")
	if err != nil {
		return err
	}
	typ, err := m.prompt("Account Type (savings/checking): ")
	if err != nil {
		return err
	}
	kind, kindErr := domain.ParseAccountKind(strings.ToLower(typ))
	balance, ok, err := m.promptDecimal("Initial Balance: ")
	if err != nil || !ok {
		return err
	}

	var opts []usecase.AccountOption
	switch kind {
	case domain.KindSavings:
		rate, ok, err := m.promptDecimal("Interest Rate (e.g. 0.01 for 1%): ")
		if err != nil || !ok {
			return err
		}
		opts = append(opts, usecase.WithInterestRate(rate))
	case domain.KindChecking:
		limit, ok, err := m.promptDecimal("Overdraft Limit: ")
		if err != nil || !ok {
			return err
		}
		opts = append(opts, usecase.WithOverdraftLimit(limit))
	}
	if kindErr != nil {
		m.printf("Account creation failed: %v\n", kindErr)
		return nil
	}

	acc, err := m.bank.CreateAccount(ctx, id, kind, balance, opts...)
	if err != nil {
		m.printf("Account creation failed: %v\n", err)
		return nil
	}
	m.printf("%s account created. Account No: %s\n", capitalize(string(kind)), acc.AccountNumber())
	return nil
}

func (m *Menu) deposit(ctx context.Context) error {
	number, err := m.prompt("Account Number: ")
	if err != nil {
		return err
	}
	amount, ok, err := m.promptDecimal("Amount to deposit: ")
	if err != nil || !ok {
		return err
	}
	m.report(m.bank.Deposit(ctx, number, amount), "Deposit successful.", "Deposit failed")
	return nil
}

func (m *Menu) withdraw(ctx context.Context) error {
	number, err := m.prompt("Account Number: ")
	if err != nil {
		return err
	}
	amount, ok, err := m.promptDecimal("Amount to withdraw: ")
	if err != nil || !ok {
		return err
	}
	m.report(m.bank.Withdraw(ctx, number, amount), "Withdrawal successful.", "Withdrawal failed")
	return nil
}

func (m *Menu) transfer(ctx context.Context) error {
	from, err := m.prompt("From Account Number: ")
	if err != nil {
		return err
	}
	to, err := m.prompt("To Account Number: ")
	if err != nil {
		return err
	}
	amount, ok, err := m.promptDecimal("Amount to transfer: ")
	if err != nil || !ok {
		return err
	}
	m.report(m.bank.TransferFunds(ctx, from, to, amount), "Transfer successful.", "Transfer failed")
	return nil
}

func (m *Menu) customerAccounts(ctx context.Context) error {
	id, err := m.prompt("Customer ID: ")
	if err != nil {
		return err
	}
	accounts, err := m.bank.GetCustomerAccounts(ctx, id)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		m.printf("No accounts found or invalid customer.\n")
		return nil
	}
	for _, a := range accounts {
		m.printf("%s\n", a.Details())
	}
	return nil
}

// report 印出成功訊息，或失敗訊息加上原因
func (m *Menu) report(err error, success, failure string) {
	if err != nil {
		m.printf("%s: %v\n", failure, err)
		return
	}
	m.printf("%s\n", success)
}

// prompt 印出提示並讀取一行 (去除前後空白)
func (m *Menu) prompt(label string) (string, error) {
	m.printf("%s", label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", errInput
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// promptDecimal 讀取數字；格式錯誤時印出訊息並回傳 ok=false
func (m *Menu) promptDecimal(label string) (decimal.Decimal, bool, error) {
	s, err := m.prompt(label)
	if err != nil {
		return decimal.Zero, false, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		m.printf("Invalid number: %q\n", s)
		return decimal.Zero, false, nil
	}
	return d, true, nil
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

// inputErr EOF 視為正常結束
func (m *Menu) inputErr(err error) error {
	if errors.Is(err, errInput) {
		return nil
	}
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
