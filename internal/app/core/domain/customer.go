package domain

import (
	"fmt"
	"slices"
)

// Customer 客戶
//
// accountNumbers 保持插入順序且不重複。
// Customer 本身不檢查帳號是否存在，參照完整性由帳本 (usecase.Bank) 負責。
type Customer struct {
	id             string
	name           string
	address        string
	accountNumbers []string
}

func NewCustomer(id, name, address string) *Customer {
	return &Customer{id: id, name: name, address: address}
}

func (c *Customer) ID() string      { return c.id }
func (c *Customer) Name() string    { return c.name }
func (c *Customer) Address() string { return c.address }

func (c *Customer) SetAddress(address string) {
	c.address = address
}

// AccountNumbers 回傳副本
func (c *Customer) AccountNumbers() []string {
	return slices.Clone(c.accountNumbers)
}

// HasAccounts 是否仍持有帳戶
func (c *Customer) HasAccounts() bool {
	return len(c.accountNumbers) > 0
}

// AddAccountNumber 已存在則不動作
func (c *Customer) AddAccountNumber(number string) {
	if slices.Contains(c.accountNumbers, number) {
		return
	}
	c.accountNumbers = append(c.accountNumbers, number)
}

// RemoveAccountNumber 不存在則不動作
func (c *Customer) RemoveAccountNumber(number string) {
	if i := slices.Index(c.accountNumbers, number); i >= 0 {
		c.accountNumbers = slices.Delete(c.accountNumbers, i, i+1)
	}
}

func (c *Customer) Details() string {
	return fmt.Sprintf("Customer ID: %s, Name: %s, Address: %s, Accounts: %d",
		c.id, c.name, c.address, len(c.accountNumbers))
}

func (c *Customer) Clone() *Customer {
	cp := *c
	cp.accountNumbers = slices.Clone(c.accountNumbers)
	return &cp
}
