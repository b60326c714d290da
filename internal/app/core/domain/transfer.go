package domain

import "github.com/shopspring/decimal"

// Checkpoint 記錄帳戶目前狀態，回傳的函式會把帳戶還原到記錄當下
//
// 用於轉帳補償，以及持久化失敗時撤銷記憶體中的變更。
func Checkpoint(a Account) (restore func()) {
	saved := a.Clone()
	return func() {
		a.restore(saved)
	}
}

// Transfer 轉帳：先從 from 提款，再存入 to
//
// 存入失敗時會把金額存回 from (補償交易)；
// 若補償存款本身也失敗 (例如 from 是支票帳戶且 amount <= 0)，
// 直接以 Checkpoint 還原 from，確保來源餘額不會短少。
//
// 回傳:
//
//	error: 提款或存款的錯誤，失敗時兩個帳戶皆維持原狀
func Transfer(from, to Account, amount decimal.Decimal) error {
	restore := Checkpoint(from)
	if err := from.Withdraw(amount); err != nil {
		return err
	}
	if err := to.Deposit(amount); err != nil {
		if rbErr := from.Deposit(amount); rbErr != nil {
			restore()
		}
		return err
	}
	return nil
}
