package memory

import (
	"context"
	"sync"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/codec"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
)

// Store 是存在記憶體中的儲存策略，主要給測試與 demo 使用
//
// 結構:
//
//	state: 最後一次 Save 的內容 (深拷貝)
//	saves: Save 成功次數
//	failErr: 非 nil 時 Save 一律回傳此錯誤 (模擬磁碟寫入失敗)
type Store struct {
	mu      sync.Mutex
	state   *codec.State
	saves   int
	failErr error
}

// NewStore 建立 Store，initial 可為 nil (空帳本)
func NewStore(initial *codec.State) *Store {
	s := &Store{}
	if initial != nil {
		s.state = initial.Clone()
	}
	return s
}

// Load implements usecase.Store.
func (s *Store) Load(ctx context.Context) (*codec.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return &codec.State{}, nil
	}
	return s.state.Clone(), nil
}

// Save implements usecase.Store.
func (s *Store) Save(ctx context.Context, state *codec.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.state = state.Clone()
	s.saves++
	return nil
}

// FailWith 之後的 Save 都回傳 err；傳 nil 恢復正常
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Saves 回傳 Save 成功次數
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// State 回傳最後一次儲存的內容 (副本)，尚未儲存過時回傳 nil
func (s *Store) State() *codec.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil
	}
	return s.state.Clone()
}

var _ usecase.Store = (*Store)(nil)
