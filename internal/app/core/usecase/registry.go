package usecase

import "slices"

// registry 保持插入順序的 map，讓列表與持久化輸出的順序固定
type registry[T any] struct {
	keys  []string
	items map[string]T
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{items: make(map[string]T)}
}

func (r *registry[T]) get(key string) (T, bool) {
	v, ok := r.items[key]
	return v, ok
}

func (r *registry[T]) has(key string) bool {
	_, ok := r.items[key]
	return ok
}

// put 新 key 加在最後；已存在則只替換值
func (r *registry[T]) put(key string, v T) {
	if _, ok := r.items[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.items[key] = v
}

// remove 回傳被移除的位置，不存在時回傳 -1
func (r *registry[T]) remove(key string) int {
	if _, ok := r.items[key]; !ok {
		return -1
	}
	delete(r.items, key)
	i := slices.Index(r.keys, key)
	r.keys = slices.Delete(r.keys, i, i+1)
	return i
}

// insertAt 把 key 放回指定位置 (撤銷 remove 用)
func (r *registry[T]) insertAt(i int, key string, v T) {
	if i < 0 || i > len(r.keys) {
		i = len(r.keys)
	}
	r.keys = slices.Insert(r.keys, i, key)
	r.items[key] = v
}

func (r *registry[T]) values() []T {
	out := make([]T, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.items[k])
	}
	return out
}

func (r *registry[T]) size() int {
	return len(r.keys)
}
