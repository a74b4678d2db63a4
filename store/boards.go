package store

import (
	"encoding/json"
	"fmt"
)

const (
	boardsKeyPrefix   = "boards:"
	boardHistoryLimit = 10
)

// Boards 按账号保存的카테고리（板块）使用历史，最近用过的在前
type Boards struct {
	store Store
}

// NewBoards 创建板块历史存取器
func NewBoards(store Store) *Boards {
	return &Boards{store: store}
}

// Add 记录一次板块使用：已存在的条目移到最前，总数不超过10条
func (b *Boards) Add(accountKey, name string) error {
	if name == "" {
		return nil
	}
	history := b.History(accountKey)

	next := make([]string, 0, len(history)+1)
	next = append(next, name)
	for _, entry := range history {
		if entry == name {
			continue
		}
		next = append(next, entry)
	}
	if len(next) > boardHistoryLimit {
		next = next[:boardHistoryLimit]
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("序列化板块历史失败: %v", err)
	}
	return b.store.Set(boardsKeyPrefix+accountKey, raw)
}

// History 账号的板块使用历史
func (b *Boards) History(accountKey string) []string {
	raw, ok := b.store.Get(boardsKeyPrefix + accountKey)
	if !ok {
		return nil
	}
	var history []string
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil
	}
	return history
}
