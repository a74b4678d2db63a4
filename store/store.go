package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store 调用方持有的键值存储。核心只通过这三个操作读写，
// 不关心底层介质。
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string) error
}

// FileStore 单文件JSON实现，所有键值放在一个 store.json 里
type FileStore struct {
	path string
	mu   sync.Mutex
	data map[string]json.RawMessage
}

// NewFileStore 创建文件存储，dir 不存在时自动创建
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("无法创建存储目录: %v", err)
	}

	fs := &FileStore{
		path: filepath.Join(dir, "store.json"),
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(fs.path)
	if err == nil {
		if err := json.Unmarshal(raw, &fs.data); err != nil {
			// 损坏的存储文件按空库处理，不让历史数据问题挡住发布
			fs.data = make(map[string]json.RawMessage)
		}
	}
	return fs, nil
}

// Get 读取键值
func (fs *FileStore) Get(key string) ([]byte, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	value, ok := fs.data[key]
	if !ok {
		return nil, false
	}
	return []byte(value), true
}

// Set 写入键值并立即落盘
func (fs *FileStore) Set(key string, value []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data[key] = json.RawMessage(value)
	return fs.flush()
}

// Delete 删除键值并立即落盘
func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.data, key)
	return fs.flush()
}

func (fs *FileStore) flush() error {
	raw, err := json.Marshal(fs.data)
	if err != nil {
		return fmt.Errorf("序列化存储数据失败: %v", err)
	}
	if err := os.WriteFile(fs.path, raw, 0644); err != nil {
		return fmt.Errorf("写入存储文件失败: %v", err)
	}
	return nil
}
