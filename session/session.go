package session

import (
	"os"
	"path/filepath"
	"time"
)

// Manager 本地数据目录管理器。浏览器会话状态和账号/分类历史
// 都落在 ~/.naver-auto-blog 下面。
type Manager struct {
	dataDir string
}

// NewManager 创建数据目录管理器
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	dataDir := filepath.Join(homeDir, ".naver-auto-blog")
	if err := os.MkdirAll(filepath.Join(dataDir, "session"), 0755); err != nil {
		return nil, err
	}

	return &Manager{
		dataDir: dataDir,
	}, nil
}

// BrowserDataDir 浏览器会话数据目录，登录状态持久化在这里
func (m *Manager) BrowserDataDir() string {
	return filepath.Join(m.dataDir, "session")
}

// DataDir 数据根目录，账号与分类历史的存储文件放在这一层
func (m *Manager) DataDir() string {
	return m.dataDir
}

// CleanOldSessions 删除超过30天没动过的会话文件
func (m *Manager) CleanOldSessions() error {
	cutoff := time.Now().AddDate(0, 0, -30)
	entries, err := os.ReadDir(m.BrowserDataDir())
	if err != nil {
		return err
	}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(m.BrowserDataDir(), entry.Name()))
		}
	}
	return nil
}
