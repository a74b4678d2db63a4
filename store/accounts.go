package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const (
	accountsKey     = "accounts"
	secretKeyPrefix = "secret:"
)

// Account 登录过的账号记录。账号列表没有数量上限（与看板历史不同），
// 是否需要淘汰策略尚未定论，这里保持不限。
type Account struct {
	AccountKey string    `json:"account_key"` // 由登录ID确定性编码得到，可逆
	Identifier string    `json:"identifier"`  // 登录ID
	LastUsed   time.Time `json:"last_used"`   // 最近一次使用时间
}

// AccountKey 从登录ID确定性地派生账号键（base64url，可逆）
func AccountKey(identifier string) string {
	return base64.URLEncoding.EncodeToString([]byte(identifier))
}

// DecodeAccountKey 还原账号键对应的登录ID
func DecodeAccountKey(key string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(key)
	if err != nil {
		return "", fmt.Errorf("账号键解码失败: %v", err)
	}
	return string(raw), nil
}

// Accounts 账号列表与密码条目的存取
type Accounts struct {
	store Store
}

// NewAccounts 创建账号存取器
func NewAccounts(store Store) *Accounts {
	return &Accounts{store: store}
}

// Touch 记录一次账号使用：不存在则新建，存在则刷新时间
func (a *Accounts) Touch(identifier string, now time.Time) error {
	key := AccountKey(identifier)
	accounts := a.load()

	found := false
	for i := range accounts {
		if accounts[i].AccountKey == key {
			accounts[i].LastUsed = now
			found = true
			break
		}
	}
	if !found {
		accounts = append(accounts, Account{
			AccountKey: key,
			Identifier: identifier,
			LastUsed:   now,
		})
	}
	return a.save(accounts)
}

// List 全部账号，最近使用的在前
func (a *Accounts) List() []Account {
	accounts := a.load()
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].LastUsed.After(accounts[j].LastUsed)
	})
	return accounts
}

// SaveSecret 保存账号密码。只在调用方明确选择记住、且登录成功后才调用。
func (a *Accounts) SaveSecret(accountKey, secret string) error {
	raw, err := json.Marshal(secret)
	if err != nil {
		return err
	}
	return a.store.Set(secretKeyPrefix+accountKey, raw)
}

// Secret 读取账号密码
func (a *Accounts) Secret(accountKey string) (string, bool) {
	raw, ok := a.store.Get(secretKeyPrefix + accountKey)
	if !ok {
		return "", false
	}
	var secret string
	if err := json.Unmarshal(raw, &secret); err != nil {
		return "", false
	}
	return secret, true
}

// DeleteSecret 删除账号密码
func (a *Accounts) DeleteSecret(accountKey string) error {
	return a.store.Delete(secretKeyPrefix + accountKey)
}

func (a *Accounts) load() []Account {
	raw, ok := a.store.Get(accountsKey)
	if !ok {
		return nil
	}
	var accounts []Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil
	}
	return accounts
}

func (a *Accounts) save(accounts []Account) error {
	raw, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("序列化账号列表失败: %v", err)
	}
	return a.store.Set(accountsKey, raw)
}
