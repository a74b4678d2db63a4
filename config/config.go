package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

// Config 配置结构，对应 config.ini
type Config struct {
	file *ini.File
}

// LoadConfig 加载配置文件
func LoadConfig(filename string) (*Config, error) {
	cfg, err := ini.Load(filename)
	if err != nil {
		return nil, err
	}

	return &Config{file: cfg}, nil
}

// Identifier 네이버 계정 ID
func (c *Config) Identifier() string {
	return strings.TrimSpace(c.file.Section("naver").Key("id").String())
}

// Secret 登录密码
func (c *Config) Secret() string {
	return c.file.Section("naver").Key("pw").String()
}

// RememberSecret 是否把密码存进本地账号库
func (c *Config) RememberSecret() bool {
	return c.file.Section("naver").Key("remember_pw").MustBool(false)
}

// PostFile 文章文件路径
func (c *Config) PostFile() string {
	return c.file.Section("post").Key("file").MustString("post.md")
}

// Title 标题，留空时用文章首行
func (c *Config) Title() string {
	return strings.TrimSpace(c.file.Section("post").Key("title").String())
}

// Category 目标分类名，留空时沿用博客的默认分类
func (c *Config) Category() string {
	return strings.TrimSpace(c.file.Section("post").Key("category").String())
}

// Mode 发布模式: draft / immediate / scheduled
func (c *Config) Mode() string {
	return c.file.Section("post").Key("mode").MustString("draft")
}

// ScheduleDate 预约日期，格式 2006-01-02，留空表示今天
func (c *Config) ScheduleDate() (time.Time, error) {
	raw := strings.TrimSpace(c.file.Section("post").Key("schedule_date").String())
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("预约日期格式应为 2006-01-02: %v", err)
	}
	return date, nil
}

// ScheduleHour 预约的小时
func (c *Config) ScheduleHour() int {
	return c.file.Section("post").Key("schedule_hour").MustInt(0)
}

// ScheduleMinute 预约的分钟
func (c *Config) ScheduleMinute() int {
	return c.file.Section("post").Key("schedule_minute").MustInt(0)
}

// ImageURLs 按占位符编号顺序排列的图片地址
func (c *Config) ImageURLs() []string {
	raw := c.file.Section("images").Key("urls").String()
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	urls := make([]string, 0, len(parts))
	for _, part := range parts {
		if url := strings.TrimSpace(part); url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

// Headless 无头模式开关，调试时关掉能看到浏览器动作
func (c *Config) Headless() bool {
	return c.file.Section("browser").Key("headless").MustBool(false)
}
