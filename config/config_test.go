package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	return cfg
}

func TestLoadConfig(t *testing.T) {
	cfg := writeConfig(t, `
[naver]
id = tester
pw = secret
remember_pw = true

[post]
file = articles/today.md
title = 오늘의 기록
category = 여행 기록
mode = scheduled
schedule_date = 2026-03-15
schedule_hour = 9
schedule_minute = 30

[images]
urls = https://cdn.example.com/a.jpg, https://cdn.example.com/b.png

[browser]
headless = true
`)

	assert.Equal(t, "tester", cfg.Identifier())
	assert.Equal(t, "secret", cfg.Secret())
	assert.True(t, cfg.RememberSecret())
	assert.Equal(t, "articles/today.md", cfg.PostFile())
	assert.Equal(t, "오늘의 기록", cfg.Title())
	assert.Equal(t, "여행 기록", cfg.Category())
	assert.Equal(t, "scheduled", cfg.Mode())
	assert.Equal(t, 9, cfg.ScheduleHour())
	assert.Equal(t, 30, cfg.ScheduleMinute())
	assert.True(t, cfg.Headless())

	date, err := cfg.ScheduleDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local), date)

	assert.Equal(t, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.png",
	}, cfg.ImageURLs())
}

func TestConfigDefaults(t *testing.T) {
	cfg := writeConfig(t, "[naver]\nid = tester\npw = secret\n")

	assert.False(t, cfg.RememberSecret())
	assert.Equal(t, "post.md", cfg.PostFile())
	assert.Equal(t, "", cfg.Category())
	assert.Equal(t, "draft", cfg.Mode())
	assert.Nil(t, cfg.ImageURLs())
	assert.False(t, cfg.Headless())

	// 日期留空按今天算
	date, err := cfg.ScheduleDate()
	require.NoError(t, err)
	now := time.Now()
	assert.Equal(t, now.Year(), date.Year())
	assert.Equal(t, now.YearDay(), date.YearDay())
}

func TestScheduleDateRejectsBadFormat(t *testing.T) {
	cfg := writeConfig(t, "[post]\nschedule_date = 15/03/2026\n")

	_, err := cfg.ScheduleDate()
	assert.Error(t, err)
}
