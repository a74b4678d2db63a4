package naver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naver-auto-blog/article"
)

func TestParsePublishMode(t *testing.T) {
	cases := map[string]PublishMode{
		"":          ModeDraft,
		"draft":     ModeDraft,
		"Immediate": ModeImmediate,
		"publish":   ModeImmediate,
		"scheduled": ModeScheduled,
		" schedule": ModeScheduled,
	}
	for input, want := range cases {
		mode, err := ParsePublishMode(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, mode, input)
	}

	_, err := ParsePublishMode("later")
	assert.Error(t, err)
}

func TestPublishRejectsMissingCredentials(t *testing.T) {
	fd := &fakeDriver{}
	p := NewPublisher(fd, "", nil)

	result := p.Publish(context.Background(), "secret", PublishRequest{
		Post: &article.Post{Body: "안녕하세요"},
	})

	assert.False(t, result.Success)
	assert.False(t, fd.initialized)

	p = NewPublisher(fd, "tester", nil)
	result = p.Publish(context.Background(), "  ", PublishRequest{
		Post: &article.Post{Body: "안녕하세요"},
	})
	assert.False(t, result.Success)
	assert.False(t, fd.initialized)
}

func TestPublishRejectsInvalidScheduleBeforeBrowser(t *testing.T) {
	fd := &fakeDriver{}
	p := NewPublisher(fd, "tester", nil)
	now := time.Date(2026, 3, 2, 14, 30, 0, 0, time.Local)
	p.now = func() time.Time { return now }

	result := p.Publish(context.Background(), "secret", PublishRequest{
		Post:           &article.Post{Body: "안녕하세요"},
		Mode:           ModeScheduled,
		ScheduleDate:   now,
		ScheduleHour:   14,
		ScheduleMinute: 30,
	})

	assert.False(t, result.Success)
	assert.False(t, fd.initialized, "时间校验不过就不该起浏览器")
}

func TestPublishLoginFailureCleansUp(t *testing.T) {
	fd := &fakeDriver{urls: []string{"https://nid.naver.com/nidlogin.login"}}
	p := NewPublisher(fd, "tester", nil)
	stubLoginClock(p, fd)

	result := p.Publish(context.Background(), "bad-secret", PublishRequest{
		Post: &article.Post{Body: "안녕하세요"},
	})

	assert.False(t, result.Success)
	assert.False(t, result.Interstitial)
	assert.True(t, fd.cleaned)
	assert.False(t, fd.saved)
}

func TestPublishTwoFactorLeavesSessionOpen(t *testing.T) {
	fd := &fakeDriver{urls: []string{
		"https://nid.naver.com/nidlogin.login",
		"https://nid.naver.com/login/ext/need2auth",
	}}
	p := NewPublisher(fd, "tester", nil)
	stubLoginClock(p, fd)

	result := p.Publish(context.Background(), "secret", PublishRequest{
		Post: &article.Post{Body: "안녕하세요"},
	})

	assert.False(t, result.Success)
	assert.True(t, result.Interstitial, "中间态要带标记，调用方据此决定不杀进程")
	assert.Contains(t, result.Message, "两步验证")
	assert.False(t, fd.cleaned, "中间态要留着浏览器窗口")
}

func TestPublishDeviceRegistrationLeavesSessionOpen(t *testing.T) {
	fd := &fakeDriver{
		urls: []string{
			"https://nid.naver.com/nidlogin.login",
			"https://nid.naver.com/login/ext/deviceConfirm",
		},
		clickable: map[string]bool{loginSubmitSelectors[0]: true},
	}
	p := NewPublisher(fd, "tester", nil)
	stubLoginClock(p, fd)

	result := p.Publish(context.Background(), "secret", PublishRequest{
		Post: &article.Post{Body: "안녕하세요"},
	})

	assert.False(t, result.Success)
	assert.True(t, result.Interstitial)
	assert.False(t, fd.cleaned)
}

func TestPublishDraftFlow(t *testing.T) {
	fd := &fakeDriver{urls: []string{
		"https://nid.naver.com/nidlogin.login",
		"https://blog.naver.com/tester",
	}}
	p := NewPublisher(fd, "tester", nil)
	stubLoginClock(p, fd)

	result := p.Publish(context.Background(), "secret", PublishRequest{
		Post: &article.Post{Title: "오늘의 기록", Body: "안녕하세요 **여러분**"},
		Mode: ModeDraft,
	})

	require.True(t, result.Success, result.Message)
	assert.True(t, fd.saved, "登录成功后要落盘会话")
	assert.True(t, fd.cleaned)
	assert.Contains(t, fd.navigated, "https://blog.naver.com/tester/postwrite")
	assert.Contains(t, fd.typed, "오늘의 기록")
	assert.Contains(t, fd.clipHTML, "<b>여러분</b>")
	assert.Contains(t, fd.clicked, saveDraftSelectors[0])
	assert.Contains(t, fd.pressed, "Control+V")
}

func TestPublishImmediateFlow(t *testing.T) {
	fd := &fakeDriver{
		urls: []string{
			"https://nid.naver.com/nidlogin.login",
			"https://blog.naver.com/tester",
		},
		scripts: map[string]interface{}{
			"button.innerText": map[string]interface{}{"success": true, "label": "전체보기"},
		},
	}
	p := NewPublisher(fd, "tester", nil)
	stubLoginClock(p, fd)

	result := p.Publish(context.Background(), "secret", PublishRequest{
		Post: &article.Post{Body: "안녕하세요"},
		Mode: ModeImmediate,
	})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "전체보기", result.Category)
	assert.Contains(t, fd.clicked, publishOpenSelectors[0])
	assert.Contains(t, fd.clicked, publishConfirmSelectors[0])
	assert.True(t, fd.cleaned)
}

// stubLoginClock 把发布器内部登录轮询的时钟换成假的
func stubLoginClock(p *Publisher, fd *fakeDriver) {
	current := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	p.newChecker = func() *LoginChecker {
		checker := NewLoginChecker(fd, p.status)
		checker.now = func() time.Time { return current }
		checker.sleep = func(d time.Duration) { current = current.Add(d) }
		return checker
	}
}
