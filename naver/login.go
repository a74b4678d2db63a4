package naver

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// 登录自动机：提交凭据后在固定预算内轮询URL，把落点归类成
// 成功/两步验证/设备确认/失败四种终态。

const (
	// LoginURL 네이버 통합로그인 입口
	LoginURL = "https://nid.naver.com/nidlogin.login"

	loginBudget       = 90 * time.Second // 轮询总预算
	loginPollInterval = 2 * time.Second  // URL采样间隔
	loginStuckAfter   = 10 * time.Second // 提交后仍停在登录页的容忍时间

	twoFactorProbeTimeoutMs = 1000
)

var (
	identifierSelector = "#id"
	secretSelector     = "#pw"

	// 登录按钮：主选择器失效时按顺序尝试备选
	loginSubmitSelectors = []string{
		"#log\\.login",
		"button[type='submit']",
		".btn_login",
	}

	// 新设备确认页的「등록안함」（不注册）控件
	deviceSkipSelectors = []string{
		"#new\\.dontsave",
		"a.btn_cancel",
		"span.btn_cancel",
	}

	// 只会出现在两步验证页上的元素
	twoFactorSelectors = []string{
		"#otp",
		".otp_input",
		"#push_title",
		".two_step_info",
		"#auth_number",
	}

	// 两步验证页的特征文案
	twoFactorPhrases = []string{
		"2단계 인증",
		"새로운 기기",
		"인증 요청",
		"인증번호",
	}
)

// AuthOutcome 认证终态
type AuthOutcome int

const (
	AuthFailed AuthOutcome = iota
	AuthSuccess
	AuthTwoFactor
	AuthDeviceRegistration
)

func (o AuthOutcome) String() string {
	switch o {
	case AuthSuccess:
		return "Success"
	case AuthTwoFactor:
		return "TwoFactorRequired"
	case AuthDeviceRegistration:
		return "DeviceRegistrationRequired"
	default:
		return "Failed"
	}
}

// loginSample 一次轮询采到的全部信号
type loginSample struct {
	URL              string
	TwoFactorSeen    bool          // 本次探测命中两步验证特征
	TwoFactorFlagged bool          // 此前已标记过两步验证
	DeviceHandled    bool          // 已经点过「跳过注册」
	SinceSubmit      time.Duration // 距提交凭据的时间
}

type loginAction int

const (
	actionWait loginAction = iota
	actionSkipDevice
	actionSuccess
	actionFlagTwoFactor
	actionFail
)

// classifyLogin 纯分类函数，按优先级把一次采样归入下一步动作。
// 不碰浏览器，便于单测覆盖各种跳转序列。
func classifyLogin(s loginSample) loginAction {
	switch {
	case isDeviceConfirmURL(s.URL) && !s.DeviceHandled:
		return actionSkipDevice
	case isAuthenticatedURL(s.URL):
		return actionSuccess
	case s.TwoFactorSeen && !s.TwoFactorFlagged:
		return actionFlagTwoFactor
	case s.TwoFactorFlagged && isLoginURL(s.URL):
		// 用户正在别的设备上确认，安静地等
		return actionWait
	case isLoginURL(s.URL) && s.SinceSubmit > loginStuckAfter:
		return actionFail
	default:
		// 过渡页、跳转抖动一律继续等
		return actionWait
	}
}

func isLoginURL(url string) bool {
	return strings.Contains(url, "nid.naver.com/nidlogin")
}

func isDeviceConfirmURL(url string) bool {
	return strings.Contains(url, "deviceConfirm")
}

func isAuthenticatedURL(url string) bool {
	return strings.Contains(url, "naver.com") &&
		!strings.Contains(url, "nid.naver.com") &&
		!isDeviceConfirmURL(url)
}

// LoginChecker 登录检查器
type LoginChecker struct {
	driver Driver
	status func(string) // 面向用户的状态提示

	// 测试里替换时间源，避免真等90秒
	now   func() time.Time
	sleep func(time.Duration)
}

// NewLoginChecker 创建登录检查器，status 可以为nil
func NewLoginChecker(driver Driver, status func(string)) *LoginChecker {
	if status == nil {
		status = func(string) {}
	}
	return &LoginChecker{
		driver: driver,
		status: status,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Login 提交凭据并轮询登录结果。轮询每一圈都检查ctx，
// 外部取消时立刻退出。
func (lc *LoginChecker) Login(ctx context.Context, identifier, secret string) (AuthOutcome, error) {
	if err := lc.driver.Navigate(LoginURL); err != nil {
		return AuthFailed, err
	}

	// 依次填入账号密码，中间留出短暂的稳定间隔
	if !lc.driver.Fill(identifierSelector, identifier) {
		log.Println("⚠️ 填写账号失败")
	}
	lc.driver.Wait(500)
	if !lc.driver.Fill(secretSelector, secret) {
		log.Println("⚠️ 填写密码失败")
	}
	lc.driver.Wait(500)

	if !lc.clickAny(loginSubmitSelectors) {
		return AuthFailed, fmt.Errorf("找不到登录按钮")
	}

	submittedAt := lc.now()
	deadline := submittedAt.Add(loginBudget)
	twoFactorFlagged := false
	deviceHandled := false

	for lc.now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return AuthFailed, err
		}

		sample := loginSample{
			URL:              lc.driver.CurrentURL(),
			TwoFactorFlagged: twoFactorFlagged,
			DeviceHandled:    deviceHandled,
			SinceSubmit:      lc.now().Sub(submittedAt),
		}
		// 已标记过就不再探测，省掉多余的DOM查询
		if !twoFactorFlagged {
			sample.TwoFactorSeen = lc.probeTwoFactor()
		}

		switch classifyLogin(sample) {
		case actionSkipDevice:
			log.Println("检测到新设备确认页，尝试跳过注册")
			if !lc.clickAny(deviceSkipSelectors) {
				return AuthDeviceRegistration, nil
			}
			deviceHandled = true
		case actionSuccess:
			log.Println("✅ 登录成功")
			return AuthSuccess, nil
		case actionFlagTwoFactor:
			twoFactorFlagged = true
			log.Println("🔐 检测到两步验证页面")
			lc.status("需要两步验证：请在浏览器中完成验证，完成后会自动继续")
		case actionFail:
			return AuthFailed, nil
		}

		lc.sleep(loginPollInterval)
	}

	// 预算耗尽：标记过两步验证说明人还没处理完，按中间态收场
	if twoFactorFlagged {
		return AuthTwoFactor, nil
	}
	return AuthFailed, nil
}

func (lc *LoginChecker) clickAny(selectors []string) bool {
	for _, selector := range selectors {
		if lc.driver.Click(selector, "") {
			return true
		}
	}
	return false
}

// probeTwoFactor 短超时探测两步验证特征：先查专属元素，再扫页面文案
func (lc *LoginChecker) probeTwoFactor() bool {
	for _, selector := range twoFactorSelectors {
		if lc.driver.WaitForSelector(selector, twoFactorProbeTimeoutMs) {
			return true
		}
	}
	text := lc.driver.PageText()
	for _, phrase := range twoFactorPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
