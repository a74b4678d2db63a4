package browser

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	stealth "github.com/jonfriesen/playwright-go-stealth"
	"github.com/playwright-community/playwright-go"
)

// Driver 浏览器会话驱动：一个实例只拥有一个活动会话。
// Initialize/Navigate 失败时显式返回错误让调用方尽早放弃，
// 其余自动化操作都是尽力而为，失败返回 false/nil 而不抛错。
type Driver struct {
	pw          *playwright.Playwright
	browser     playwright.Browser
	context     playwright.BrowserContext
	page        playwright.Page
	userDataDir string
	headless    bool
	cleaned     bool
	mu          sync.Mutex
}

// NewDriver 创建驱动，Initialize 之前不产生任何浏览器进程
func NewDriver(userDataDir string, headless bool) *Driver {
	return &Driver{
		userDataDir: userDataDir,
		headless:    headless,
	}
}

// Initialize 启动浏览器并建立唯一会话
func (d *Driver) Initialize() error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("启动Playwright失败: %v", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(d.headless),
		Args: []string{
			"--disable-web-security",
			// 反检测参数
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-first-run",
			"--no-default-browser-check",
			"--disable-extensions",
			"--disable-plugins",
		},
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("启动浏览器失败: %v", err)
	}

	contextOptions := playwright.BrowserNewContextOptions{
		// 使用真实的User-Agent，模拟最新版本Chrome
		UserAgent: playwright.String("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.234 Safari/537.36"),
		Viewport: &playwright.Size{
			Width:  1366,
			Height: 768,
		},
		IsMobile:          playwright.Bool(false),
		HasTouch:          playwright.Bool(false),
		Locale:            playwright.String("ko-KR"),
		TimezoneId:        playwright.String("Asia/Seoul"),
		JavaScriptEnabled: playwright.Bool(true),
		Permissions:       []string{"clipboard-read", "clipboard-write"},
	}

	// 如果存在会话状态文件，则加载它
	stateFile := d.stateFile()
	if _, err := os.Stat(stateFile); err == nil {
		contextOptions.StorageStatePath = playwright.String(stateFile)
		log.Println("加载已保存的会话状态")
	} else {
		log.Println("首次运行，创建新会话")
	}

	context, err := browser.NewContext(contextOptions)
	if err != nil {
		browser.Close()
		pw.Stop()
		return fmt.Errorf("创建浏览器上下文失败: %v", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return fmt.Errorf("创建页面失败: %v", err)
	}

	// 注入stealth脚本，防止被检测为自动化浏览器
	if err := stealth.Inject(page); err != nil {
		log.Printf("⚠️ 注入stealth脚本失败: %v", err)
	}

	d.pw = pw
	d.browser = browser
	d.context = context
	d.page = page
	d.cleaned = false
	return nil
}

// Navigate 打开指定URL
func (d *Driver) Navigate(url string) error {
	if d.page == nil {
		return fmt.Errorf("浏览器会话未初始化")
	}
	if _, err := d.page.Goto(url); err != nil {
		return fmt.Errorf("无法打开 %s: %v", url, err)
	}
	d.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	})
	return nil
}

// CurrentURL 当前页面URL，没有会话时返回空串
func (d *Driver) CurrentURL() string {
	if d.page == nil {
		return ""
	}
	return d.page.URL()
}

// RunScript 执行页面脚本。frameMatch 非空时先试主文档，
// 再按URL子串遍历子frame，返回第一个 success 为真的结果。
func (d *Driver) RunScript(code, frameMatch string) interface{} {
	if d.page == nil {
		return nil
	}
	if frameMatch == "" {
		result, err := d.page.Evaluate(code)
		if err != nil {
			return nil
		}
		return result
	}

	if result, err := d.page.Evaluate(code); err == nil && scriptSucceeded(result) {
		return result
	}
	for _, frame := range d.page.Frames() {
		if !strings.Contains(frame.URL(), frameMatch) {
			continue
		}
		result, err := frame.Evaluate(code)
		if err != nil {
			continue
		}
		if scriptSucceeded(result) {
			return result
		}
	}
	return nil
}

func scriptSucceeded(result interface{}) bool {
	resultMap, ok := result.(map[string]interface{})
	if !ok {
		return false
	}
	success, _ := resultMap["success"].(bool)
	return success
}

// Click 点击元素，frameMatch 非空时在匹配的子frame里找
func (d *Driver) Click(selector, frameMatch string) bool {
	locator := d.locator(selector, frameMatch)
	if locator == nil {
		return false
	}
	if err := locator.First().WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
		State:   playwright.WaitForSelectorStateVisible,
	}); err != nil {
		return false
	}
	return locator.First().Click() == nil
}

// Fill 填写输入框
func (d *Driver) Fill(selector, value string) bool {
	if d.page == nil {
		return false
	}
	locator := d.page.Locator(selector)
	if err := locator.WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
		State:   playwright.WaitForSelectorStateVisible,
	}); err != nil {
		return false
	}
	if err := locator.Click(); err != nil {
		return false
	}
	return locator.Fill(value) == nil
}

// TypeText 逐字输入，字符之间随机延迟，模拟真人打字
func (d *Driver) TypeText(text string, minDelayMs, maxDelayMs int) bool {
	if d.page == nil {
		return false
	}
	for _, r := range text {
		if err := d.page.Keyboard().Type(string(r)); err != nil {
			return false
		}
		if maxDelayMs > minDelayMs {
			delay := minDelayMs + rand.Intn(maxDelayMs-minDelayMs)
			time.Sleep(time.Duration(delay) * time.Millisecond)
		}
	}
	return true
}

// PressKey 按下按键或组合键
func (d *Driver) PressKey(key string) bool {
	if d.page == nil {
		return false
	}
	return d.page.Keyboard().Press(key) == nil
}

// ClickAt 在页面坐标处点击
func (d *Driver) ClickAt(x, y float64) bool {
	if d.page == nil {
		return false
	}
	return d.page.Mouse().Click(x, y) == nil
}

// WaitForSelector 等待元素可见
func (d *Driver) WaitForSelector(selector string, timeoutMs float64) bool {
	if d.page == nil {
		return false
	}
	err := d.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(timeoutMs),
		State:   playwright.WaitForSelectorStateVisible,
	})
	return err == nil
}

// Wait 固定等待
func (d *Driver) Wait(ms int) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// PageText 主文档的全部可见文本，读取失败返回空串
func (d *Driver) PageText() string {
	if d.page == nil {
		return ""
	}
	result, err := d.page.Evaluate(`document.body ? document.body.innerText : ""`)
	if err != nil {
		return ""
	}
	text, _ := result.(string)
	return text
}

func (d *Driver) locator(selector, frameMatch string) playwright.Locator {
	if d.page == nil {
		return nil
	}
	if frameMatch == "" {
		return d.page.Locator(selector)
	}
	for _, frame := range d.page.Frames() {
		if strings.Contains(frame.URL(), frameMatch) {
			return frame.Locator(selector)
		}
	}
	return nil
}

func (d *Driver) stateFile() string {
	return filepath.Join(d.userDataDir, "state.json")
}

// SaveSession 保存会话状态，下次运行可以跳过登录
func (d *Driver) SaveSession() error {
	if d.context == nil {
		return nil
	}
	state, err := d.context.StorageState()
	if err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := os.WriteFile(d.stateFile(), data, 0644); err != nil {
		return err
	}
	cookieCount := 0
	if state != nil && state.Cookies != nil {
		cookieCount = len(state.Cookies)
	}
	log.Printf("💾 会话状态已保存: %d个cookies, %d bytes", cookieCount, len(data))
	return nil
}

// Cleanup 关闭会话。任何错误路径和进程退出时都可以调用，重复调用安全。
func (d *Driver) Cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cleaned {
		return
	}
	d.cleaned = true

	if d.context != nil {
		d.context.Close()
		d.context = nil
	}
	if d.browser != nil {
		d.browser.Close()
		d.browser = nil
	}
	if d.pw != nil {
		d.pw.Stop()
		d.pw = nil
	}
	d.page = nil
	log.Println("浏览器会话已关闭")
}
