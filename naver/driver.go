package naver

// Driver 发布流程依赖的浏览器能力面。browser.Driver 实现了它，
// 测试里用假驱动替换，不需要真的拉起浏览器。
type Driver interface {
	Initialize() error
	Navigate(url string) error
	CurrentURL() string

	// RunScript 在主文档或URL包含frameMatch的子Frame里执行脚本
	RunScript(code, frameMatch string) interface{}
	Click(selector, frameMatch string) bool
	Fill(selector, value string) bool
	TypeText(text string, minDelayMs, maxDelayMs int) bool
	PressKey(key string) bool
	ClickAt(x, y float64) bool
	WaitForSelector(selector string, timeoutMs float64) bool
	Wait(ms int)
	PageText() string

	SetClipboardText(text string) bool
	SetClipboardHTML(markup string) bool

	SaveSession() error
	Cleanup()
}

// scriptResult 把脚本返回值还原成map，success 为假时视为没有结果
func scriptResult(value interface{}) (map[string]interface{}, bool) {
	resultMap, ok := value.(map[string]interface{})
	if !ok {
		return nil, false
	}
	if success, _ := resultMap["success"].(bool); !success {
		return nil, false
	}
	return resultMap, true
}

