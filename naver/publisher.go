package naver

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/naver-auto-blog/article"
)

// 发布编排：登录 → 打开编辑器 → 填标题 → 粘正文 → 换图 →
// 按模式走存草稿/立即发布/预约发布，最后带着结果URL收尾。

const (
	editorURLPattern = "https://blog.naver.com/%s/postwrite"
	editorFrameMatch = "PostWriteForm"
)

var (
	draftPopupCancelSelectors = []string{
		".se-popup-button-cancel",
		"[class^='se-popup'] button[class*='cancel']",
	}
	titleSelectors = []string{
		".se-title-text",
		".se-placeholder.__se_placeholder",
	}
	bodySelectors = []string{
		".se-component-content p",
		".se-text-paragraph",
	}
	saveDraftSelectors = []string{
		"[class^='save_btn']",
		".save_btn__bzc5B",
		"button.save_btn",
	}
	publishOpenSelectors = []string{
		"[class^='publish_btn']",
		".publish_btn__m9KHH",
		"button.publish_btn",
	}
	publishConfirmSelectors = []string{
		"[class^='confirm_btn']",
		".confirm_btn__WEaBq",
		"button[data-testid='seOnePublishBtn']",
	}
	scheduleRadioSelectors = []string{
		"label[for='radio_time2']",
		"#radio_time2",
	}
	scheduleHourSelector   = "[class^='hour_option']"
	scheduleMinuteSelector = "[class^='minute_option']"
)

// PublishMode 发布模式
type PublishMode int

const (
	ModeDraft PublishMode = iota
	ModeImmediate
	ModeScheduled
)

// ParsePublishMode 解析配置里的模式名
func ParsePublishMode(value string) (PublishMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "draft":
		return ModeDraft, nil
	case "immediate", "publish":
		return ModeImmediate, nil
	case "scheduled", "schedule":
		return ModeScheduled, nil
	default:
		return ModeDraft, fmt.Errorf("未知的发布模式: %s", value)
	}
}

func (m PublishMode) String() string {
	switch m {
	case ModeImmediate:
		return "immediate"
	case ModeScheduled:
		return "scheduled"
	default:
		return "draft"
	}
}

// PublishRequest 一次发布的全部输入
type PublishRequest struct {
	Post     *article.Post
	Category string
	Mode     PublishMode

	// 预约发布专用
	ScheduleDate   time.Time
	ScheduleHour   int
	ScheduleMinute int
}

// Result 发布结果
type Result struct {
	Success      bool
	Message      string
	URL          string // 发布完成后浏览器落在的地址
	Category     string // 实际生效的分类
	Injected     int    // 成功替换的图片数
	Interstitial bool   // 登录停在需要人工处理的中间页，浏览器窗口还开着
}

// Publisher 发布器
type Publisher struct {
	driver     Driver
	identifier string
	status     func(string)

	now        func() time.Time
	newChecker func() *LoginChecker
}

// NewPublisher 创建发布器，status 可以为nil
func NewPublisher(driver Driver, identifier string, status func(string)) *Publisher {
	if status == nil {
		status = func(string) {}
	}
	p := &Publisher{
		driver:     driver,
		identifier: identifier,
		status:     status,
		now:        time.Now,
	}
	p.newChecker = func() *LoginChecker {
		return NewLoginChecker(p.driver, p.status)
	}
	return p
}

// Publish 执行完整发布流程。两步验证/设备确认这两种中间态
// 不关浏览器，留给用户在窗口里接着处理；其余失败路径都清理会话。
func (p *Publisher) Publish(ctx context.Context, secret string, req PublishRequest) Result {
	if strings.TrimSpace(p.identifier) == "" || strings.TrimSpace(secret) == "" {
		return Result{Message: "缺少账号或密码"}
	}
	if req.Post == nil || strings.TrimSpace(req.Post.Body) == "" {
		return Result{Message: "正文为空，没有可发布的内容"}
	}
	// 预约时间先验：不合法就不用起浏览器
	if req.Mode == ModeScheduled {
		if err := ValidateSchedule(p.now(), req.ScheduleDate, req.ScheduleHour, req.ScheduleMinute); err != nil {
			return Result{Message: err.Error()}
		}
	}

	if err := p.driver.Initialize(); err != nil {
		return Result{Message: fmt.Sprintf("启动浏览器失败: %v", err)}
	}

	p.status("正在登录...")
	checker := p.newChecker()
	outcome, err := checker.Login(ctx, p.identifier, secret)
	if err != nil {
		p.driver.Cleanup()
		return Result{Message: fmt.Sprintf("登录中断: %v", err)}
	}
	switch outcome {
	case AuthTwoFactor:
		return Result{Message: "需要两步验证：请在打开的浏览器里完成验证后重新发布", Interstitial: true}
	case AuthDeviceRegistration:
		return Result{Message: "需要设备确认：请在打开的浏览器里处理后重新发布", Interstitial: true}
	case AuthFailed:
		p.driver.Cleanup()
		return Result{Message: "登录失败，请检查账号和密码"}
	}

	if err := p.driver.SaveSession(); err != nil {
		log.Printf("⚠️ 保存会话失败: %v", err)
	}

	p.status("正在打开编辑器...")
	if err := p.openEditor(); err != nil {
		p.driver.Cleanup()
		return Result{Message: fmt.Sprintf("打开编辑器失败: %v", err)}
	}
	p.dismissDraftPopup()

	// 标题失败不致命，正文还能继续
	if title := strings.TrimSpace(req.Post.Title); title != "" {
		if !p.fillTitle(title) {
			log.Println("⚠️ 填写标题失败，继续粘贴正文")
		}
	}

	p.status("正在粘贴正文...")
	markup := article.FormatContent(req.Post.Body)
	if !p.pasteContent(markup) {
		p.driver.Cleanup()
		return Result{Message: "正文粘贴失败"}
	}

	injected := 0
	if len(req.Post.Images) > 0 {
		p.status("正在替换图片...")
		injected = p.injectImages(ctx, req.Post.Images)
	}

	result := Result{Injected: injected}
	switch req.Mode {
	case ModeDraft:
		if !p.clickAny(saveDraftSelectors, editorFrameMatch) {
			p.driver.Cleanup()
			return Result{Message: "保存草稿失败", Injected: injected}
		}
		p.driver.Wait(2000)
		result.Message = "草稿保存成功"
	default:
		category, err := p.publishFromPanel(req)
		if err != nil {
			p.driver.Cleanup()
			return Result{Message: err.Error(), Injected: injected}
		}
		result.Category = category
		if req.Mode == ModeScheduled {
			result.Message = fmt.Sprintf("预约发布成功: %s %02d:%02d",
				req.ScheduleDate.Format("2006-01-02"), req.ScheduleHour, req.ScheduleMinute)
		} else {
			result.Message = "发布成功"
		}
	}

	result.Success = true
	result.URL = p.driver.CurrentURL()
	log.Printf("🎉 %s", result.Message)
	p.driver.Cleanup()
	return result
}

// publishFromPanel 打开发布面板，定好分类和预约时间后点确认
func (p *Publisher) publishFromPanel(req PublishRequest) (string, error) {
	if !p.clickAny(publishOpenSelectors, editorFrameMatch) {
		return "", fmt.Errorf("找不到发布按钮")
	}
	p.driver.Wait(1000)

	category := p.resolveCategory(req.Category)

	if req.Mode == ModeScheduled {
		p.applySchedule(req)
	}

	if !p.clickAny(publishConfirmSelectors, editorFrameMatch) {
		return "", fmt.Errorf("找不到发布确认按钮")
	}
	p.driver.Wait(3000)
	return category.Label, nil
}

func (p *Publisher) openEditor() error {
	url := fmt.Sprintf(editorURLPattern, p.identifier)
	if err := p.driver.Navigate(url); err != nil {
		return err
	}
	p.driver.Wait(3000)
	return nil
}

// dismissDraftPopup 编辑器打开时可能弹「继续写上次的草稿?」，
// 点取消从空白开始。弹窗不在就算了。
func (p *Publisher) dismissDraftPopup() {
	if p.clickAny(draftPopupCancelSelectors, editorFrameMatch) {
		log.Println("已关闭草稿恢复弹窗")
		p.driver.Wait(500)
	}
}

func (p *Publisher) fillTitle(title string) bool {
	if !p.clickAny(titleSelectors, editorFrameMatch) {
		return false
	}
	p.driver.Wait(300)
	return p.driver.TypeText(title, 30, 80)
}

// pasteContent 把富文本写进系统剪贴板后，点进正文区粘贴
func (p *Publisher) pasteContent(markup string) bool {
	if !p.driver.SetClipboardHTML(markup) {
		return false
	}
	if !p.clickAny(bodySelectors, editorFrameMatch) {
		return false
	}
	p.driver.Wait(300)
	if !p.pasteShortcut() {
		return false
	}
	p.driver.Wait(2000)
	return true
}

// applySchedule 在发布面板里切到预约单选，设好日期和时分
func (p *Publisher) applySchedule(req PublishRequest) {
	if !p.clickAny(scheduleRadioSelectors, editorFrameMatch) {
		log.Println("⚠️ 切换预约选项失败")
		return
	}
	p.driver.Wait(500)

	// 默认落在今天，目标是未来日期时再翻日历
	if !sameDate(req.ScheduleDate, p.now()) {
		p.pickScheduleDate(req.ScheduleDate)
	}
	p.setScheduleField(scheduleHourSelector, fmt.Sprintf("%02d", req.ScheduleHour))
	p.setScheduleField(scheduleMinuteSelector, fmt.Sprintf("%02d", req.ScheduleMinute))
}

// pickScheduleDate 打开日期输入框，在日历里点目标日
func (p *Publisher) pickScheduleDate(date time.Time) {
	if !p.clickAny([]string{"[class^='input_date']", ".input_date"}, editorFrameMatch) {
		log.Println("⚠️ 打不开日期选择器")
		return
	}
	p.driver.Wait(500)

	script := fmt.Sprintf(`(function() {
		try {
			const cells = document.querySelectorAll('.ui-datepicker-calendar a, [class^="calendar"] button');
			for (const cell of cells) {
				if (cell.innerText.trim() === '%d') {
					cell.click();
					return { success: true };
				}
			}
			return { success: false, error: 'day cell not found' };
		} catch (e) {
			return { success: false, error: e.message };
		}
	})()`, date.Day())
	if _, ok := scriptResult(p.driver.RunScript(script, editorFrameMatch)); !ok {
		log.Printf("⚠️ 选择日期 %s 失败", date.Format("2006-01-02"))
	}
	p.driver.Wait(300)
}

// setScheduleField 给时/分下拉赋值并触发change事件
func (p *Publisher) setScheduleField(selector, value string) {
	script := fmt.Sprintf(`(function() {
		try {
			const field = document.querySelector('%s');
			if (!field) {
				return { success: false, error: 'field not found' };
			}
			field.value = '%s';
			field.dispatchEvent(new Event('change', { bubbles: true }));
			return { success: true };
		} catch (e) {
			return { success: false, error: e.message };
		}
	})()`, selector, value)
	if _, ok := scriptResult(p.driver.RunScript(script, editorFrameMatch)); !ok {
		log.Printf("⚠️ 设置预约时间字段失败: %s", selector)
	}
}

func (p *Publisher) clickAny(selectors []string, frameMatch string) bool {
	for _, selector := range selectors {
		if p.driver.Click(selector, frameMatch) {
			return true
		}
	}
	return false
}
