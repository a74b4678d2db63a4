package browser

import (
	"fmt"
	"html"
	"log"
	"regexp"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// 剪贴板写入：借一个临时页面承载内容，全选复制后切回主页面。
// 直接写系统剪贴板在无头环境下不可靠，经同一浏览器中转最稳。

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// SetClipboardText 把纯文本写入剪贴板
func (d *Driver) SetClipboardText(text string) bool {
	if d.context == nil || d.page == nil {
		return false
	}
	tempPage, err := d.context.NewPage()
	if err != nil {
		return false
	}
	defer tempPage.Close()

	pageHTML := `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body><textarea id="content" style="width:100%;height:400px;font-family:monospace;"></textarea></body>
</html>`
	if err := tempPage.SetContent(pageHTML); err != nil {
		return false
	}
	if err := tempPage.Locator("#content").Fill(text); err != nil {
		return false
	}
	if err := tempPage.Locator("#content").Click(); err != nil {
		return false
	}
	if !pressWithFallback(tempPage, "Meta+a", "Control+a") {
		return false
	}
	if !pressWithFallback(tempPage, "Meta+c", "Control+c") {
		return false
	}

	d.page.BringToFront()
	return true
}

// SetClipboardHTML 把富文本HTML写入剪贴板，失败时退回纯文本
func (d *Driver) SetClipboardHTML(markup string) bool {
	if d.setClipboardRich(markup) {
		return true
	}
	log.Println("⚠️ 富文本复制失败，退回纯文本剪贴板")
	return d.SetClipboardText(htmlToPlainText(markup))
}

func (d *Driver) setClipboardRich(markup string) bool {
	if d.context == nil || d.page == nil {
		return false
	}
	tempPage, err := d.context.NewPage()
	if err != nil {
		return false
	}
	defer tempPage.Close()

	pageHTML := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body><div id="editor" contenteditable="true" style="min-height:500px;padding:20px;">%s</div></body>
</html>`, markup)
	if err := tempPage.SetContent(pageHTML); err != nil {
		return false
	}
	tempPage.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	})

	if err := tempPage.Locator("#editor").Click(); err != nil {
		return false
	}
	if !pressWithFallback(tempPage, "Meta+a", "Control+a") {
		return false
	}
	if !pressWithFallback(tempPage, "Meta+c", "Control+c") {
		return false
	}

	d.page.BringToFront()
	return true
}

func pressWithFallback(page playwright.Page, primary, fallback string) bool {
	if err := page.Keyboard().Press(primary); err == nil {
		return true
	}
	return page.Keyboard().Press(fallback) == nil
}

// htmlToPlainText 粗略地把HTML还原成纯文本，只用于剪贴板降级
func htmlToPlainText(markup string) string {
	text := strings.ReplaceAll(markup, "</p>", "\n")
	text = strings.ReplaceAll(text, "</tr>", "\n")
	text = strings.ReplaceAll(text, "</td>", " ")
	text = htmlTagPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(html.UnescapeString(text))
}
