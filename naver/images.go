package naver

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/naver-auto-blog/article"
	"github.com/naver-auto-blog/utils"
)

// 图片替换：正文粘贴完成后，把编辑器里的 (이미지N)/[이미지N]
// 占位符逐个换成真实图片。图片先下载到临时文件，经系统剪贴板
// 粘进编辑器，粘一张删一张。

const (
	imagePasteDelayMs = 1500 // 相邻两张图之间的间隔，粘太快编辑器会丢图
	doubleClickGapMs  = 80
	clipboardSettleMs = 500
	pasteSettleMs     = 1200
	mainFrameSelector = "#mainFrame"
)

// injectImages 按占位符编号升序替换图片。URL为空的占位符保留在
// 正文里，单张失败只记录并跳过。返回成功替换的张数。
func (p *Publisher) injectImages(ctx context.Context, images []article.PlaceholderImage) int {
	sorted := append([]article.PlaceholderImage(nil), images...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	injected := 0
	for _, image := range sorted {
		if image.URL == "" {
			log.Printf("⚠️ 图片 %d 没有URL，占位符保留", image.Index)
			continue
		}
		if err := p.injectOne(ctx, image); err != nil {
			log.Printf("⚠️ 图片 %d 替换失败: %v", image.Index, err)
		} else {
			injected++
			log.Printf("✅ 图片 %d 替换完成", image.Index)
		}
		p.driver.Wait(imagePasteDelayMs)
	}
	return injected
}

func (p *Publisher) injectOne(ctx context.Context, image article.PlaceholderImage) error {
	path, err := utils.DownloadImageToTemp(ctx, image.URL)
	if err != nil {
		return fmt.Errorf("下载失败: %v", err)
	}
	// 粘贴成败都删掉暂存文件
	defer os.Remove(path)

	x, y, err := p.locatePlaceholder(image.Index)
	if err != nil {
		return err
	}

	// 快速连点两下，选中占位符文本
	p.driver.ClickAt(x, y)
	p.driver.Wait(doubleClickGapMs)
	p.driver.ClickAt(x, y)
	p.driver.Wait(200)

	if err := utils.CopyImageToClipboard(path); err != nil {
		return fmt.Errorf("复制到剪贴板失败: %v", err)
	}
	p.driver.Wait(clipboardSettleMs)

	if !p.pasteShortcut() {
		return fmt.Errorf("粘贴快捷键失败")
	}
	p.driver.Wait(pasteSettleMs)
	return nil
}

// locatePlaceholder 在编辑器frame里找占位符文本节点，滚动到可视区域
// 后取外层元素的中心点，再加上frame相对顶层页面的偏移。
func (p *Publisher) locatePlaceholder(index int) (float64, float64, error) {
	script := fmt.Sprintf(`(function() {
		try {
			const round = '(이미지%d)';
			const square = '[이미지%d]';
			const walker = document.createTreeWalker(document.body, NodeFilter.SHOW_TEXT, null, false);
			let node;
			while ((node = walker.nextNode())) {
				const text = node.textContent;
				if (text.indexOf(round) === -1 && text.indexOf(square) === -1) {
					continue;
				}
				const el = node.parentElement;
				if (!el) {
					continue;
				}
				el.scrollIntoView({ block: 'center' });
				const rect = el.getBoundingClientRect();
				return { success: true, x: rect.left + rect.width / 2, y: rect.top + rect.height / 2 };
			}
			return { success: false, error: 'placeholder not found' };
		} catch (e) {
			return { success: false, error: e.message };
		}
	})()`, index, index)

	result, ok := scriptResult(p.driver.RunScript(script, editorFrameMatch))
	if !ok {
		return 0, 0, fmt.Errorf("找不到占位符 %d", index)
	}
	x, _ := result["x"].(float64)
	y, _ := result["y"].(float64)

	offsetX, offsetY := p.editorFrameOffset()
	return x + offsetX, y + offsetY, nil
}

// editorFrameOffset 取编辑器iframe在顶层页面里的位置，
// 页面结构变了拿不到时按无偏移处理
func (p *Publisher) editorFrameOffset() (float64, float64) {
	script := fmt.Sprintf(`(function() {
		try {
			const frame = document.querySelector('%s');
			if (!frame) {
				return { success: true, x: 0, y: 0 };
			}
			const rect = frame.getBoundingClientRect();
			return { success: true, x: rect.left, y: rect.top };
		} catch (e) {
			return { success: false, error: e.message };
		}
	})()`, mainFrameSelector)

	result, ok := scriptResult(p.driver.RunScript(script, ""))
	if !ok {
		return 0, 0
	}
	x, _ := result["x"].(float64)
	y, _ := result["y"].(float64)
	return x, y
}

func (p *Publisher) pasteShortcut() bool {
	if p.driver.PressKey("Control+V") {
		return true
	}
	return p.driver.PressKey("Meta+V")
}
