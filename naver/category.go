package naver

import (
	"fmt"
	"log"
	"strings"
	"unicode"
)

// 发布面板里的分类下拉。分类名在界面上会带缩进空格和
// 「하위 카테고리」（子分类）角标，匹配前都要剥掉。

const subCategoryMarker = "하위 카테고리"

var (
	categoryToggleSelectors = []string{
		"[class^='selectbox_button']",
		".selectbox_button",
		"#categoryTitle",
	}
	categoryListProbe = "[class^='option_list']"
)

// CategoryResult 分类決定结果
type CategoryResult struct {
	Label        string // 最终生效的分类名
	Found        bool   // 输入的分类名是否命中
	MatchedInput bool   // 命中的是用户输入而不是默认值
}

// normalizeCategoryLabel 去掉全部空白和子分类角标，得到可比较的键
func normalizeCategoryLabel(label string) string {
	label = strings.ReplaceAll(label, subCategoryMarker, "")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, label)
}

// matchCategory 在下拉选项里找归一化后与输入相等的项
func matchCategory(input string, options []string) (int, bool) {
	want := normalizeCategoryLabel(input)
	if want == "" {
		return -1, false
	}
	for i, option := range options {
		if normalizeCategoryLabel(option) == want {
			return i, true
		}
	}
	return -1, false
}

// resolveCategory 把请求的分类名落到发布面板上。
// 名字为空时只读当前默认分类；找不到匹配项时收起下拉、保留默认。
func (p *Publisher) resolveCategory(name string) CategoryResult {
	current := p.currentCategoryLabel()
	if strings.TrimSpace(name) == "" {
		return CategoryResult{Label: current, Found: current != ""}
	}

	if !p.clickAny(categoryToggleSelectors, editorFrameMatch) {
		log.Println("⚠️ 打不开分类下拉，沿用默认分类")
		return CategoryResult{Label: current}
	}
	p.driver.Wait(500)

	options := p.categoryOptions()
	if index, ok := matchCategory(name, options); ok {
		if p.clickCategoryOption(index) {
			log.Printf("✅ 分类设置为: %s", options[index])
			return CategoryResult{Label: strings.TrimSpace(options[index]), Found: true, MatchedInput: true}
		}
	}

	// 没有命中：再点一次开关把下拉收回去，回退到按钮上现在显示的值
	log.Printf("⚠️ 没有找到分类 %q，沿用默认分类", name)
	p.clickAny(categoryToggleSelectors, editorFrameMatch)
	p.driver.Wait(300)
	return CategoryResult{Label: p.currentCategoryLabel()}
}

// currentCategoryLabel 读分类按钮上正在显示的文本
func (p *Publisher) currentCategoryLabel() string {
	script := `(function() {
		try {
			const button = document.querySelector("[class^='selectbox_button'], .selectbox_button, #categoryTitle");
			if (!button) {
				return { success: false, error: 'category button not found' };
			}
			return { success: true, label: button.innerText.trim() };
		} catch (e) {
			return { success: false, error: e.message };
		}
	})()`
	result, ok := scriptResult(p.driver.RunScript(script, editorFrameMatch))
	if !ok {
		return ""
	}
	label, _ := result["label"].(string)
	return strings.TrimSpace(strings.ReplaceAll(label, subCategoryMarker, ""))
}

// categoryOptions 收集下拉里全部选项的文本，顺序与界面一致
func (p *Publisher) categoryOptions() []string {
	script := fmt.Sprintf(`(function() {
		try {
			const items = document.querySelectorAll("%s label, %s [class^='text']");
			if (items.length === 0) {
				return { success: false, error: 'option list empty' };
			}
			const labels = [];
			items.forEach(item => labels.push(item.innerText));
			return { success: true, labels: labels };
		} catch (e) {
			return { success: false, error: e.message };
		}
	})()`, categoryListProbe, categoryListProbe)
	result, ok := scriptResult(p.driver.RunScript(script, editorFrameMatch))
	if !ok {
		return nil
	}
	raw, _ := result["labels"].([]interface{})
	options := make([]string, 0, len(raw))
	for _, item := range raw {
		if label, ok := item.(string); ok {
			options = append(options, label)
		}
	}
	return options
}

func (p *Publisher) clickCategoryOption(index int) bool {
	script := fmt.Sprintf(`(function() {
		try {
			const items = document.querySelectorAll("%s label, %s [class^='text']");
			if (%d >= items.length) {
				return { success: false, error: 'option index out of range' };
			}
			items[%d].click();
			return { success: true };
		} catch (e) {
			return { success: false, error: e.message };
		}
	})()`, categoryListProbe, categoryListProbe, index, index)
	_, ok := scriptResult(p.driver.RunScript(script, editorFrameMatch))
	return ok
}
