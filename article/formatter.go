package article

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// 把AI生成的类Markdown文本转换为 SmartEditor 可粘贴的富文本HTML。
// 转换是纯函数：同样的输入永远得到同样的输出，不碰浏览器。

var (
	fencedCodePattern  = regexp.MustCompile("(?s)```.*?```\n?")
	// 只折叠同一行里紧挨着的重复占位符，隔行的是两张不同的图
	doubledPlaceholder = regexp.MustCompile(`([\(\[]이미지[\)\]])[ \t]*[\(\[]이미지[\)\]]`)
	hashtagPattern     = regexp.MustCompile(`#[0-9A-Za-z가-힣_]+`)
	multiSpacePattern  = regexp.MustCompile(`[ \t]{2,}`)
	boldSpanPattern    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	dividerCellPattern = regexp.MustCompile(`^:?-+:?$`)

	// AI回答常见的开场白，整行丢弃
	boilerplatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^네[,.!]?\s*알겠습니다.*$`),
		regexp.MustCompile(`^알겠습니다[.!]?$`),
		regexp.MustCompile(`^물론입니다.*$`),
		regexp.MustCompile(`^다음은\s.*입니다[.:]?$`),
		regexp.MustCompile(`^요청하신\s.*(작성했|작성해 드렸)습니다.*$`),
	}

	// 单独成段的列表行：数字、圆点、对勾、带圈数字、韩语序数词
	listMarkerPattern = regexp.MustCompile(`^(\d+[.)]\s|[-*•·]\s|[✓✔☑]\s?|[①②③④⑤⑥⑦⑧⑨⑩⑪⑫⑬⑭⑮]|(첫|둘|셋|넷|다섯|여섯|일곱|여덟|아홉|열)째[,:]?\s?)`)
)

// FormatContent 把原始正文转换为富文本HTML标记
func FormatContent(source string) string {
	text := numberPlaceholders(normalize(source))
	lines := strings.Split(text, "\n")

	var out strings.Builder
	for i := 0; i < len(lines); {
		if strings.Contains(lines[i], "|") {
			j := i
			for j < len(lines) && strings.Contains(lines[j], "|") {
				j++
			}
			out.WriteString(renderTable(lines[i:j]))
			i = j
			continue
		}
		out.WriteString(renderLine(lines[i]))
		i++
	}
	return out.String()
}

// normalize 规整原始文本：去掉代码围栏、折叠重复占位符、丢弃开场白，
// 提取全部话题标签（大小写不敏感去重、保持首次出现顺序）并追加为末尾一行。
func normalize(source string) string {
	text := strings.ReplaceAll(source, "\r\n", "\n")
	text = fencedCodePattern.ReplaceAllString(text, "")
	text = collapseDoubledPlaceholders(text)

	var tags []string
	seen := make(map[string]bool)
	for _, tag := range hashtagPattern.FindAllString(text, -1) {
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
	}

	kept := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if isBoilerplate(trimmed) {
			continue
		}
		hadTag := hashtagPattern.MatchString(line)
		line = hashtagPattern.ReplaceAllString(line, "")
		line = strings.TrimRight(multiSpacePattern.ReplaceAllString(line, " "), " \t")
		if hadTag && strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	text = strings.Join(kept, "\n")

	if len(tags) > 0 {
		text = strings.TrimRight(text, "\n") + "\n" + strings.Join(tags, " ")
	}
	return text
}

func collapseDoubledPlaceholders(text string) string {
	for {
		collapsed := doubledPlaceholder.ReplaceAllString(text, "$1")
		if collapsed == text {
			return text
		}
		text = collapsed
	}
}

func isBoilerplate(line string) bool {
	for _, pattern := range boilerplatePatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

// numberPlaceholders 把字面占位符按出现顺序替换成带序号的形式：
// (이미지) → (이미지1)、(이미지2)…
func numberPlaceholders(text string) string {
	n := 0
	return bareImagePlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		n++
		if strings.HasPrefix(match, "[") {
			return fmt.Sprintf("[이미지%d]", n)
		}
		return fmt.Sprintf("(이미지%d)", n)
	})
}

// renderLine 逐行生成富文本块
func renderLine(line string) string {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		// 空行用不换行空格段落占位，保住目标渲染器里的纵向间距
		return "<p>&nbsp;</p>"
	case strings.HasPrefix(trimmed, "### "):
		return headingBlock(strings.TrimPrefix(trimmed, "### "), 19)
	case strings.HasPrefix(trimmed, "## "):
		return headingBlock(strings.TrimPrefix(trimmed, "## "), 24)
	case strings.HasPrefix(trimmed, "# "):
		// Markdown H1 惯例是文章标题，不进正文。
		// 纯标签行（#태그 #태그2）井号后没有空格，不会命中这条规则。
		return ""
	case listMarkerPattern.MatchString(trimmed):
		return paragraph(trimmed)
	default:
		var b strings.Builder
		for _, chunk := range breakLongText(trimmed) {
			b.WriteString(paragraph(strings.TrimSpace(chunk)))
		}
		return b.String()
	}
}

func paragraph(text string) string {
	return "<p>" + convertInline(text) + "</p>"
}

func headingBlock(text string, fontSize int) string {
	return fmt.Sprintf(`<p style="text-align: center;"><b><span style="font-size: %dpx;">%s</span></b></p>`,
		fontSize, convertInline(text))
}

// convertInline 转义HTML并把 **粗体** 换成行内 <b> 标签
func convertInline(text string) string {
	return boldSpanPattern.ReplaceAllString(html.EscapeString(text), "<b>$1</b>")
}

// renderTable 把连续的表格行转换为表格块：首行当表头（背景填充），
// 分隔行（---|---）忽略
func renderTable(rows []string) string {
	var b strings.Builder
	b.WriteString(`<table style="border-collapse: collapse; width: 100%;">`)
	headerDone := false
	for _, row := range rows {
		cells := splitTableRow(row)
		if len(cells) == 0 || isDividerRow(cells) {
			continue
		}
		b.WriteString("<tr>")
		for _, cell := range cells {
			if headerDone {
				b.WriteString(`<td style="border: 1px solid #d5d5d5; padding: 8px;">`)
			} else {
				b.WriteString(`<td style="border: 1px solid #d5d5d5; padding: 8px; background-color: #f5f6f8;">`)
			}
			b.WriteString(convertInline(cell))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
		headerDone = true
	}
	b.WriteString("</table>")
	return b.String()
}

func splitTableRow(row string) []string {
	parts := strings.Split(strings.TrimSpace(row), "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		cells = append(cells, strings.TrimSpace(part))
	}
	return cells
}

func isDividerRow(cells []string) bool {
	for _, cell := range cells {
		if !dividerCellPattern.MatchString(cell) {
			return false
		}
	}
	return true
}
