package article

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Post 待发布的文章
type Post struct {
	Title  string             `json:"title"`  // 文章标题
	Body   string             `json:"body"`   // AI生成的类Markdown正文
	Path   string             `json:"path"`   // 来源文件路径（可为空）
	Images []PlaceholderImage `json:"images"` // 图片占位符映射
}

// PlaceholderImage 图片占位符信息
type PlaceholderImage struct {
	Index int    `json:"index"` // 占位符序号，从1开始，按正文出现顺序
	URL   string `json:"url"`   // 生成图片的URL，为空表示尚未补全
}

// bareImagePlaceholder 匹配未编号的图片占位符
var bareImagePlaceholder = regexp.MustCompile(`\(이미지\)|\[이미지\]`)

// CountPlaceholders 统计正文中的图片占位符数量（折叠重复后）
func CountPlaceholders(body string) int {
	return len(bareImagePlaceholder.FindAllString(collapseDoubledPlaceholders(body), -1))
}

// BindImageURLs 按出现顺序把图片URL绑定到占位符上
func (p *Post) BindImageURLs(urls []string) {
	total := CountPlaceholders(p.Body)
	p.Images = make([]PlaceholderImage, 0, total)
	for i := 0; i < total; i++ {
		img := PlaceholderImage{Index: i + 1}
		if i < len(urls) {
			img.URL = urls[i]
		}
		p.Images = append(p.Images, img)
	}
}

// TotalImages 占位符总数
func (p *Post) TotalImages() int {
	return len(p.Images)
}

// IncompleteImages 尚未绑定URL的占位符数量（派生值，不持久化）
func (p *Post) IncompleteImages() int {
	count := 0
	for _, img := range p.Images {
		if img.URL == "" {
			count++
		}
	}
	return count
}

// ReadPostFile 读取文章文件：第一行是标题，其余是正文
func ReadPostFile(path string) (*Post, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开文件 %s: %v", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取文件时发生错误: %v", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("文件为空")
	}

	title := strings.TrimSpace(lines[0])
	if title == "" {
		return nil, fmt.Errorf("标题不能为空")
	}

	body := ""
	if len(lines) > 1 {
		body = strings.Join(lines[1:], "\n")
	}

	return &Post{
		Title: title,
		Body:  body,
		Path:  path,
	}, nil
}

// String 文章的字符串表示
func (p *Post) String() string {
	return fmt.Sprintf("标题: %s\n正文长度: %d\n图片数量: %d (未补全 %d)",
		p.Title, len(p.Body), p.TotalImages(), p.IncompleteImages())
}
