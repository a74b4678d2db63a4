package article

import "strings"

// 长文本断句：把过长的句子拆成适合移动端阅读宽度的短段。
// 长度一律按去掉粗体标记后的纯文本字符数计算。

const (
	chunkMaxLen   = 28 // 纯文本长度不超过该值的行不再拆分
	chunkScanFrom = 15 // 断句点扫描窗口起点
)

// 接续词出现在窗口内时在词前断句，整个词保留到下一段开头
var connectiveWords = []string{
	"그리고", "그래서", "하지만", "그러나", "또한", "따라서", "그런데", "왜냐하면",
}

// breakLongText 递归拆分长行。含 # 的行（话题标签行）从不拆分。
// 窗口内找不到断句点时整行原样返回，所以结果段落可能超过28字。
func breakLongText(line string) []string {
	if strings.Contains(line, "#") {
		return []string{line}
	}

	plain := []rune(strings.ReplaceAll(line, "**", ""))
	if len(plain) <= chunkMaxLen {
		return []string{line}
	}

	hi := chunkMaxLen
	if max := len(plain) - 3; max < hi {
		hi = max
	}
	if hi < chunkScanFrom {
		return []string{line}
	}

	cut := findCutPoint(plain, chunkScanFrom, hi)
	if cut < 0 {
		return []string{line}
	}

	real := []rune(line)
	realCut := mapPlainOffset(real, cut)
	realCut = nudgePastBoldMarker(real, realCut)
	if realCut <= 0 || realCut >= len(real) {
		return []string{line}
	}

	head := string(real[:realCut])
	return append([]string{head}, breakLongText(string(real[realCut:]))...)
}

// findCutPoint 在纯文本的 [lo, hi] 窗口内找断句点。
// 优先级：句号之后 > 逗号之后 > 接续词之前 > 窗口内最后一个空格之后。
// 返回值是纯文本偏移（head = plain[:cut]），找不到返回 -1。
func findCutPoint(plain []rune, lo, hi int) int {
	// 句号/逗号/空格在字符之后断，这类断点最多落在 chunkMaxLen，
	// 所以匹配位置不能超过 chunkMaxLen-1
	afterHi := hi
	if afterHi > chunkMaxLen-1 {
		afterHi = chunkMaxLen - 1
	}
	for i := lo; i <= afterHi; i++ {
		if plain[i] == '.' {
			return i + 1
		}
	}
	for i := lo; i <= afterHi; i++ {
		if plain[i] == ',' {
			return i + 1
		}
	}
	for i := lo; i <= hi; i++ {
		for _, word := range connectiveWords {
			if hasRunePrefix(plain[i:], word) {
				return i
			}
		}
	}
	for i := afterHi; i >= lo; i-- {
		if plain[i] == ' ' {
			return i + 1
		}
	}
	return -1
}

func hasRunePrefix(runes []rune, word string) bool {
	w := []rune(word)
	if len(runes) < len(w) {
		return false
	}
	for i := range w {
		if runes[i] != w[i] {
			return false
		}
	}
	return true
}

// mapPlainOffset 把纯文本偏移换算回含粗体标记的原始行偏移。
// 粗体标记只跳过、不计数。
func mapPlainOffset(real []rune, plainOff int) int {
	count := 0
	i := 0
	for i < len(real) {
		if real[i] == '*' && i+1 < len(real) && real[i+1] == '*' {
			i += 2
			continue
		}
		if count == plainOff {
			return i
		}
		count++
		i++
	}
	return i
}

// nudgePastBoldMarker 切点落在未闭合的粗体区间内时，后移到闭合标记之后，
// 保证粗体跨度不会被拆进两个段落。
func nudgePastBoldMarker(real []rune, cut int) int {
	markers := 0
	i := 0
	for i < cut && i+1 < len(real) {
		if real[i] == '*' && real[i+1] == '*' {
			markers++
			i += 2
			continue
		}
		i++
	}
	if markers%2 == 0 {
		return cut
	}
	for j := cut; j+1 < len(real); j++ {
		if real[j] == '*' && real[j+1] == '*' {
			return j + 2
		}
	}
	return cut
}
