package article

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainLen(s string) int {
	return len([]rune(strings.ReplaceAll(s, "**", "")))
}

func TestBreakLongTextShortLineUnchanged(t *testing.T) {
	line := "짧은 문장입니다."
	assert.Equal(t, []string{line}, breakLongText(line))
}

func TestBreakLongTextCutsAfterPeriod(t *testing.T) {
	line := strings.Repeat("가", 15) + ". 뒤에 오는 내용이 계속 이어집니다"
	chunks := breakLongText(line)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("가", 15)+".", chunks[0])
	assert.Equal(t, " 뒤에 오는 내용이 계속 이어집니다", chunks[1])
}

func TestBreakLongTextCutsAfterComma(t *testing.T) {
	line := strings.Repeat("나", 16) + ", 이어지는 내용을 적습니다 계속"
	chunks := breakLongText(line)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("나", 16)+",", chunks[0])
}

func TestBreakLongTextCutsBeforeConnective(t *testing.T) {
	head := strings.Repeat("다", 12) + " 내용 "
	line := head + "그리고 이어지는 설명입니다 계속 더"
	chunks := breakLongText(line)
	require.True(t, len(chunks) >= 2)
	assert.Equal(t, head, chunks[0])
	assert.True(t, strings.HasPrefix(chunks[1], "그리고"), "接续词要保留在下一段开头")
}

func TestBreakLongTextCutsAtLastSpace(t *testing.T) {
	line := strings.Repeat("라", 20) + " " + strings.Repeat("마", 15)
	chunks := breakLongText(line)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("라", 20)+" ", chunks[0])
	assert.Equal(t, strings.Repeat("마", 15), chunks[1])
}

func TestBreakLongTextNoCutPointReturnsWhole(t *testing.T) {
	line := strings.Repeat("바", 40)
	assert.Equal(t, []string{line}, breakLongText(line))
}

func TestBreakLongTextNeverSplitsHashtagLine(t *testing.T) {
	line := "#마케팅 #블로그 #자동화 #콘텐츠 #인공지능 #글쓰기 #포스팅"
	assert.Equal(t, []string{line}, breakLongText(line))
}

func TestBreakLongTextNeverSplitsInsideBoldSpan(t *testing.T) {
	// 粗体覆盖整行，切点只能落在区间内部，于是整行不拆
	line := "**" + strings.Repeat("가", 16) + ". 나머지 내용**"
	assert.Equal(t, []string{line}, breakLongText(line))
}

func TestBreakLongTextPreservesBoldPairsPerChunk(t *testing.T) {
	line := "시작 부분 **중요한 말** 다음에. 이어지는 **강조** 문장이 계속 더 이어집니다"
	chunks := breakLongText(line)
	for _, chunk := range chunks {
		assert.Equal(t, 0, strings.Count(chunk, "**")%2, "每个片段的粗体标记必须成对: %q", chunk)
	}
}

func TestBreakLongTextReconstruction(t *testing.T) {
	lines := []string{
		strings.Repeat("가", 15) + ". 뒤에 오는 내용이 계속 이어집니다",
		"시작 부분 **중요한 말** 다음에. 이어지는 **강조** 문장이 계속 더 이어집니다",
		strings.Repeat("라", 20) + " " + strings.Repeat("마", 15),
		"오늘은 날씨가 정말 좋았습니다, 그래서 공원에 산책을 다녀왔고 기분이 좋아졌습니다.",
	}
	for _, line := range lines {
		chunks := breakLongText(line)
		assert.Equal(t, line, strings.Join(chunks, ""), "片段拼接必须还原原文")
		joined := strings.ReplaceAll(strings.Join(chunks, ""), "**", "")
		assert.Equal(t, strings.ReplaceAll(line, "**", ""), joined)
	}
}

func TestBreakLongTextPeriodAtWindowEdge(t *testing.T) {
	// 句号正好落在纯文本第28位：在句号后断会得到29字的段，
	// 必须退回窗口内更早的断点
	line := " 그래서 공원에 산책을 다녀왔고 기분이 좋아졌습니다. 저녁에는 책을 읽었습니다."
	chunks := breakLongText(line)
	require.True(t, len(chunks) >= 2)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, plainLen(chunk), chunkMaxLen, "chunk: %q", chunk)
	}
	assert.Equal(t, line, strings.Join(chunks, ""))
}

func TestBreakLongTextChunkLengthBound(t *testing.T) {
	lines := []string{
		"오늘은 날씨가 정말 좋았습니다, 그래서 공원에 산책을 다녀왔고 기분이 좋아졌습니다. 저녁에는 책을 읽었습니다.",
		strings.Repeat("가", 10) + " " + strings.Repeat("나", 10) + " " + strings.Repeat("다", 10) + " " + strings.Repeat("라", 10),
	}
	for _, line := range lines {
		for i, chunk := range breakLongText(line) {
			// 最后一段或无断句点的段允许超长，其余必须在28字以内
			if plainLen(chunk) > chunkMaxLen {
				rest := breakLongText(chunk)
				assert.Len(t, rest, 1, "片段 %d 超长但仍可拆分: %q", i, chunk)
			}
		}
	}
}
