package article

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPostFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.md")
	content := "오늘의 여행 기록\n\n첫 번째 문단입니다.\n(이미지)\n두 번째 문단입니다.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	post, err := ReadPostFile(path)
	require.NoError(t, err)

	assert.Equal(t, "오늘의 여행 기록", post.Title)
	assert.Equal(t, path, post.Path)
	assert.Contains(t, post.Body, "첫 번째 문단입니다.")
	assert.NotContains(t, post.Body, "오늘의 여행 기록")
}

func TestReadPostFileRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.md")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := ReadPostFile(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("   \n본문만 있는 파일"), 0644))
	_, err = ReadPostFile(path)
	assert.Error(t, err, "首行空白视为没有标题")
}

func TestIncompleteImages(t *testing.T) {
	post := &Post{Body: "사진 (이미지) 그리고 [이미지] 또 (이미지)"}
	post.BindImageURLs([]string{"https://cdn.example.com/a.jpg"})

	assert.Equal(t, 3, post.TotalImages())
	assert.Equal(t, 2, post.IncompleteImages())
	assert.Equal(t, 1, post.Images[0].Index)
	assert.Equal(t, "https://cdn.example.com/a.jpg", post.Images[0].URL)
	assert.Equal(t, "", post.Images[2].URL)
}
