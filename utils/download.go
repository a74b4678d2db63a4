package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

const maxImageBytes = 20 << 20 // 单张图片20MB上限

var httpClient = &http.Client{Timeout: 30 * time.Second}

// DownloadImageToTemp 下载图片并落成唯一命名的临时文件，返回文件路径。
// 用完必须删除，调用方负责。
func DownloadImageToTemp(ctx context.Context, imageURL string) (string, error) {
	var data []byte

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				err := fmt.Errorf("下载图片返回 %d", resp.StatusCode)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					return retry.Unrecoverable(err)
				}
				return err
			}

			data, err = io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
			return err
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
		retry.Context(ctx),
	)
	if err != nil {
		return "", fmt.Errorf("下载图片失败 %s: %v", imageURL, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("下载图片为空: %s", imageURL)
	}

	file, err := os.CreateTemp("", "naver-blog-img-*"+ImageExtFromURL(imageURL))
	if err != nil {
		return "", fmt.Errorf("创建临时文件失败: %v", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("写入临时文件失败: %v", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}

// ImageExtFromURL 从URL推断图片扩展名，认不出来一律按 .jpg 处理
func ImageExtFromURL(imageURL string) string {
	name := imageURL
	if parsed, err := url.Parse(imageURL); err == nil {
		name = parsed.Path
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return ".png"
	case ".gif":
		return ".gif"
	case ".webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
