package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CopyImageToClipboard 把图片文件以图片形式放进系统剪贴板。
// 编辑器里粘贴时会替换当前选中的文本。
func CopyImageToClipboard(imagePath string) error {
	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		return fmt.Errorf("图片文件不存在: %s", imagePath)
	}

	var cmd *exec.Cmd

	// 根据不同操作系统使用不同的命令
	switch runtime.GOOS {
	case "darwin":
		// 模拟在Finder里选中图片后按⌘C
		script := fmt.Sprintf(`
			tell application "Finder"
				set theFile to POSIX file "%s" as alias
				select theFile
				activate
			end tell
			delay 0.2
			tell application "System Events"
				keystroke "c" using command down
			end tell
		`, imagePath)
		cmd = exec.Command("osascript", "-e", script)

	case "windows":
		script := fmt.Sprintf(`
			Add-Type -AssemblyName System.Windows.Forms
			[System.Windows.Forms.Clipboard]::SetImage([System.Drawing.Image]::FromFile('%s'))
		`, imagePath)
		cmd = exec.Command("powershell", "-command", script)

	case "linux":
		cmd = exec.Command("xclip", "-selection", "clipboard", "-t", clipboardMimeType(imagePath), "-i", imagePath)

	default:
		return fmt.Errorf("不支持的操作系统: %s", runtime.GOOS)
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("复制图片到剪贴板失败: %v", err)
	}
	return nil
}

func clipboardMimeType(imagePath string) string {
	switch strings.ToLower(filepath.Ext(imagePath)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
