package installer

import (
	"log"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// EnsurePlaywrightInstalled 确保 Playwright 驱动和 Chromium 就绪，
// 缺什么装什么。首次运行会下载浏览器，可能要等一会儿。
func EnsurePlaywrightInstalled() error {
	pw, err := playwright.Run()
	if err != nil {
		if strings.Contains(err.Error(), "no such file or directory") ||
			strings.Contains(err.Error(), "could not start driver") {
			log.Println("Playwright 驱动未安装，开始安装...")
			return installChromium()
		}
		return err
	}

	if err := verifyChromium(pw); err != nil {
		pw.Stop()
		if strings.Contains(err.Error(), "Executable doesn't exist") {
			log.Println("Chromium 可执行文件缺失，重新安装...")
			return installChromium()
		}
		return err
	}
	pw.Stop()
	return nil
}

func installChromium() error {
	log.Println("正在安装 Chromium...")

	options := &playwright.RunOptions{
		Browsers: []string{"chromium"},
	}
	if err := playwright.Install(options); err != nil {
		return err
	}

	pw, err := playwright.Run()
	if err != nil {
		return err
	}
	defer pw.Stop()

	if err := verifyChromium(pw); err != nil {
		return err
	}
	log.Println("✅ Chromium 安装完成")
	return nil
}

// verifyChromium 无头拉起一次浏览器确认能跑
func verifyChromium(pw *playwright.Playwright) error {
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return err
	}
	return browser.Close()
}
