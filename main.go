package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/naver-auto-blog/article"
	"github.com/naver-auto-blog/browser"
	"github.com/naver-auto-blog/config"
	"github.com/naver-auto-blog/installer"
	"github.com/naver-auto-blog/naver"
	"github.com/naver-auto-blog/session"
	"github.com/naver-auto-blog/store"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig("config.ini")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	identifier := cfg.Identifier()
	if identifier == "" {
		log.Fatal("config.ini 里缺少 [naver] id")
	}

	mode, err := naver.ParsePublishMode(cfg.Mode())
	if err != nil {
		log.Fatalf("配置错误: %v", err)
	}

	// 解析文章
	post, err := article.ReadPostFile(cfg.PostFile())
	if err != nil {
		log.Fatalf("读取文章失败: %v", err)
	}
	if title := cfg.Title(); title != "" {
		post.Title = title
	}
	post.BindImageURLs(cfg.ImageURLs())
	log.Printf("✅ 文章解析完成: %s", post)
	if missing := post.IncompleteImages(); missing > 0 {
		log.Printf("⚠️ 有 %d 个图片占位符没有对应URL，会原样保留在正文里", missing)
	}

	// 检查并安装 Playwright
	if err := installer.EnsurePlaywrightInstalled(); err != nil {
		log.Fatalf("安装 Playwright 失败: %v", err)
	}

	// 本地数据目录：浏览器会话 + 账号/分类历史
	sessionManager, err := session.NewManager()
	if err != nil {
		log.Fatalf("无法创建数据目录: %v", err)
	}
	if err := sessionManager.CleanOldSessions(); err != nil {
		log.Printf("⚠️ 清理旧会话失败: %v", err)
	}

	fileStore, err := store.NewFileStore(sessionManager.DataDir())
	if err != nil {
		log.Fatalf("无法打开本地存储: %v", err)
	}
	accounts := store.NewAccounts(fileStore)
	boards := store.NewBoards(fileStore)

	// 密码：配置优先，留空时回落到账号库里记住的那份
	secret := cfg.Secret()
	accountKey := store.AccountKey(identifier)
	if secret == "" {
		if saved, ok := accounts.Secret(accountKey); ok {
			log.Println("使用本地记住的密码")
			secret = saved
		}
	}
	if secret == "" {
		log.Fatal("config.ini 里缺少 [naver] pw，本地也没有记住的密码")
	}

	// 预约参数
	scheduleDate, err := cfg.ScheduleDate()
	if err != nil {
		log.Fatalf("配置错误: %v", err)
	}

	// Ctrl+C 中断时让发布流程尽快收尾
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := browser.NewDriver(sessionManager.BrowserDataDir(), cfg.Headless())
	publisher := naver.NewPublisher(driver, identifier, func(msg string) {
		log.Printf("📢 %s", msg)
	})

	result := publisher.Publish(ctx, secret, naver.PublishRequest{
		Post:           post,
		Category:       cfg.Category(),
		Mode:           mode,
		ScheduleDate:   scheduleDate,
		ScheduleHour:   cfg.ScheduleHour(),
		ScheduleMinute: cfg.ScheduleMinute(),
	})

	if !result.Success {
		// 中间页要人工处理：进程退出会连带关掉playwright子进程，
		// 所以等用户在浏览器里处理完按回车，把会话存下来再走
		if result.Interstitial {
			log.Printf("⚠️ %s", result.Message)
			log.Println("在浏览器里处理完成后回到这里按回车退出，会话会保存下来供下次使用")
			bufio.NewReader(os.Stdin).ReadString('\n')
			if err := driver.SaveSession(); err != nil {
				log.Printf("⚠️ 保存会话失败: %v", err)
			}
			driver.Cleanup()
			os.Exit(1)
		}
		log.Fatalf("❌ %s", result.Message)
	}

	log.Printf("🎉 %s", result.Message)
	if result.URL != "" {
		log.Printf("📍 %s", result.URL)
	}
	if total := post.TotalImages(); total > 0 {
		log.Printf("🖼 图片替换: %d/%d", result.Injected, total)
	}

	// 发布成功才更新账号和分类历史
	if err := accounts.Touch(identifier, time.Now()); err != nil {
		log.Printf("⚠️ 更新账号记录失败: %v", err)
	}
	if cfg.RememberSecret() {
		if err := accounts.SaveSecret(accountKey, secret); err != nil {
			log.Printf("⚠️ 保存密码失败: %v", err)
		}
	}
	if result.Category != "" {
		if err := boards.Add(accountKey, result.Category); err != nil {
			log.Printf("⚠️ 更新分类历史失败: %v", err)
		}
	}
}
