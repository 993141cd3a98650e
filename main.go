package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/marble/pkg/app"
	"github.com/decker502/marble/pkg/config"
	"github.com/decker502/marble/pkg/embedded"
)

var (
	verbose = flag.Bool("verbose", false, "显示详细调试信息")
	level   = flag.String("level", "", "指定启动关卡（如 1-2），为空时从存档或第一关开始")
	seed    = flag.Int64("seed", 0, "随机种子（0 表示使用当前时间）")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源（dataFS 在 embed.go 中声明）
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose: *verbose,
		Level:   *level,
		Seed:    *seed,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(gameApp)
	// 窗口关闭后保存进度和设置
	gameApp.Shutdown()
	if err != nil {
		log.Fatal(err)
	}
}
