// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/decker502/marble/pkg/config"
	"github.com/decker502/marble/pkg/game"
	"github.com/decker502/marble/pkg/scenes"
	"github.com/decker502/marble/pkg/systems"
	"github.com/decker502/marble/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "marble"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 指定要加载的关卡（如 "1-2"），为空则从存档加载或使用第一关
	Level string
	// Seed 随机种子，为 0 时使用当前时间
	Seed int64
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager    *game.SceneManager
	saveManager     *game.SaveManager
	settingsManager *game.SettingsManager
	audioManager    *game.AudioManager
	verbose         bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	levels, err := config.LoadLevelList(config.LevelListPath)
	if err != nil {
		return nil, fmt.Errorf("关卡列表加载失败: %w", err)
	}

	if dir, err := utils.PrepareStorage(); err != nil {
		log.Printf("[App] Warning: failed to prepare storage: %v", err)
	} else if dir != "" {
		log.Printf("[App] Storage directory: %s", dir)
	}

	// gdata 打开失败时降级为仅内存存档
	gdataManager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, progress will not be saved: %v", err)
		gdataManager = nil
	}
	saveManager := game.NewSaveManager(gdataManager)
	settingsManager := game.NewSettingsManager(gdataManager)

	// 音频上下文全局只能创建一次
	audioManager := game.NewAudioManager(audio.NewContext(game.SampleRate), settingsManager)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	log.Printf("[App] Random seed: %d", seed)

	// 创建场景管理器
	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(NewLevelSceneFactory(sceneManager, levels, saveManager, settingsManager, audioManager, rng))
	sceneManager.SetOnLevelLoaded(func(levelID string) {
		if err := saveManager.SetLastLevel(levelID); err != nil {
			log.Printf("[App] Warning: failed to save last level: %v", err)
		}
	})

	levelToLoad := ResolveStartLevel(cfg.Level, saveManager.LastLevel(), levels)
	log.Printf("[App] Starting level: %s", levelToLoad)

	if !sceneManager.LoadLevelNow(levelToLoad) {
		return nil, fmt.Errorf("关卡 %s 加载失败", levelToLoad)
	}

	if settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager:    sceneManager,
		saveManager:     saveManager,
		settingsManager: settingsManager,
		audioManager:    audioManager,
		verbose:         cfg.Verbose,
	}, nil
}

// NewLevelSceneFactory 返回按关卡ID创建关卡场景的工厂
//
// 每次调用都从配置重新组装整个关卡世界，重新开始和下一关都走这里
// sounds 可为 nil（静音）
func NewLevelSceneFactory(loader systems.LevelLoader, levels *config.LevelList, recorder systems.ProgressRecorder, settings *game.SettingsManager, sounds scenes.SoundPlayer, rng *rand.Rand) game.SceneFactory {
	return func(levelID string) (game.Scene, error) {
		cfg, err := config.LoadLevelConfig(config.LevelPath(levelID))
		if err != nil {
			return nil, err
		}

		world, err := systems.NewLevelWorld(cfg, rng, loader)
		if err != nil {
			return nil, fmt.Errorf("failed to build level %s: %w", levelID, err)
		}
		world.LevelManager.SetLevelList(levels)
		if recorder != nil {
			world.LevelManager.SetProgressRecorder(recorder)
		}
		world.SetInput(NewKeyboardInput())

		return scenes.NewLevelScene(world, settings, sounds), nil
	}
}

// ResolveStartLevel 决定启动关卡
// 优先级：命令行指定 > 存档中最近游玩的关卡 > 关卡列表第一关
// 不在关卡列表中的存档关卡会被忽略
func ResolveStartLevel(requested, saved string, levels *config.LevelList) string {
	if requested != "" {
		return requested
	}
	if saved != "" && levels.Contains(saved) {
		log.Printf("[App] Loading from save: last level = %s", saved)
		return saved
	}
	log.Printf("[App] No save found, starting at level %s", levels.First())
	return levels.First()
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	// V 切换包围盒显示
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		a.settingsManager.ToggleShowVolumes()
		a.saveSettings()
	}

	// M 切换音效
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		enabled := a.settingsManager.ToggleSound()
		log.Printf("[App] Sound enabled: %v", enabled)
		a.saveSettings()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		a.settingsManager.SetFullscreen(false)
	} else {
		ebiten.SetFullscreen(true)
		a.settingsManager.SetFullscreen(true)
	}
	a.saveSettings()
}

func (a *App) saveSettings() {
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// Shutdown 退出前保存存档和设置
func (a *App) Shutdown() {
	if err := a.saveManager.Save(); err != nil {
		log.Printf("[App] Warning: failed to save progress: %v", err)
	}
	a.saveSettings()
}

// GetAudioManager 返回音频管理器
func (a *App) GetAudioManager() *game.AudioManager {
	return a.audioManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
