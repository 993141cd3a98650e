package scenes

import (
	"fmt"
	"image/color"

	"github.com/decker502/marble/pkg/components"
	"github.com/decker502/marble/pkg/config"
	"github.com/decker502/marble/pkg/ecs"
	"github.com/decker502/marble/pkg/event"
	"github.com/decker502/marble/pkg/game"
	"github.com/decker502/marble/pkg/systems"
	"github.com/decker502/marble/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 颜色表
var (
	backgroundColor   = color.RGBA{R: 30, G: 34, B: 42, A: 255}
	arenaColor        = color.RGBA{R: 90, G: 96, B: 110, A: 255}
	bowlFillColor     = color.RGBA{R: 60, G: 160, B: 90, A: 90}
	bowlStrokeColor   = color.RGBA{R: 90, G: 220, B: 120, A: 255}
	wallRaisedColor   = color.RGBA{R: 170, G: 170, B: 180, A: 255}
	wallLoweredColor  = color.RGBA{R: 80, G: 80, B: 90, A: 160}
	spikeRaisedColor  = color.RGBA{R: 220, G: 60, B: 60, A: 255}
	spikeLoweredColor = color.RGBA{R: 110, G: 40, B: 40, A: 160}
	defaultBallColor  = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// materialColors 材质名到绘制颜色
var materialColors = map[string]color.RGBA{
	"marble_red":    {R: 220, G: 70, B: 70, A: 255},
	"marble_blue":   {R: 70, G: 120, B: 230, A: 255},
	"marble_green":  {R: 80, G: 200, B: 100, A: 255},
	"marble_yellow": {R: 235, G: 210, B: 70, A: 255},
	"steel":         {R: 160, G: 170, B: 180, A: 255},
}

// ballRadius 弹珠在世界坐标中的基础半径
const ballRadius = 0.25

// Projection 俯视投影：世界 X 向右，世界 Z 向上（屏幕 Y 反向）
type Projection struct {
	CenterX, CenterY float64 // 世界原点在屏幕上的位置
	Scale            float64 // 像素/单位
}

// NewProjection 以屏幕中心为世界原点创建投影
func NewProjection(scale float64) Projection {
	return Projection{
		CenterX: config.GameWindowWidth / 2,
		CenterY: config.GameWindowHeight / 2,
		Scale:   scale,
	}
}

// WorldToScreen 把世界坐标投影到屏幕坐标（忽略高度）
func (p Projection) WorldToScreen(pos utils.Vec3) (float32, float32) {
	return float32(p.CenterX + pos.X*p.Scale), float32(p.CenterY - pos.Z*p.Scale)
}

// Rect 把以 center 为中心、半尺寸为 half 的水平矩形投影为屏幕矩形 (x, y, w, h)
func (p Projection) Rect(center, half utils.Vec3) (float32, float32, float32, float32) {
	x, y := p.WorldToScreen(utils.Vec3{X: center.X - half.X, Z: center.Z + half.Z})
	return x, y, float32(half.X * 2 * p.Scale), float32(half.Z * 2 * p.Scale)
}

// BallColor 根据材质名返回弹珠颜色，未知材质返回默认色
func BallColor(material string) color.RGBA {
	if c, ok := materialColors[material]; ok {
		return c
	}
	return defaultBallColor
}

// SoundPlayer 按音效ID播放音效（game.AudioManager 实现）
type SoundPlayer interface {
	PlaySound(soundID string) bool
}

// LevelScene 关卡场景
// 逻辑全部在 LevelWorld 中；场景只负责推进它并绘制俯视图和界面文字
// 碗内计数、墙体移动和损失数由订阅的通知更新
type LevelScene struct {
	world    *systems.LevelWorld
	settings *game.SettingsManager
	sounds   SoundPlayer

	ballsText   string // "Balls: C/R"
	movingWalls int    // 正在移动的墙体数量
	lostBalls   int    // 被尖刺墙销毁的弹珠数量
}

// NewLevelScene 创建关卡场景并订阅关卡世界的通知
//
// 参数:
//   - world: 已组装好的关卡世界
//   - settings: 显示设置（可为 nil，使用默认设置）
//   - sounds: 音效播放（可为 nil，静音）
func NewLevelScene(world *systems.LevelWorld, settings *game.SettingsManager, sounds SoundPlayer) *LevelScene {
	s := &LevelScene{
		world:     world,
		settings:  settings,
		sounds:    sounds,
		ballsText: systems.BallsText(world.Bowl.CurrentBallCount(), world.Bowl.RequiredBallCount()),
	}

	world.Bowl.OnBallCountChanged.Subscribe(func(c systems.BallCount) {
		s.ballsText = systems.BallsText(c.Current, c.Required)
	})
	world.Bowl.OnLevelCompleted.Subscribe(func(event.Empty) {
		s.playSound(game.SoundLevelComplete)
	})
	for _, wall := range world.Walls {
		wall.OnStartMoving.Subscribe(func(event.Empty) {
			s.movingWalls++
		})
		wall.OnReachedTarget.Subscribe(func(event.Empty) {
			if s.movingWalls > 0 {
				s.movingWalls--
			}
			s.playSound(game.SoundWallStop)
		})
		if spiked, ok := wall.Behavior().(*systems.SpikedWallBehavior); ok {
			spiked.OnBallDestroyed.Subscribe(func(ecs.EntityID) {
				s.lostBalls++
				s.playSound(game.SoundBallDestroyed)
			})
		}
	}

	return s
}

func (s *LevelScene) playSound(soundID string) {
	if s.sounds != nil {
		s.sounds.PlaySound(soundID)
	}
}

// BallsText 当前显示的碗内计数文字
func (s *LevelScene) BallsText() string {
	return s.ballsText
}

// MovingWalls 当前正在移动的墙体数量
func (s *LevelScene) MovingWalls() int {
	return s.movingWalls
}

// LostBalls 被尖刺墙销毁的弹珠数量
func (s *LevelScene) LostBalls() int {
	return s.lostBalls
}

// World 返回关卡世界
func (s *LevelScene) World() *systems.LevelWorld {
	return s.world
}

// Update 推进关卡
func (s *LevelScene) Update(deltaTime float64) {
	s.world.Update(deltaTime)
}

func (s *LevelScene) displaySettings() *game.GameSettings {
	if s.settings == nil {
		return game.DefaultSettings()
	}
	return s.settings.GetSettings()
}

// Draw 绘制场地、碗、墙体、弹珠和界面
func (s *LevelScene) Draw(screen *ebiten.Image) {
	settings := s.displaySettings()
	proj := NewProjection(settings.WorldScale)
	em := s.world.EntityManager

	screen.Fill(backgroundColor)

	arena := s.world.Config.Arena
	if arena.Bounded() {
		minV, maxV := arena.Min.Vec3(), arena.Max.Vec3()
		center := minV.Add(maxV).Scale(0.5)
		half := maxV.Sub(minV).Scale(0.5)
		x, y, w, h := proj.Rect(center, half)
		vector.StrokeRect(screen, x, y, w, h, 2, arenaColor, false)
	}

	s.drawBowl(screen, proj, settings.ShowVolumes)
	s.drawWalls(screen, proj)

	for _, id := range ecs.GetEntitiesWith2[*components.TransformComponent, *components.BallComponent](em) {
		tr, _ := ecs.GetComponent[*components.TransformComponent](em, id)
		ball, _ := ecs.GetComponent[*components.BallComponent](em, id)
		clr := defaultBallColor
		if appearance, ok := ecs.GetComponent[*components.AppearanceComponent](em, id); ok {
			clr = BallColor(appearance.Material)
		}
		x, y := proj.WorldToScreen(tr.Position)
		vector.DrawFilledCircle(screen, x, y, float32(ballRadius*ball.Scale*proj.Scale), clr, true)
	}

	s.drawHUD(screen)
}

func (s *LevelScene) drawBowl(screen *ebiten.Image, proj Projection, showVolumes bool) {
	em := s.world.EntityManager
	tr, ok := ecs.GetComponent[*components.TransformComponent](em, s.world.BowlEntity)
	if !ok {
		return
	}
	volume, ok := ecs.GetComponent[*components.VolumeComponent](em, s.world.BowlEntity)
	if !ok {
		return
	}

	x, y, w, h := proj.Rect(tr.Position, volume.HalfExtents)
	vector.DrawFilledRect(screen, x, y, w, h, bowlFillColor, false)
	if showVolumes {
		vector.StrokeRect(screen, x, y, w, h, 1, bowlStrokeColor, false)
	}
}

func (s *LevelScene) drawWalls(screen *ebiten.Image, proj Projection) {
	em := s.world.EntityManager
	for _, wall := range s.world.Walls {
		id := wall.EntityID()
		wc, ok := ecs.GetComponent[*components.WallComponent](em, id)
		if !ok {
			continue
		}
		volume, ok := ecs.GetComponent[*components.VolumeComponent](em, id)
		if !ok {
			continue
		}

		var clr color.RGBA
		switch {
		case wc.Variant == components.WallVariantSpiked && wc.Raised:
			clr = spikeRaisedColor
		case wc.Variant == components.WallVariantSpiked:
			clr = spikeLoweredColor
		case wc.Raised:
			clr = wallRaisedColor
		default:
			clr = wallLoweredColor
		}

		x, y, w, h := proj.Rect(wall.Position(), volume.HalfExtents)
		vector.DrawFilledRect(screen, x, y, w, h, clr, false)
	}
}

// drawHUD 按面板可见性绘制界面文字
func (s *LevelScene) drawHUD(screen *ebiten.Image) {
	lm := s.world.LevelManager
	cfg := s.world.Config

	title := cfg.ID
	if cfg.Name != "" {
		title = fmt.Sprintf("%s  %s", cfg.ID, cfg.Name)
	}
	ebitenutil.DebugPrintAt(screen, title, 10, 10)

	if lm.GameUIVisible() {
		ebitenutil.DebugPrintAt(screen, s.ballsText, 10, 30)
		ebitenutil.DebugPrintAt(screen, lm.TimerText(), 10, 46)
		if s.lostBalls > 0 {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Lost: %d", s.lostBalls), 10, 62)
		}
		ebitenutil.DebugPrintAt(screen, s.controlsHint(), 10, config.GameWindowHeight-24)
	}

	if lm.StartScreenVisible() {
		if cfg.Description != "" {
			ebitenutil.DebugPrintAt(screen, cfg.Description, 10, 30)
		}
		ebitenutil.DebugPrintAt(screen, startPrompt(), config.GameWindowWidth/2-80, config.GameWindowHeight/2)
	}

	if lm.WinScreenVisible() {
		ebitenutil.DebugPrintAt(screen, "Level Complete!", config.GameWindowWidth/2-50, config.GameWindowHeight/2-20)
		ebitenutil.DebugPrintAt(screen, lm.TimerText(), config.GameWindowWidth/2-40, config.GameWindowHeight/2)
		ebitenutil.DebugPrintAt(screen, restartPrompt(), config.GameWindowWidth/2-110, config.GameWindowHeight/2+20)
	}
}

// controlsHint 墙体移动期间切换命令会被忽略，提示玩家等待
func (s *LevelScene) controlsHint() string {
	if s.movingWalls > 0 {
		return "Walls moving..."
	}
	return "[Space] toggle walls"
}

func startPrompt() string {
	if utils.IsMobile() {
		return "Tap to start"
	}
	return "Press [Enter] to start"
}

func restartPrompt() string {
	if utils.IsMobile() {
		return "Tap to restart"
	}
	return "[Enter] restart   [N] next level"
}
