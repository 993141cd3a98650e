package systems

import (
	"fmt"
	"log"

	"github.com/decker502/marble/pkg/config"
	"github.com/decker502/marble/pkg/event"
	"github.com/decker502/marble/pkg/types"
)

// LevelLoader 场景重载接口
// 重新开始和"下一关"都是整体重载，核心逻辑不在进程内复位
type LevelLoader interface {
	// ReloadLevel 重新加载当前关卡
	ReloadLevel()
	// LoadLevel 加载指定关卡
	LoadLevel(levelID string)
}

// UntimedCompletion 计时器还没开始就达成胜利时上报的用时
const UntimedCompletion = -1.0

// ProgressRecorder 关卡完成记录接口（由存档管理器实现）
// seconds 为负表示这次完成没有计时
type ProgressRecorder interface {
	RecordCompletion(levelID string, seconds float64) error
}

// LevelManagerSystem 关卡流程管理系统
//
// 状态机：PreGame → Playing → Completed
//   - PreGame 收到开始命令：进入 Playing，启动生成器（没有生成器时直接开始计时）
//   - 生成完成：计时器从 0 开始计时
//   - 碗达成胜利：进入 Completed，停止计时
//   - Completed 收到开始命令：整体重载关卡
//
// 每个状态对应一组界面面板可见性；墙体控制只在 Playing 时启用
type LevelManagerSystem struct {
	levelID  string
	progress types.GameProgress

	bowl     *BowlSystem
	spawner  *BallSpawnerSystem
	walls    *WallGroupManager
	loader   LevelLoader
	recorder ProgressRecorder
	levels   *config.LevelList
	next     string

	timerRunning bool
	elapsedTime  float64

	// 面板可见性（由表现层读取）
	startScreenVisible bool
	gameUIVisible      bool
	winScreenVisible   bool

	// OnStateChanged 状态变化时触发
	OnStateChanged event.Signal[types.GameProgress]
}

// NewLevelManagerSystem 创建关卡管理系统
//
// 参数:
//   - levelID: 当前关卡ID
//   - bowl: 碗系统（必需）
//   - spawner: 生成系统（可为 nil，此时开始游戏后立即计时）
//   - walls: 墙体组管理器（可为 nil）
//   - loader: 场景重载（可为 nil，此时重新开始只记录日志）
func NewLevelManagerSystem(levelID string, bowl *BowlSystem, spawner *BallSpawnerSystem, walls *WallGroupManager, loader LevelLoader) *LevelManagerSystem {
	m := &LevelManagerSystem{
		levelID:  levelID,
		progress: types.GameProgressPreGame,
		bowl:     bowl,
		spawner:  spawner,
		walls:    walls,
		loader:   loader,
	}

	if bowl != nil {
		bowl.OnLevelCompleted.Subscribe(func(event.Empty) {
			m.handleLevelCompleted()
		})
	}
	if spawner != nil {
		spawner.OnSpawningCompleted.Subscribe(func(event.Empty) {
			m.handleSpawningCompleted()
		})
	}

	m.applyState()
	return m
}

// SetLevelList 设置关卡列表（用于"下一关"）
func (m *LevelManagerSystem) SetLevelList(levels *config.LevelList) {
	m.levels = levels
}

// SetNextLevel 指定下一关（优先于关卡列表顺序，为空时按列表）
func (m *LevelManagerSystem) SetNextLevel(levelID string) {
	m.next = levelID
}

// SetProgressRecorder 设置关卡完成记录器
func (m *LevelManagerSystem) SetProgressRecorder(recorder ProgressRecorder) {
	m.recorder = recorder
}

// HandleStartCommand 处理"开始/重新开始"命令
func (m *LevelManagerSystem) HandleStartCommand() {
	switch m.progress {
	case types.GameProgressPreGame:
		m.StartGame()
	case types.GameProgressCompleted:
		m.RestartGame()
	default:
		// Playing 时忽略
	}
}

// StartGame 开始游戏
func (m *LevelManagerSystem) StartGame() {
	if m.progress != types.GameProgressPreGame {
		return
	}

	m.setProgress(types.GameProgressPlaying)

	if m.spawner != nil {
		m.spawner.StartSpawn()
	} else {
		m.startTimer()
	}
}

// RestartGame 重新开始（整体重载当前关卡）
func (m *LevelManagerSystem) RestartGame() {
	log.Printf("[LevelManagerSystem] Restarting level %s", m.levelID)
	if m.loader == nil {
		log.Printf("[LevelManagerSystem] No level loader configured, cannot reload")
		return
	}
	m.loader.ReloadLevel()
}

// LoadNextLevel 加载下一关
// 关卡配置指定了下一关时直接使用；否则按关卡列表，最后一关之后回到第一关
func (m *LevelManagerSystem) LoadNextLevel() {
	if m.next != "" {
		if m.loader == nil {
			log.Printf("[LevelManagerSystem] No level loader configured, cannot load %s", m.next)
			return
		}
		m.loader.LoadLevel(m.next)
		return
	}

	if m.levels == nil {
		log.Printf("[LevelManagerSystem] No level list configured, reloading current level")
		m.RestartGame()
		return
	}

	next, wrapped := m.levels.Next(m.levelID)
	if wrapped {
		log.Printf("[LevelManagerSystem] No more levels! Returning to first level.")
	}
	if m.loader == nil {
		log.Printf("[LevelManagerSystem] No level loader configured, cannot load %s", next)
		return
	}
	m.loader.LoadLevel(next)
}

// Update 推进计时器
func (m *LevelManagerSystem) Update(deltaTime float64) {
	if m.timerRunning && deltaTime > 0 {
		m.elapsedTime += deltaTime
	}
}

// handleSpawningCompleted 生成完成：开始计时
func (m *LevelManagerSystem) handleSpawningCompleted() {
	if m.progress != types.GameProgressPlaying {
		return
	}
	m.startTimer()
}

// handleLevelCompleted 碗达成胜利
func (m *LevelManagerSystem) handleLevelCompleted() {
	if m.progress == types.GameProgressCompleted {
		return
	}

	seconds := m.elapsedTime
	if m.timerRunning {
		log.Printf("[LevelManagerSystem] Level %s completed in %s", m.levelID, m.TimerText())
	} else {
		// 生成还没结束就赢了：计时器从未启动
		seconds = UntimedCompletion
		log.Printf("[LevelManagerSystem] Level %s completed before the timer started", m.levelID)
	}
	m.timerRunning = false
	m.setProgress(types.GameProgressCompleted)

	if m.recorder != nil {
		if err := m.recorder.RecordCompletion(m.levelID, seconds); err != nil {
			log.Printf("[LevelManagerSystem] Warning: failed to record completion: %v", err)
		}
	}
}

func (m *LevelManagerSystem) startTimer() {
	m.elapsedTime = 0
	m.timerRunning = true
	log.Printf("[LevelManagerSystem] Timer started")
}

// setProgress 切换状态并应用副作用
func (m *LevelManagerSystem) setProgress(progress types.GameProgress) {
	if m.progress == progress {
		return
	}
	log.Printf("[LevelManagerSystem] %s -> %s", m.progress, progress)
	m.progress = progress
	m.applyState()
	m.OnStateChanged.Emit(progress)
}

// applyState 根据当前状态设置面板可见性和墙体控制
func (m *LevelManagerSystem) applyState() {
	m.startScreenVisible = m.progress == types.GameProgressPreGame
	m.gameUIVisible = m.progress == types.GameProgressPlaying
	m.winScreenVisible = m.progress == types.GameProgressCompleted

	if m.walls != nil {
		m.walls.SetControlsEnabled(m.progress == types.GameProgressPlaying)
	}
}

// Progress 当前状态
func (m *LevelManagerSystem) Progress() types.GameProgress {
	return m.progress
}

// LevelID 当前关卡ID
func (m *LevelManagerSystem) LevelID() string {
	return m.levelID
}

// IsTimerRunning 计时器是否在运行
func (m *LevelManagerSystem) IsTimerRunning() bool {
	return m.timerRunning
}

// ElapsedTime 已计时间（秒）
func (m *LevelManagerSystem) ElapsedTime() float64 {
	return m.elapsedTime
}

// StartScreenVisible 开始界面是否可见
func (m *LevelManagerSystem) StartScreenVisible() bool {
	return m.startScreenVisible
}

// GameUIVisible 游戏内界面是否可见
func (m *LevelManagerSystem) GameUIVisible() bool {
	return m.gameUIVisible
}

// WinScreenVisible 胜利界面是否可见
func (m *LevelManagerSystem) WinScreenVisible() bool {
	return m.winScreenVisible
}

// TimerText 计时器文本，如 "Time: 01:05"
func (m *LevelManagerSystem) TimerText() string {
	return FormatTimer(m.elapsedTime)
}

// FormatTimer 把秒数格式化为 "Time: MM:SS"
func FormatTimer(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("Time: %02d:%02d", total/60, total%60)
}

// BallsText 弹珠计数文本，如 "Balls: 3/10"
func BallsText(current, required int) string {
	return fmt.Sprintf("Balls: %d/%d", current, required)
}
