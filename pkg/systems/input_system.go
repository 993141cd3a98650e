package systems

import (
	"log"

	"github.com/decker502/marble/pkg/types"
)

// InputSource 逻辑输入命令来源
// 桌面端由键盘实现（pkg/app），测试里用假实现
type InputSource interface {
	// IsStartPressed 本帧是否按下"开始/重新开始"
	IsStartPressed() bool
	// IsTogglePressed 本帧是否按下"切换所有墙体"
	IsTogglePressed() bool
	// IsNextLevelPressed 本帧是否按下"下一关"
	IsNextLevelPressed() bool
}

// InputSystem 把原始输入翻译成逻辑命令
//
// 命令：
//   - start  → LevelManagerSystem.HandleStartCommand
//   - toggle → WallGroupManager.ToggleAll（控制未启用时丢弃）
//   - next   → LevelManagerSystem.LoadNextLevel（只在关卡完成后有效）
type InputSystem struct {
	source       InputSource
	levelManager *LevelManagerSystem
	walls        *WallGroupManager
}

// NewInputSystem 创建输入绑定系统
func NewInputSystem(source InputSource, levelManager *LevelManagerSystem, walls *WallGroupManager) *InputSystem {
	return &InputSystem{
		source:       source,
		levelManager: levelManager,
		walls:        walls,
	}
}

// Update 读取本帧输入并派发命令
func (s *InputSystem) Update(deltaTime float64) {
	if s.source == nil {
		return
	}

	if s.source.IsStartPressed() && s.levelManager != nil {
		s.levelManager.HandleStartCommand()
	}

	if s.source.IsTogglePressed() && s.walls != nil {
		if s.walls.ControlsEnabled() {
			toggled := s.walls.ToggleAll()
			log.Printf("[InputSystem] Toggle walls: %d toggled", toggled)
		}
	}

	if s.source.IsNextLevelPressed() && s.levelManager != nil {
		if s.levelManager.Progress() == types.GameProgressCompleted {
			s.levelManager.LoadNextLevel()
		}
	}
}
