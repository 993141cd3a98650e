package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// GameSettings 全局显示和音效设置
type GameSettings struct {
	Fullscreen   bool    `yaml:"fullscreen"`   // 启动时是否全屏
	ShowVolumes  bool    `yaml:"showVolumes"`  // 是否绘制碗和墙体的包围盒
	WorldScale   float64 `yaml:"worldScale"`   // 世界坐标到屏幕像素的缩放（像素/单位）
	SoundEnabled bool    `yaml:"soundEnabled"` // 是否播放音效
	SoundVolume  float64 `yaml:"soundVolume"`  // 音效音量 [0, 1]
}

// 世界缩放范围
const (
	minWorldScale = 10.0
	maxWorldScale = 80.0
)

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		Fullscreen:   false,
		ShowVolumes:  true,
		WorldScale:   32,
		SoundEnabled: true,
		SoundVolume:  0.6,
	}
}

// SettingsManager 设置管理器
// 负责显示设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GameSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// Load 从 gdata 加载设置
// gdataManager 为 nil 或设置不存在时使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.WorldScale = clampWorldScale(loaded.WorldScale)
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
// 降级模式下返回 nil
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetFullscreen 设置全屏模式
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// ToggleShowVolumes 切换包围盒显示
func (sm *SettingsManager) ToggleShowVolumes() bool {
	sm.settings.ShowVolumes = !sm.settings.ShowVolumes
	return sm.settings.ShowVolumes
}

// ToggleSound 切换音效开关
func (sm *SettingsManager) ToggleSound() bool {
	sm.settings.SoundEnabled = !sm.settings.SoundEnabled
	return sm.settings.SoundEnabled
}

// SetSoundVolume 设置音效音量，超出 [0, 1] 时夹紧
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// SetWorldScale 设置世界缩放，超出范围时夹紧
func (sm *SettingsManager) SetWorldScale(scale float64) {
	sm.settings.WorldScale = clampWorldScale(scale)
}

// clampWorldScale 将缩放限制在 [minWorldScale, maxWorldScale]
func clampWorldScale(scale float64) float64 {
	if scale < minWorldScale {
		return minWorldScale
	}
	if scale > maxWorldScale {
		return maxWorldScale
	}
	return scale
}

func clampVolume(volume float64) float64 {
	if volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}
