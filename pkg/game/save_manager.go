package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// SaveData 关卡进度存档
//
// 保存内容：
//   - 最近一次游玩的关卡（下次启动默认进入）
//   - 已完成的关卡列表（按首次完成顺序）
//   - 每关最佳用时（秒）
type SaveData struct {
	LastLevel       string             `yaml:"lastLevel"`       // 最近一次游玩的关卡ID
	HighestLevel    string             `yaml:"highestLevel"`    // 最近一次首次完成的关卡ID
	CompletedLevels []string           `yaml:"completedLevels"` // 已完成关卡ID列表
	BestTimes       map[string]float64 `yaml:"bestTimes"`       // 关卡ID -> 最佳用时
}

// newSaveData 返回空存档
func newSaveData() *SaveData {
	return &SaveData{
		CompletedLevels: []string{},
		BestTimes:       make(map[string]float64),
	}
}

// 存储路径常量
const (
	progressObject   = "progress"
	progressProperty = "levels"
)

// SaveManager 关卡进度管理器
//
// 职责：
//   - 从 gdata 加载/保存关卡进度（YAML 格式，与配置文件保持一致）
//   - 记录关卡完成及最佳用时
//
// 架构说明：
//   - gdataManager 可为 nil（降级模式，只保存在内存中）
//   - 核心玩法不依赖存档；关卡管理器通过 ProgressRecorder 接口写入
type SaveManager struct {
	gdataManager *gdata.Manager
	data         *SaveData
}

// NewSaveManager 创建关卡进度管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
//
// 返回：
//   - *SaveManager: 进度管理器实例（加载失败时使用空存档）
func NewSaveManager(gdataManager *gdata.Manager) *SaveManager {
	sm := &SaveManager{
		gdataManager: gdataManager,
		data:         newSaveData(),
	}

	if err := sm.Load(); err != nil {
		// 存档损坏不是致命错误，从空存档开始
		log.Printf("[SaveManager] Warning: Failed to load progress: %v (starting fresh)", err)
	}

	return sm
}

// Load 从 gdata 加载存档
func (sm *SaveManager) Load() error {
	if sm.gdataManager == nil {
		sm.data = newSaveData()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(progressObject, progressProperty) {
		sm.data = newSaveData()
		return nil
	}

	raw, err := sm.gdataManager.LoadObjectProp(progressObject, progressProperty)
	if err != nil {
		sm.data = newSaveData()
		return fmt.Errorf("failed to load progress: %w", err)
	}

	loaded := newSaveData()
	if err := yaml.Unmarshal(raw, loaded); err != nil {
		sm.data = newSaveData()
		return fmt.Errorf("failed to unmarshal progress: %w", err)
	}
	if loaded.BestTimes == nil {
		loaded.BestTimes = make(map[string]float64)
	}
	if loaded.CompletedLevels == nil {
		loaded.CompletedLevels = []string{}
	}

	sm.data = loaded
	log.Printf("[SaveManager] Progress loaded: %d levels completed", len(loaded.CompletedLevels))
	return nil
}

// Save 保存存档到 gdata
// 降级模式下直接返回 nil
func (sm *SaveManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	raw, err := yaml.Marshal(sm.data)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(progressObject, progressProperty, raw); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// RecordCompletion 记录关卡完成并立即保存
//
// 参数：
//   - levelID: 完成的关卡ID
//   - seconds: 本次用时；只有更短时才覆盖最佳用时，为负表示没有计时（只记录完成）
func (sm *SaveManager) RecordCompletion(levelID string, seconds float64) error {
	if levelID == "" {
		return fmt.Errorf("level ID is required")
	}

	if !sm.IsLevelCompleted(levelID) {
		sm.data.CompletedLevels = append(sm.data.CompletedLevels, levelID)
		sm.data.HighestLevel = levelID
	}

	if seconds < 0 {
		log.Printf("[SaveManager] Level %s completed without a time", levelID)
	} else if best, ok := sm.data.BestTimes[levelID]; !ok || seconds < best {
		sm.data.BestTimes[levelID] = seconds
		log.Printf("[SaveManager] New best time for %s: %.2fs", levelID, seconds)
	}

	return sm.Save()
}

// SetLastLevel 记录最近一次游玩的关卡并保存
func (sm *SaveManager) SetLastLevel(levelID string) error {
	sm.data.LastLevel = levelID
	return sm.Save()
}

// LastLevel 最近一次游玩的关卡（没有记录时为空）
func (sm *SaveManager) LastLevel() string {
	return sm.data.LastLevel
}

// HighestLevel 最近一次首次完成的关卡
func (sm *SaveManager) HighestLevel() string {
	return sm.data.HighestLevel
}

// IsLevelCompleted 关卡是否完成过
func (sm *SaveManager) IsLevelCompleted(levelID string) bool {
	for _, id := range sm.data.CompletedLevels {
		if id == levelID {
			return true
		}
	}
	return false
}

// BestTime 返回关卡最佳用时
func (sm *SaveManager) BestTime(levelID string) (float64, bool) {
	t, ok := sm.data.BestTimes[levelID]
	return t, ok
}
