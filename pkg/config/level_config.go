package config

import (
	"fmt"
	"os"

	"github.com/decker502/marble/pkg/embedded"
	"github.com/decker502/marble/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Vector YAML 中的三维向量，写作 [x, y, z]
type Vector [3]float64

// Vec3 转换为 utils.Vec3
func (v Vector) Vec3() utils.Vec3 {
	return utils.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// LevelConfig 关卡配置数据结构
// 定义了关卡的基本信息、碗（收集区域）、弹珠生成器和墙体分组
type LevelConfig struct {
	ID          string `yaml:"id"`          // 关卡ID，如 "1-1"
	Name        string `yaml:"name"`        // 关卡名称
	Description string `yaml:"description"` // 关卡描述（可选）
	NextLevel   string `yaml:"nextLevel"`   // 下一关ID（可选，为空时按关卡列表顺序）

	Arena      ArenaConfig       `yaml:"arena"`      // 场地边界与倾斜（演示驱动使用）
	Bowl       BowlConfig        `yaml:"bowl"`       // 收集区域配置
	Spawner    *SpawnerConfig    `yaml:"spawner"`    // 生成器配置（可选，为空时开局直接计时）
	WallGroups []WallGroupConfig `yaml:"wallGroups"` // 墙体分组
}

// ArenaConfig 场地配置
// Min 与 Max 相同（包括都未配置）时不限制水平范围
type ArenaConfig struct {
	Tilt Vector `yaml:"tilt"` // 重力之外的恒定加速度，让弹珠滚向碗
	Min  Vector `yaml:"min"`  // 场地最小角
	Max  Vector `yaml:"max"`  // 场地最大角
}

// Bounded 是否配置了场地边界
func (a ArenaConfig) Bounded() bool {
	return a.Min != a.Max
}

// BowlConfig 碗（收集区域）配置
type BowlConfig struct {
	Position      Vector  `yaml:"position"`      // 中心位置
	Size          Vector  `yaml:"size"`          // 尺寸（全长）
	MinBallsToWin int     `yaml:"minBallsToWin"` // 胜利所需球数，默认 10
	CheckInterval float64 `yaml:"checkInterval"` // 胜利条件检查间隔（秒），默认 1.0
}

// WallGroupConfig 墙体分组配置
type WallGroupConfig struct {
	Name  string       `yaml:"name"`
	Walls []WallConfig `yaml:"walls"`
}

// WallConfig 单面墙配置
type WallConfig struct {
	Name            string  `yaml:"name"`
	Variant         string  `yaml:"variant"`         // "normal" 或 "spiked"，默认 "normal"
	Position        Vector  `yaml:"position"`        // 降下时的中心位置（通常没入地面以下）
	Size            Vector  `yaml:"size"`            // 接触体积尺寸
	RaisedHeight    float64 `yaml:"raisedHeight"`    // 升起高度，默认 3
	MovementSpeed   float64 `yaml:"movementSpeed"`   // 移动速度，默认 5
	StartRaised     bool    `yaml:"startRaised"`     // 初始是否升起（尖刺墙反转解释）
	RaisedMaterial  string  `yaml:"raisedMaterial"`  // 普通墙升起材质
	LoweredMaterial string  `yaml:"loweredMaterial"` // 普通墙降下材质

	// DestroyBallsOnRaised 尖刺墙升起时是否销毁球，默认 true
	// 使用指针区分"未配置"和"显式 false"
	DestroyBallsOnRaised *bool `yaml:"destroyBallsOnRaised"`
}

// ShouldDestroyBalls 返回尖刺墙是否销毁球（未配置时为 true）
func (w *WallConfig) ShouldDestroyBalls() bool {
	if w.DestroyBallsOnRaised == nil {
		return true
	}
	return *w.DestroyBallsOnRaised
}

// 默认值常量
const (
	DefaultMinBallsToWin = 10
	DefaultCheckInterval = 1.0
	DefaultRaisedHeight  = 3.0
	DefaultMovementSpeed = 5.0
)

// DefaultBowlConfig 返回碗的默认配置
func DefaultBowlConfig() BowlConfig {
	return BowlConfig{
		MinBallsToWin: DefaultMinBallsToWin,
		CheckInterval: DefaultCheckInterval,
	}
}

// UnmarshalYAML 先填默认值再解码
// checkInterval: 0 表示每次 Update 都检查
func (c *BowlConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawBowlConfig BowlConfig
	raw := rawBowlConfig(DefaultBowlConfig())
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*c = BowlConfig(raw)
	return nil
}

// DefaultWallConfig 返回墙体的默认配置
func DefaultWallConfig() WallConfig {
	return WallConfig{
		Variant:       "normal",
		RaisedHeight:  DefaultRaisedHeight,
		MovementSpeed: DefaultMovementSpeed,
	}
}

// UnmarshalYAML 先填默认值再解码
func (c *WallConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawWallConfig WallConfig
	raw := rawWallConfig(DefaultWallConfig())
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*c = WallConfig(raw)
	return nil
}

// LoadLevelConfig 加载关卡配置
// 优先从嵌入资源读取，未初始化时回退到磁盘
//
// 参数：
//
//	path - 关卡配置文件的路径，如 "data/levels/1-1.yaml"
//
// 返回：
//
//	*LevelConfig - 解析后的关卡配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadLevelConfig(path string) (*LevelConfig, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", path, err)
	}
	return ParseLevelConfig(data, path)
}

// ParseLevelConfig 从 YAML 数据解析关卡配置
// source 只用于错误信息
func ParseLevelConfig(data []byte, source string) (*LevelConfig, error) {
	// 默认值在解码时填充，只有 YAML 中缺失的字段才取默认值
	levelConfig := LevelConfig{Bowl: DefaultBowlConfig()}
	if err := yaml.Unmarshal(data, &levelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML from %s: %w", source, err)
	}

	// 验证必填字段
	if err := validateLevelConfig(&levelConfig); err != nil {
		return nil, fmt.Errorf("invalid level config in %s: %w", source, err)
	}

	return &levelConfig, nil
}

// readConfigFile 读取配置文件：嵌入资源优先，磁盘兜底
func readConfigFile(path string) ([]byte, error) {
	if embedded.IsInitialized() {
		return embedded.ReadFile(path)
	}
	return os.ReadFile(path)
}

// validateLevelConfig 验证关卡配置的完整性和合法性
func validateLevelConfig(config *LevelConfig) error {
	if config.ID == "" {
		return fmt.Errorf("level ID is required")
	}

	if config.Arena.Bounded() {
		for axis := range config.Arena.Min {
			if config.Arena.Min[axis] > config.Arena.Max[axis] {
				return fmt.Errorf("arena: min[%d] (%.2f) must not exceed max[%d] (%.2f)",
					axis, config.Arena.Min[axis], axis, config.Arena.Max[axis])
			}
		}
	}

	if config.Bowl.MinBallsToWin < 0 {
		return fmt.Errorf("bowl: minBallsToWin cannot be negative, got %d", config.Bowl.MinBallsToWin)
	}
	if config.Bowl.CheckInterval < 0 {
		return fmt.Errorf("bowl: checkInterval cannot be negative, got %.2f", config.Bowl.CheckInterval)
	}
	for axis, v := range config.Bowl.Size {
		if v < 0 {
			return fmt.Errorf("bowl: size[%d] cannot be negative, got %.2f", axis, v)
		}
	}

	if config.Spawner != nil {
		if err := config.Spawner.Validate(); err != nil {
			return fmt.Errorf("spawner: %w", err)
		}
	}

	validVariants := map[string]bool{
		"normal": true,
		"spiked": true,
	}
	groupNames := make(map[string]bool)
	for i, group := range config.WallGroups {
		if group.Name == "" {
			return fmt.Errorf("wallGroups[%d]: name is required", i)
		}
		if groupNames[group.Name] {
			return fmt.Errorf("wallGroups[%d]: duplicate group name %q", i, group.Name)
		}
		groupNames[group.Name] = true

		for j, wall := range group.Walls {
			if !validVariants[wall.Variant] {
				return fmt.Errorf("wallGroups[%d].walls[%d]: variant must be one of: normal, spiked, got %q", i, j, wall.Variant)
			}
			if wall.MovementSpeed <= 0 {
				return fmt.Errorf("wallGroups[%d].walls[%d]: movementSpeed must be positive, got %.2f", i, j, wall.MovementSpeed)
			}
		}
	}

	return nil
}
