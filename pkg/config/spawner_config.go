package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SpawnerConfig 弹珠生成器配置
// 运行期只读：生成器从不修改它
type SpawnerConfig struct {
	Origin        Vector  `yaml:"origin"`        // 生成参考原点
	BallAmount    int     `yaml:"ballAmount"`    // 生成数量，默认 20（0 表示不生成，直接完成）
	BallPrototype string  `yaml:"ballPrototype"` // 弹珠原型ID，如 "marble"（为空时生成流程报错中止）
	SpawnRadius   float64 `yaml:"spawnRadius"`   // 生成半径，默认 3
	SpawnHeight   float64 `yaml:"spawnHeight"`   // 相对原点的生成高度，默认 1
	SpawnInterval float64 `yaml:"spawnInterval"` // 两颗弹珠之间的等待时间（秒），默认 0.1（0 表示每帧一颗）

	BallMaterials []string `yaml:"ballMaterials"` // 随机材质池（可为空）

	RandomForceMin    float64 `yaml:"randomForceMin"`    // 初始冲量最小值，默认 0.5
	RandomForceMax    float64 `yaml:"randomForceMax"`    // 初始冲量最大值，默认 2
	ApplyInitialForce bool    `yaml:"applyInitialForce"` // 是否施加初始冲量

	MinScale float64 `yaml:"minScale"` // 弹珠最小缩放，默认 0.8
	MaxScale float64 `yaml:"maxScale"` // 弹珠最大缩放，默认 1.2
}

// DefaultSpawnerConfig 返回默认生成器配置
func DefaultSpawnerConfig() *SpawnerConfig {
	cfg := spawnerDefaults()
	cfg.BallPrototype = "marble"
	return &cfg
}

// spawnerDefaults 未在 YAML 中出现的字段取这些值
// 原型不设默认：缺失时生成流程报错中止
func spawnerDefaults() SpawnerConfig {
	return SpawnerConfig{
		BallAmount:     20,
		SpawnRadius:    3,
		SpawnHeight:    1,
		SpawnInterval:  0.1,
		RandomForceMin: 0.5,
		RandomForceMax: 2,
		MinScale:       0.8,
		MaxScale:       1.2,
	}
}

// UnmarshalYAML 先填默认值再解码，YAML 中显式写出的 0 会被保留
func (c *SpawnerConfig) UnmarshalYAML(value *yaml.Node) error {
	type rawSpawnerConfig SpawnerConfig
	raw := rawSpawnerConfig(spawnerDefaults())
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*c = SpawnerConfig(raw)
	return nil
}

// Validate 验证生成器配置
func (c *SpawnerConfig) Validate() error {
	if c.BallAmount < 0 {
		return fmt.Errorf("ballAmount cannot be negative, got %d", c.BallAmount)
	}
	if c.SpawnRadius < 0 {
		return fmt.Errorf("spawnRadius cannot be negative, got %.2f", c.SpawnRadius)
	}
	if c.SpawnInterval < 0 {
		return fmt.Errorf("spawnInterval cannot be negative, got %.2f", c.SpawnInterval)
	}
	if c.RandomForceMin > c.RandomForceMax {
		return fmt.Errorf("randomForceMin (%.2f) must not exceed randomForceMax (%.2f)", c.RandomForceMin, c.RandomForceMax)
	}
	if c.MinScale <= 0 || c.MinScale > c.MaxScale {
		return fmt.Errorf("scale range must satisfy 0 < minScale <= maxScale, got [%.2f, %.2f]", c.MinScale, c.MaxScale)
	}
	for i, m := range c.BallMaterials {
		if m == "" {
			return fmt.Errorf("ballMaterials[%d]: empty material name", i)
		}
	}
	return nil
}
