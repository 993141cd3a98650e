package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LevelListPath 关卡列表文件路径
const LevelListPath = "data/levels.yaml"

// LevelList 关卡顺序列表
type LevelList struct {
	Levels []string `yaml:"levels"`
}

// LoadLevelList 加载关卡列表
func LoadLevelList(path string) (*LevelList, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level list %s: %w", path, err)
	}

	var list LevelList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse level list YAML from %s: %w", path, err)
	}

	if len(list.Levels) == 0 {
		return nil, fmt.Errorf("level list %s: at least one level is required", path)
	}
	seen := make(map[string]bool)
	for i, id := range list.Levels {
		if id == "" {
			return nil, fmt.Errorf("level list %s: levels[%d] is empty", path, i)
		}
		if seen[id] {
			return nil, fmt.Errorf("level list %s: duplicate level %q", path, id)
		}
		seen[id] = true
	}

	return &list, nil
}

// LevelPath 返回关卡ID对应的配置文件路径
func LevelPath(levelID string) string {
	return fmt.Sprintf("data/levels/%s.yaml", levelID)
}

// First 返回第一关ID
func (l *LevelList) First() string {
	if len(l.Levels) == 0 {
		return ""
	}
	return l.Levels[0]
}

// Next 返回 current 之后的关卡ID
// 返回值 wrapped=true 表示已经是最后一关（或 current 不在列表中），回到第一关
func (l *LevelList) Next(current string) (next string, wrapped bool) {
	for i, id := range l.Levels {
		if id == current && i+1 < len(l.Levels) {
			return l.Levels[i+1], false
		}
	}
	return l.First(), true
}

// Contains 检查关卡是否在列表中
func (l *LevelList) Contains(levelID string) bool {
	for _, id := range l.Levels {
		if id == levelID {
			return true
		}
	}
	return false
}
