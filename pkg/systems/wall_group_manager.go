package systems

import "log"

// WallHandle 墙体组管理器看到的墙体接口
// WallController 实现了它；测试里可以用假实现观察 Toggle 调用
type WallHandle interface {
	Toggle() bool
	IsMoving() bool
}

// WallGroup 一组具名墙体
// 管理器只持有引用，从不创建或销毁墙体
type WallGroup struct {
	Name  string
	Walls []WallHandle
}

// WallGroupManager 墙体组协调器
//
// 职责：
//   - 按组保存墙体引用
//   - 批量切换所有墙体或指定组
//   - 保存"控制是否启用"标志，供输入绑定层决定是否转发玩家命令
type WallGroupManager struct {
	groups          []*WallGroup
	controlsEnabled bool
}

// NewWallGroupManager 创建墙体组管理器
// 控制默认启用，由关卡管理器在进入各游戏状态时改写
func NewWallGroupManager() *WallGroupManager {
	return &WallGroupManager{
		groups:          make([]*WallGroup, 0),
		controlsEnabled: true,
	}
}

// AddGroup 添加一组墙体
func (m *WallGroupManager) AddGroup(name string, walls ...WallHandle) *WallGroup {
	group := &WallGroup{
		Name:  name,
		Walls: walls,
	}
	m.groups = append(m.groups, group)
	return group
}

// Groups 返回所有墙体组（按添加顺序）
func (m *WallGroupManager) Groups() []*WallGroup {
	return m.groups
}

// ToggleAll 切换所有组里的所有墙体
// 正在移动的墙体被静默跳过（不排队，不报错）
// 返回实际切换的墙体数量
func (m *WallGroupManager) ToggleAll() int {
	toggled := 0
	for _, group := range m.groups {
		for _, wall := range group.Walls {
			if wall == nil || wall.IsMoving() {
				continue
			}
			if wall.Toggle() {
				toggled++
			}
		}
	}
	return toggled
}

// ToggleGroup 切换指定组里的所有墙体
//
// 注意：与 ToggleAll 不同，这里不检查 IsMoving，直接对每面墙调用 Toggle。
// 墙体自身仍会拒绝移动中的切换，但调用一定会发生。
// 组名不存在时记录日志并返回 false
func (m *WallGroupManager) ToggleGroup(name string) bool {
	for _, group := range m.groups {
		if group.Name != name {
			continue
		}
		for _, wall := range group.Walls {
			if wall == nil {
				continue
			}
			wall.Toggle()
		}
		return true
	}

	log.Printf("[WallGroupManager] Group %q not found", name)
	return false
}

// SetControlsEnabled 设置玩家控制是否启用
// 管理器本身不会因为该标志拒绝任何调用
func (m *WallGroupManager) SetControlsEnabled(enabled bool) {
	m.controlsEnabled = enabled
}

// ControlsEnabled 玩家控制是否启用
func (m *WallGroupManager) ControlsEnabled() bool {
	return m.controlsEnabled
}
