package components

import "github.com/decker502/marble/pkg/utils"

// WallVariant 墙体变体
type WallVariant string

const (
	// WallVariantNormal 普通墙：只切换材质，没有玩法副作用
	WallVariantNormal WallVariant = "normal"
	// WallVariantSpiked 尖刺墙：升起时销毁接触到的球
	WallVariantSpiked WallVariant = "spiked"
)

// WallComponent 墙体运动状态
//
// 状态机：
//   - Lowered / Raised：静止
//   - Moving=true：正在向 Target 移动（Raised 已经是目标状态）
//
// 不变量：
//   - Moving 只在"切换被接受"到"到达目标"之间为 true
//   - Raised 在切换被接受的瞬间翻转，而不是到达时
type WallComponent struct {
	Variant WallVariant

	Raised bool // 当前（或正在前往的）状态是否为升起
	Moving bool // 是否正在移动

	Position        utils.Vec3 // 当前位置
	Target          utils.Vec3 // 目标位置
	LoweredPosition utils.Vec3 // 降下时的位置
	RaisedPosition  utils.Vec3 // 升起时的位置

	MovementSpeed float64 // 移动速度（单位/秒）
	RaisedHeight  float64 // 升起高度
	StartRaised   bool    // 配置的初始状态（尖刺墙会反转解释）
}

// WallAppearanceComponent 普通墙的两套外观
// 空字符串表示该状态没有配置材质，此时保持原材质不变
type WallAppearanceComponent struct {
	RaisedMaterial  string
	LoweredMaterial string
}

// SpikedWallComponent 尖刺墙配置
type SpikedWallComponent struct {
	DestroyBallsOnRaised bool
}
