package components

import "github.com/decker502/marble/pkg/utils"

// BallComponent 弹珠身份组件
// 拥有此组件的实体一定被识别为"球"（墙体和碗的判定都以它为首选依据）
type BallComponent struct {
	Index int     // 本批次内的生成序号（从 0 开始）
	Scale float64 // 随机缩放系数（同时作用于质量）
}

// NameComponent 实体显示名称
// 例如 "Ball 07"；尖刺墙会按名称子串兜底识别球体
type NameComponent struct {
	Name string
}

// RigidBodyComponent 刚体组件
// 只保存物理驱动需要的最少数据，碰撞解算不在本项目范围内
type RigidBodyComponent struct {
	Mass       float64    // 质量
	Kinematic  bool       // 运动学刚体（不受力，不被尖刺墙识别为球）
	Velocity   utils.Vec3 // 当前速度
	UseGravity bool       // 是否受重力影响
}

// AddImpulse 施加冲量（ForceMode.Impulse 语义：Δv = J / m）
func (rb *RigidBodyComponent) AddImpulse(impulse utils.Vec3) {
	if rb.Kinematic {
		return
	}
	mass := rb.Mass
	if mass <= 0 {
		mass = 1
	}
	rb.Velocity = rb.Velocity.Add(impulse.Scale(1 / mass))
}

// AppearanceComponent 外观组件
// 当前使用的材质名称，由表现层负责真正的渲染
type AppearanceComponent struct {
	Material string
}
