package systems

import (
	"math"

	"github.com/decker502/marble/pkg/components"
	"github.com/decker502/marble/pkg/ecs"
	"github.com/decker502/marble/pkg/utils"
)

const (
	// DefaultGravity 重力加速度（向下，单位/秒²）
	DefaultGravity = 9.81
	// DefaultFloorHeight 地面高度
	DefaultFloorHeight = 0.0
	// DefaultRestitution 落地反弹系数
	DefaultRestitution = 0.3
	// DefaultLinearDamping 水平速度阻尼（每秒衰减比例）
	DefaultLinearDamping = 0.5
)

// PhysicsSystem 演示用的简易刚体驱动
//
// 只做重力与倾斜加速度积分、地面夹紧（带少量反弹）、水平阻尼和场地边界夹紧。
// 不做刚体之间的碰撞解算；体积重叠由 TriggerSystem 报告
type PhysicsSystem struct {
	em *ecs.EntityManager

	Gravity       float64
	FloorHeight   float64
	Restitution   float64
	LinearDamping float64

	// Tilt 重力之外的恒定加速度（场地倾斜）
	Tilt utils.Vec3

	bounded bool
	min     utils.Vec3
	max     utils.Vec3
}

// NewPhysicsSystem 创建物理系统
//
// 参数:
//   - em: 实体管理器，用于查询刚体
//
// 返回:
//   - *PhysicsSystem: 使用默认参数的物理系统
func NewPhysicsSystem(em *ecs.EntityManager) *PhysicsSystem {
	return &PhysicsSystem{
		em:            em,
		Gravity:       DefaultGravity,
		FloorHeight:   DefaultFloorHeight,
		Restitution:   DefaultRestitution,
		LinearDamping: DefaultLinearDamping,
	}
}

// SetBounds 设置场地水平边界（X/Z），越界时夹紧并清零该轴速度
func (ps *PhysicsSystem) SetBounds(min, max utils.Vec3) {
	ps.bounded = true
	ps.min = min
	ps.max = max
}

// Update 积分所有非运动学刚体
func (ps *PhysicsSystem) Update(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}

	bodies := ecs.GetEntitiesWith2[*components.TransformComponent, *components.RigidBodyComponent](ps.em)
	damping := math.Max(0, 1-ps.LinearDamping*deltaTime)

	for _, id := range bodies {
		tr, _ := ecs.GetComponent[*components.TransformComponent](ps.em, id)
		rb, _ := ecs.GetComponent[*components.RigidBodyComponent](ps.em, id)
		if rb.Kinematic {
			continue
		}

		if rb.UseGravity {
			rb.Velocity.Y -= ps.Gravity * deltaTime
			rb.Velocity = rb.Velocity.Add(ps.Tilt.Scale(deltaTime))
		}
		rb.Velocity.X *= damping
		rb.Velocity.Z *= damping

		tr.Position = tr.Position.Add(rb.Velocity.Scale(deltaTime))

		// 地面夹紧
		if tr.Position.Y < ps.FloorHeight {
			tr.Position.Y = ps.FloorHeight
			if rb.Velocity.Y < 0 {
				rb.Velocity.Y = -rb.Velocity.Y * ps.Restitution
			}
		}

		if ps.bounded {
			tr.Position.X, rb.Velocity.X = clampAxis(tr.Position.X, rb.Velocity.X, ps.min.X, ps.max.X)
			tr.Position.Z, rb.Velocity.Z = clampAxis(tr.Position.Z, rb.Velocity.Z, ps.min.Z, ps.max.Z)
		}
	}
}

// clampAxis 把坐标夹紧到 [min, max]，撞到边界时清零朝外的速度
func clampAxis(pos, vel, min, max float64) (float64, float64) {
	if pos < min {
		pos = min
		if vel < 0 {
			vel = 0
		}
	} else if pos > max {
		pos = max
		if vel > 0 {
			vel = 0
		}
	}
	return pos, vel
}
