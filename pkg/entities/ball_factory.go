package entities

import (
	"fmt"
	"math/rand"

	"github.com/decker502/marble/pkg/components"
	"github.com/decker502/marble/pkg/ecs"
	"github.com/decker502/marble/pkg/utils"
)

// BallPrototype 弹珠原型
// 相当于关卡编辑器里拖进生成器的预制体
type BallPrototype struct {
	ID              string
	Mass            float64 // 基础质量（乘以随机缩放）
	Kinematic       bool
	DefaultMaterial string
	MinScale        float64 // 随机缩放下限
	MaxScale        float64 // 随机缩放上限
}

// 内置原型表
var ballPrototypes = map[string]*BallPrototype{
	"marble": {
		ID:              "marble",
		Mass:            1.0,
		DefaultMaterial: "marble_default",
		MinScale:        0.8,
		MaxScale:        1.2,
	},
	"steel": {
		ID:              "steel",
		Mass:            3.0,
		DefaultMaterial: "steel",
		MinScale:        0.9,
		MaxScale:        1.1,
	},
}

// LookupBallPrototype 按ID查找弹珠原型
// 未注册的ID返回 nil, false
func LookupBallPrototype(id string) (*BallPrototype, bool) {
	proto, ok := ballPrototypes[id]
	return proto, ok
}

// BallName 返回第 index 颗弹珠的名称，如 "Ball 07"
func BallName(index int) string {
	return fmt.Sprintf("Ball %02d", index)
}

// NewBallEntity 创建一个弹珠实体
//
// 参数:
//   - em: EntityManager 实例
//   - proto: 弹珠原型
//   - rng: 随机源（用于缩放）
//   - index: 本批次内的序号
//   - position: 生成位置（世界坐标）
//   - rotation: 初始朝向
//
// 返回: 创建的实体ID
func NewBallEntity(em *ecs.EntityManager, proto *BallPrototype, rng *rand.Rand, index int, position utils.Vec3, rotation utils.Quat) ecs.EntityID {
	id := em.CreateEntity()

	// 随机缩放，质量随缩放一起变化
	scale := utils.RandomRange(rng, proto.MinScale, proto.MaxScale)
	if scale <= 0 {
		scale = 1
	}

	ecs.AddComponent(em, id, &components.TransformComponent{
		Position: position,
		Rotation: rotation,
	})
	ecs.AddComponent(em, id, &components.BallComponent{
		Index: index,
		Scale: scale,
	})
	ecs.AddComponent(em, id, &components.NameComponent{
		Name: BallName(index),
	})
	ecs.AddComponent(em, id, &components.RigidBodyComponent{
		Mass:       proto.Mass * scale,
		Kinematic:  proto.Kinematic,
		UseGravity: !proto.Kinematic,
	})
	ecs.AddComponent(em, id, &components.AppearanceComponent{
		Material: proto.DefaultMaterial,
	})

	return id
}
