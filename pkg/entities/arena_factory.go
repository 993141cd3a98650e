package entities

import (
	"github.com/decker502/marble/pkg/components"
	"github.com/decker502/marble/pkg/config"
	"github.com/decker502/marble/pkg/ecs"
)

// NewWallEntity 根据配置创建墙体实体
//
// 只负责组装组件；初始升降状态由 WallController 在构造时决定
// （尖刺墙会反转 StartRaised 的解释）
func NewWallEntity(em *ecs.EntityManager, cfg config.WallConfig) ecs.EntityID {
	id := em.CreateEntity()

	position := cfg.Position.Vec3()
	size := cfg.Size.Vec3()

	ecs.AddComponent(em, id, &components.TransformComponent{Position: position})
	ecs.AddComponent(em, id, &components.NameComponent{Name: cfg.Name})
	ecs.AddComponent(em, id, &components.WallComponent{
		Variant:       components.WallVariant(cfg.Variant),
		Position:      position,
		Target:        position,
		MovementSpeed: cfg.MovementSpeed,
		RaisedHeight:  cfg.RaisedHeight,
		StartRaised:   cfg.StartRaised,
	})
	ecs.AddComponent(em, id, &components.VolumeComponent{
		HalfExtents: size.Scale(0.5),
		IsTrigger:   false,
	})

	switch components.WallVariant(cfg.Variant) {
	case components.WallVariantSpiked:
		ecs.AddComponent(em, id, &components.SpikedWallComponent{
			DestroyBallsOnRaised: cfg.ShouldDestroyBalls(),
		})
	default:
		ecs.AddComponent(em, id, &components.WallAppearanceComponent{
			RaisedMaterial:  cfg.RaisedMaterial,
			LoweredMaterial: cfg.LoweredMaterial,
		})
		ecs.AddComponent(em, id, &components.AppearanceComponent{})
	}

	return id
}

// NewBowlEntity 根据配置创建碗（收集区域）实体
func NewBowlEntity(em *ecs.EntityManager, cfg config.BowlConfig) ecs.EntityID {
	id := em.CreateEntity()

	ecs.AddComponent(em, id, &components.TransformComponent{Position: cfg.Position.Vec3()})
	ecs.AddComponent(em, id, &components.NameComponent{Name: "Bowl"})
	ecs.AddComponent(em, id, &components.BowlComponent{})
	ecs.AddComponent(em, id, &components.VolumeComponent{
		HalfExtents: cfg.Size.Vec3().Scale(0.5),
		IsTrigger:   true,
	})

	return id
}
