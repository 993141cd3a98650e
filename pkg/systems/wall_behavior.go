package systems

import (
	"log"

	"github.com/decker502/marble/pkg/components"
	"github.com/decker502/marble/pkg/ecs"
	"github.com/decker502/marble/pkg/event"
)

// NormalWallBehavior 普通墙：只根据升降状态切换外观
type NormalWallBehavior struct {
	entityManager *ecs.EntityManager
	entityID      ecs.EntityID
}

// NewNormalWallBehavior 创建普通墙行为
func NewNormalWallBehavior(em *ecs.EntityManager, entityID ecs.EntityID) *NormalWallBehavior {
	return &NormalWallBehavior{
		entityManager: em,
		entityID:      entityID,
	}
}

// InitialRaised 普通墙按配置决定初始状态
func (b *NormalWallBehavior) InitialRaised(startRaised bool) bool {
	return startRaised
}

// OnStateApplied 选择升起/降下对应的材质
// 对应状态没有配置材质时保持原样
func (b *NormalWallBehavior) OnStateApplied(raised bool) {
	looks, ok := ecs.GetComponent[*components.WallAppearanceComponent](b.entityManager, b.entityID)
	if !ok {
		return
	}
	appearance, ok := ecs.GetComponent[*components.AppearanceComponent](b.entityManager, b.entityID)
	if !ok {
		return
	}

	if raised && looks.RaisedMaterial != "" {
		appearance.Material = looks.RaisedMaterial
	} else if !raised && looks.LoweredMaterial != "" {
		appearance.Material = looks.LoweredMaterial
	}
}

// OnContact 普通墙对接触没有反应
func (b *NormalWallBehavior) OnContact(raised bool, other ecs.EntityID) {}

// SpikedWallBehavior 尖刺墙：升起时销毁接触到的球
//
// 初始状态与配置相反（startRaised=false 时开局升起），
// 这样和普通墙摆在一起时天然形成互补的开合
type SpikedWallBehavior struct {
	entityManager *ecs.EntityManager
	entityID      ecs.EntityID

	// OnBallDestroyed 销毁一颗球后触发，负载为被销毁的实体ID
	OnBallDestroyed event.Signal[ecs.EntityID]
}

// NewSpikedWallBehavior 创建尖刺墙行为
func NewSpikedWallBehavior(em *ecs.EntityManager, entityID ecs.EntityID) *SpikedWallBehavior {
	return &SpikedWallBehavior{
		entityManager: em,
		entityID:      entityID,
	}
}

// InitialRaised 反转配置的初始状态
func (b *SpikedWallBehavior) InitialRaised(startRaised bool) bool {
	return !startRaised
}

// OnStateApplied 尖刺墙没有外观切换
func (b *SpikedWallBehavior) OnStateApplied(raised bool) {}

// OnContact 升起状态下销毁接触到的球
// 同一颗球最多销毁一次：已销毁的实体不再存在，后续接触直接忽略
func (b *SpikedWallBehavior) OnContact(raised bool, other ecs.EntityID) {
	if !raised || !b.destroysBalls() {
		return
	}
	if !b.entityManager.EntityExists(other) {
		return
	}
	if !IsBall(b.entityManager, other) {
		return
	}

	name := ""
	if n, ok := ecs.GetComponent[*components.NameComponent](b.entityManager, other); ok {
		name = n.Name
	}
	log.Printf("[SpikedWall] Destroyed Ball: %s (entity %d)", name, other)

	b.entityManager.DestroyEntity(other)
	b.OnBallDestroyed.Emit(other)
}

// destroysBalls 读取尖刺墙配置，缺省为 true
func (b *SpikedWallBehavior) destroysBalls() bool {
	cfg, ok := ecs.GetComponent[*components.SpikedWallComponent](b.entityManager, b.entityID)
	if !ok {
		return true
	}
	return cfg.DestroyBallsOnRaised
}
