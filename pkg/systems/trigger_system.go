package systems

import (
	"github.com/decker502/marble/pkg/components"
	"github.com/decker502/marble/pkg/ecs"
)

// TriggerHandler 触发体积的进入/离开回调
// BowlSystem 实现了它
type TriggerHandler interface {
	OnTriggerEnter(id ecs.EntityID)
	OnTriggerExit(id ecs.EntityID)
}

// ContactHandler 实体体积被接触时的回调
// 例如 WallController.HandleContact
type ContactHandler func(other ecs.EntityID)

// TriggerSystem 体积重叠检测
//
// 职责：
//   - 每帧检查所有刚体的位置是否落在已注册体积内
//   - 触发体积：重叠开始时 OnTriggerEnter，结束时 OnTriggerExit
//   - 实体体积：重叠开始时调用一次 ContactHandler（持续重叠不重复调用）
//
// 已被销毁的实体直接从重叠记录中移除，不产生离开事件
type TriggerSystem struct {
	em *ecs.EntityManager

	volumes  []ecs.EntityID
	triggers map[ecs.EntityID]TriggerHandler
	contacts map[ecs.EntityID]ContactHandler

	// 体积ID -> 当前与之重叠的实体集合
	overlaps map[ecs.EntityID]map[ecs.EntityID]bool
}

// NewTriggerSystem 创建触发检测系统
func NewTriggerSystem(em *ecs.EntityManager) *TriggerSystem {
	return &TriggerSystem{
		em:       em,
		volumes:  make([]ecs.EntityID, 0),
		triggers: make(map[ecs.EntityID]TriggerHandler),
		contacts: make(map[ecs.EntityID]ContactHandler),
		overlaps: make(map[ecs.EntityID]map[ecs.EntityID]bool),
	}
}

// RegisterTrigger 为触发体积注册进入/离开回调
func (ts *TriggerSystem) RegisterTrigger(volumeID ecs.EntityID, handler TriggerHandler) {
	ts.addVolume(volumeID)
	ts.triggers[volumeID] = handler
}

// RegisterContact 为实体体积注册接触回调
func (ts *TriggerSystem) RegisterContact(volumeID ecs.EntityID, handler ContactHandler) {
	ts.addVolume(volumeID)
	ts.contacts[volumeID] = handler
}

func (ts *TriggerSystem) addVolume(volumeID ecs.EntityID) {
	if _, ok := ts.overlaps[volumeID]; ok {
		return
	}
	ts.volumes = append(ts.volumes, volumeID)
	ts.overlaps[volumeID] = make(map[ecs.EntityID]bool)
}

// Update 检查重叠变化并派发事件
// 体积按注册顺序处理，刚体按ID升序处理，事件顺序稳定
func (ts *TriggerSystem) Update(deltaTime float64) {
	bodies := ecs.GetEntitiesWith2[*components.TransformComponent, *components.RigidBodyComponent](ts.em)

	for _, volumeID := range ts.volumes {
		current := ts.overlaps[volumeID]

		if !ts.em.EntityExists(volumeID) {
			continue
		}
		tr, ok := ecs.GetComponent[*components.TransformComponent](ts.em, volumeID)
		if !ok {
			continue
		}
		vol, ok := ecs.GetComponent[*components.VolumeComponent](ts.em, volumeID)
		if !ok {
			continue
		}

		// 清理已被销毁的实体
		for id := range current {
			if !ts.em.EntityExists(id) {
				delete(current, id)
			}
		}

		for _, bodyID := range bodies {
			if bodyID == volumeID || !ts.em.EntityExists(bodyID) {
				continue
			}
			bodyTr, _ := ecs.GetComponent[*components.TransformComponent](ts.em, bodyID)
			inside := vol.Contains(tr.Position, bodyTr.Position)

			switch {
			case inside && !current[bodyID]:
				current[bodyID] = true
				ts.dispatchBegin(volumeID, bodyID)
			case !inside && current[bodyID]:
				delete(current, bodyID)
				ts.dispatchEnd(volumeID, bodyID)
			}
		}
	}
}

func (ts *TriggerSystem) dispatchBegin(volumeID, other ecs.EntityID) {
	if handler, ok := ts.triggers[volumeID]; ok && handler != nil {
		handler.OnTriggerEnter(other)
	}
	if handler, ok := ts.contacts[volumeID]; ok && handler != nil {
		handler(other)
	}
}

func (ts *TriggerSystem) dispatchEnd(volumeID, other ecs.EntityID) {
	if handler, ok := ts.triggers[volumeID]; ok && handler != nil {
		handler.OnTriggerExit(other)
	}
}

// OverlapCount 返回当前与体积重叠的实体数量
func (ts *TriggerSystem) OverlapCount(volumeID ecs.EntityID) int {
	return len(ts.overlaps[volumeID])
}
