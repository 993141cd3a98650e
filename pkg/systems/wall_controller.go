package systems

import (
	"fmt"
	"log"

	"github.com/decker502/marble/pkg/components"
	"github.com/decker502/marble/pkg/ecs"
	"github.com/decker502/marble/pkg/event"
	"github.com/decker502/marble/pkg/utils"
)

// ArrivalEpsilon 到达判定距离：小于此距离时直接吸附到目标位置
const ArrivalEpsilon = 0.01

// WallBehavior 墙体变体行为（策略）
//
// 所有墙共用同一个升降状态机（WallController），
// 变体之间的差异只通过这三个钩子表达
type WallBehavior interface {
	// InitialRaised 根据配置的 startRaised 决定实际初始状态
	InitialRaised(startRaised bool) bool
	// OnStateApplied 构造时以及每次位置更新时调用
	OnStateApplied(raised bool)
	// OnContact 有实体与墙体接触时调用，raised 为墙体当前状态
	OnContact(raised bool, other ecs.EntityID)
}

// WallController 墙体升降状态机
//
// 状态：
//   - Lowered / Raised（静止）
//   - Transitioning→Raised / Transitioning→Lowered（Moving=true）
//
// 规则：
//   - 移动中的 Toggle 被忽略（同一时间最多一个待完成的目标）
//   - Raised 在切换被接受时立即翻转，移动只是可见的插值
//   - Update 每个模拟步调用一次；距离目标小于 ArrivalEpsilon 时吸附并结束移动
type WallController struct {
	entityManager *ecs.EntityManager
	entityID      ecs.EntityID
	wall          *components.WallComponent
	behavior      WallBehavior

	// OnStartMoving 切换被接受、开始移动时触发
	OnStartMoving event.Notifier
	// OnReachedTarget 到达目标位置时触发
	OnReachedTarget event.Notifier
}

// NewWallController 为墙体实体创建升降控制器
//
// 构造时：
//   - 记录降下/升起两个端点位置（以当前位置为降下位置）
//   - 由 behavior 决定初始升降状态，并把墙体直接放到对应端点
//   - 调用一次 behavior.OnStateApplied
func NewWallController(em *ecs.EntityManager, entityID ecs.EntityID, behavior WallBehavior) (*WallController, error) {
	wall, ok := ecs.GetComponent[*components.WallComponent](em, entityID)
	if !ok {
		return nil, fmt.Errorf("entity %d has no WallComponent", entityID)
	}
	if behavior == nil {
		return nil, fmt.Errorf("entity %d: wall behavior is required", entityID)
	}

	c := &WallController{
		entityManager: em,
		entityID:      entityID,
		wall:          wall,
		behavior:      behavior,
	}

	wall.LoweredPosition = wall.Position
	wall.RaisedPosition = wall.Position.Add(utils.Up.Scale(wall.RaisedHeight))

	wall.Raised = behavior.InitialRaised(wall.StartRaised)
	wall.Target = c.endpoint(wall.Raised)
	wall.Position = wall.Target
	wall.Moving = false
	c.syncTransform()

	behavior.OnStateApplied(wall.Raised)

	return c, nil
}

// endpoint 返回升起/降下对应的端点位置
func (c *WallController) endpoint(raised bool) utils.Vec3 {
	if raised {
		return c.wall.RaisedPosition
	}
	return c.wall.LoweredPosition
}

// Toggle 切换升降状态
// 移动中调用无效，返回 false；切换被接受时返回 true
func (c *WallController) Toggle() bool {
	if c.wall.Moving {
		return false
	}

	c.wall.Raised = !c.wall.Raised
	c.wall.Target = c.endpoint(c.wall.Raised)
	c.wall.Moving = true

	event.Fire(&c.OnStartMoving)
	return true
}

// Raise 升起墙体（已升起或正在移动时无效）
func (c *WallController) Raise() bool {
	if !c.wall.Raised && !c.wall.Moving {
		return c.Toggle()
	}
	return false
}

// Lower 降下墙体（已降下或正在移动时无效）
func (c *WallController) Lower() bool {
	if c.wall.Raised && !c.wall.Moving {
		return c.Toggle()
	}
	return false
}

// Update 每个模拟步推进墙体位置
// 未在移动时什么也不做，因此重复调用是安全的
func (c *WallController) Update(deltaTime float64) {
	if !c.wall.Moving {
		return
	}

	c.wall.Position = utils.MoveTowards(c.wall.Position, c.wall.Target, c.wall.MovementSpeed*deltaTime)

	arrived := false
	if utils.Distance(c.wall.Position, c.wall.Target) < ArrivalEpsilon {
		c.wall.Position = c.wall.Target
		c.wall.Moving = false
		arrived = true
	}
	c.syncTransform()

	c.behavior.OnStateApplied(c.wall.Raised)

	if arrived {
		event.Fire(&c.OnReachedTarget)
	}
}

// HandleContact 物理驱动报告有实体接触墙体
func (c *WallController) HandleContact(other ecs.EntityID) {
	if other == c.entityID {
		return
	}
	c.behavior.OnContact(c.wall.Raised, other)
}

// syncTransform 把墙体位置同步到 TransformComponent（供渲染和触发检测使用）
func (c *WallController) syncTransform() {
	if tr, ok := ecs.GetComponent[*components.TransformComponent](c.entityManager, c.entityID); ok {
		tr.Position = c.wall.Position
	}
}

// IsRaised 墙体是否处于（或正在前往）升起状态
func (c *WallController) IsRaised() bool {
	return c.wall.Raised
}

// IsMoving 墙体是否正在移动
func (c *WallController) IsMoving() bool {
	return c.wall.Moving
}

// Position 墙体当前位置
func (c *WallController) Position() utils.Vec3 {
	return c.wall.Position
}

// EntityID 墙体实体ID
func (c *WallController) EntityID() ecs.EntityID {
	return c.entityID
}

// Behavior 返回墙体行为（用于订阅变体特有的通知）
func (c *WallController) Behavior() WallBehavior {
	return c.behavior
}

// BuildWallController 按墙体实体上的组件选择行为并创建控制器
//
// 返回：
//   - *WallController: 控制器
//   - *SpikedWallBehavior: 尖刺墙行为（普通墙为 nil），用于订阅销毁通知
func BuildWallController(em *ecs.EntityManager, entityID ecs.EntityID) (*WallController, *SpikedWallBehavior, error) {
	wall, ok := ecs.GetComponent[*components.WallComponent](em, entityID)
	if !ok {
		return nil, nil, fmt.Errorf("entity %d has no WallComponent", entityID)
	}

	switch wall.Variant {
	case components.WallVariantSpiked:
		spiked := NewSpikedWallBehavior(em, entityID)
		c, err := NewWallController(em, entityID, spiked)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[WallController] Spiked wall %d ready (raised=%v)", entityID, c.IsRaised())
		return c, spiked, nil
	default:
		c, err := NewWallController(em, entityID, NewNormalWallBehavior(em, entityID))
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[WallController] Normal wall %d ready (raised=%v)", entityID, c.IsRaised())
		return c, nil, nil
	}
}
