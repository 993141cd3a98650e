package systems

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/decker502/marble/pkg/config"
	"github.com/decker502/marble/pkg/ecs"
	"github.com/decker502/marble/pkg/entities"
)

// LevelWorld 一个关卡的全部运行时状态
//
// 根据 LevelConfig 创建实体并把各系统连接起来：
//   - 碗实体 → TriggerSystem → BowlSystem
//   - 墙体实体 → WallController（按变体选择行为）→ WallGroupManager
//   - 墙体接触 → TriggerSystem → WallController.HandleContact
//   - BallSpawnerSystem / BowlSystem → LevelManagerSystem
//
// 每帧更新顺序固定，见 Update
type LevelWorld struct {
	Config *config.LevelConfig

	EntityManager *ecs.EntityManager
	Scheduler     *TaskScheduler
	Physics       *PhysicsSystem
	Triggers      *TriggerSystem
	Walls         []*WallController
	WallGroups    *WallGroupManager
	Spawner       *BallSpawnerSystem
	Bowl          *BowlSystem
	LevelManager  *LevelManagerSystem
	Input         *InputSystem

	BowlEntity ecs.EntityID

	destroyedBalls int
}

// NewLevelWorld 根据关卡配置创建关卡世界
//
// 参数:
//   - cfg: 已通过校验的关卡配置
//   - rng: 随机源（生成器使用）
//   - loader: 场景重载（重新开始、下一关）
//
// 返回:
//   - *LevelWorld: 关卡世界
//   - error: 墙体组件缺失等无法恢复的错误
func NewLevelWorld(cfg *config.LevelConfig, rng *rand.Rand, loader LevelLoader) (*LevelWorld, error) {
	if cfg == nil {
		return nil, fmt.Errorf("level config is required")
	}

	em := ecs.NewEntityManager()
	w := &LevelWorld{
		Config:        cfg,
		EntityManager: em,
		Scheduler:     NewTaskScheduler(),
		Physics:       NewPhysicsSystem(em),
		Triggers:      NewTriggerSystem(em),
		WallGroups:    NewWallGroupManager(),
		Walls:         make([]*WallController, 0),
	}

	w.Physics.Tilt = cfg.Arena.Tilt.Vec3()
	if cfg.Arena.Bounded() {
		w.Physics.SetBounds(cfg.Arena.Min.Vec3(), cfg.Arena.Max.Vec3())
	}

	// 碗
	w.BowlEntity = entities.NewBowlEntity(em, cfg.Bowl)
	w.Bowl = NewBowlSystem(em, cfg.Bowl.MinBallsToWin, cfg.Bowl.CheckInterval)
	w.Triggers.RegisterTrigger(w.BowlEntity, w.Bowl)

	// 墙体
	for _, groupCfg := range cfg.WallGroups {
		handles := make([]WallHandle, 0, len(groupCfg.Walls))
		for _, wallCfg := range groupCfg.Walls {
			id := entities.NewWallEntity(em, wallCfg)
			controller, spiked, err := BuildWallController(em, id)
			if err != nil {
				return nil, fmt.Errorf("wall group %q: %w", groupCfg.Name, err)
			}
			if spiked != nil {
				spiked.OnBallDestroyed.Subscribe(func(ecs.EntityID) {
					w.destroyedBalls++
				})
			}
			w.Triggers.RegisterContact(id, controller.HandleContact)
			w.Walls = append(w.Walls, controller)
			handles = append(handles, controller)
		}
		w.WallGroups.AddGroup(groupCfg.Name, handles...)
	}

	// 生成器
	if cfg.Spawner != nil {
		proto, ok := entities.LookupBallPrototype(cfg.Spawner.BallPrototype)
		if !ok {
			// 保持 nil：开始游戏时生成器会报错中止，游戏停留在 Playing
			log.Printf("[LevelWorld] Warning: unknown ball prototype %q", cfg.Spawner.BallPrototype)
			proto = nil
		}
		w.Spawner = NewBallSpawnerSystem(em, w.Scheduler, cfg.Spawner, proto, rng)
	}

	w.LevelManager = NewLevelManagerSystem(cfg.ID, w.Bowl, w.Spawner, w.WallGroups, loader)
	w.LevelManager.SetNextLevel(cfg.NextLevel)

	log.Printf("[LevelWorld] Level %s ready: %d walls in %d groups, need %d balls",
		cfg.ID, len(w.Walls), len(cfg.WallGroups), cfg.Bowl.MinBallsToWin)

	return w, nil
}

// SetInput 设置输入源
func (w *LevelWorld) SetInput(source InputSource) {
	w.Input = NewInputSystem(source, w.LevelManager, w.WallGroups)
}

// Update 推进一个模拟步
//
// 顺序：输入 → 任务调度（生成）→ 物理 → 触发检测 → 墙体运动 → 碗检查 → 关卡计时 → 清理销毁的实体
func (w *LevelWorld) Update(deltaTime float64) {
	if w.Input != nil {
		w.Input.Update(deltaTime)
	}
	w.Scheduler.Update(deltaTime)
	w.Physics.Update(deltaTime)
	w.Triggers.Update(deltaTime)
	for _, wall := range w.Walls {
		wall.Update(deltaTime)
	}
	w.Bowl.Update(deltaTime)
	w.LevelManager.Update(deltaTime)
	w.EntityManager.RemoveMarkedEntities()
}

// DestroyedBalls 被尖刺墙销毁的弹珠数量
func (w *LevelWorld) DestroyedBalls() int {
	return w.destroyedBalls
}
