package systems

import (
	"log"
	"math/rand"

	"github.com/decker502/marble/pkg/components"
	"github.com/decker502/marble/pkg/config"
	"github.com/decker502/marble/pkg/ecs"
	"github.com/decker502/marble/pkg/entities"
	"github.com/decker502/marble/pkg/event"
	"github.com/decker502/marble/pkg/utils"
)

// spawnTaskName 生成任务在调度器里的名称
const spawnTaskName = "ball-spawn"

// BallSpawnerSystem 弹珠生成系统
//
// 职责：
//   - StartSpawn 取消正在进行的生成流程，销毁上一批弹珠
//   - 以协作式任务逐个生成弹珠，两颗之间等待 SpawnInterval
//   - 全部生成完成后触发一次 OnSpawningCompleted
//
// 被取消的流程不会触发完成通知
type BallSpawnerSystem struct {
	entityManager *ecs.EntityManager
	scheduler     *TaskScheduler
	config        *config.SpawnerConfig
	prototype     *entities.BallPrototype
	rng           *rand.Rand

	spawnedBalls []ecs.EntityID
	task         *Task

	// OnBallSpawned 每生成一颗弹珠触发一次
	OnBallSpawned event.Signal[ecs.EntityID]
	// OnSpawningCompleted 整批生成完成时触发
	OnSpawningCompleted event.Notifier
}

// NewBallSpawnerSystem 创建弹珠生成系统
//
// 参数:
//   - em: EntityManager 实例
//   - scheduler: 驱动生成任务的调度器
//   - cfg: 生成器配置（可为 nil，此时 StartSpawn 报错中止）
//   - proto: 弹珠原型（可为 nil，同上）
//   - rng: 随机源，传入固定种子即可复现生成结果
func NewBallSpawnerSystem(em *ecs.EntityManager, scheduler *TaskScheduler, cfg *config.SpawnerConfig, proto *entities.BallPrototype, rng *rand.Rand) *BallSpawnerSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &BallSpawnerSystem{
		entityManager: em,
		scheduler:     scheduler,
		config:        cfg,
		prototype:     proto,
		rng:           rng,
		spawnedBalls:  make([]ecs.EntityID, 0),
	}
}

// StartSpawn 开始（或重新开始）一轮生成
func (s *BallSpawnerSystem) StartSpawn() {
	if s.task != nil {
		s.task.Cancel()
		s.task = nil
	}

	var task *Task
	index := 0
	started := false
	step := func() (float64, bool) {
		if !started {
			started = true
			s.clearBatch()

			if s.config == nil || s.prototype == nil {
				log.Printf("[BallSpawnerSystem] Error while spawning balls: null config, no ball to spawn")
				return 0, true
			}
			log.Printf("[BallSpawnerSystem] Spawning %d balls (prototype=%s)", s.config.BallAmount, s.prototype.ID)
		}

		if index >= s.config.BallAmount {
			// 最后一颗之后的等待已经结束
			if task == nil || task == s.task {
				s.task = nil
				log.Printf("[BallSpawnerSystem] Spawning completed: %d balls", len(s.spawnedBalls))
				event.Fire(&s.OnSpawningCompleted)
			}
			return 0, true
		}

		s.spawnBall(index)
		index++
		return s.config.SpawnInterval, false
	}

	task = s.scheduler.Start(spawnTaskName, step)
	if task.IsRunning() {
		s.task = task
	}
}

// clearBatch 销毁上一批仍然存在的弹珠
// 已被外部销毁（例如被尖刺墙）的实体直接跳过
func (s *BallSpawnerSystem) clearBatch() {
	for _, id := range s.spawnedBalls {
		if s.entityManager.EntityExists(id) {
			s.entityManager.DestroyEntity(id)
		}
	}
	s.spawnedBalls = s.spawnedBalls[:0]
}

// spawnBall 生成第 index 颗弹珠
func (s *BallSpawnerSystem) spawnBall(index int) {
	cfg := s.config

	x, z := utils.RandomInsideUnitCircle(s.rng)
	position := cfg.Origin.Vec3().Add(utils.Vec3{
		X: x * cfg.SpawnRadius,
		Y: cfg.SpawnHeight,
		Z: z * cfg.SpawnRadius,
	})
	rotation := utils.RandomRotation(s.rng)

	// 配置的缩放区间优先于原型自带的区间
	proto := *s.prototype
	if cfg.MinScale > 0 && cfg.MaxScale >= cfg.MinScale {
		proto.MinScale = cfg.MinScale
		proto.MaxScale = cfg.MaxScale
	}

	id := entities.NewBallEntity(s.entityManager, &proto, s.rng, index, position, rotation)

	if len(cfg.BallMaterials) > 0 {
		material := cfg.BallMaterials[s.rng.Intn(len(cfg.BallMaterials))]
		if appearance, ok := ecs.GetComponent[*components.AppearanceComponent](s.entityManager, id); ok {
			appearance.Material = material
		}
	}

	if cfg.ApplyInitialForce {
		if rb, ok := ecs.GetComponent[*components.RigidBodyComponent](s.entityManager, id); ok {
			direction := utils.Vec3{
				X: utils.RandomRange(s.rng, -1, 1),
				Y: utils.RandomRange(s.rng, -0.2, 0.2),
				Z: utils.RandomRange(s.rng, -1, 1),
			}.Normalized()
			magnitude := utils.RandomRange(s.rng, cfg.RandomForceMin, cfg.RandomForceMax)
			rb.AddImpulse(direction.Scale(magnitude))
		}
	}

	s.spawnedBalls = append(s.spawnedBalls, id)
	s.OnBallSpawned.Emit(id)
}

// SpawnedBalls 返回当前批次里仍然存在的弹珠
func (s *BallSpawnerSystem) SpawnedBalls() []ecs.EntityID {
	alive := make([]ecs.EntityID, 0, len(s.spawnedBalls))
	for _, id := range s.spawnedBalls {
		if s.entityManager.EntityExists(id) {
			alive = append(alive, id)
		}
	}
	return alive
}

// SpawnedCount 当前批次里仍然存在的弹珠数量
func (s *BallSpawnerSystem) SpawnedCount() int {
	return len(s.SpawnedBalls())
}

// IsSpawning 是否有生成流程正在进行
func (s *BallSpawnerSystem) IsSpawning() bool {
	return s.task.IsRunning()
}
