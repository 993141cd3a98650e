package systems

import (
	"github.com/decker502/marble/pkg/components"
	"github.com/decker502/marble/pkg/config"
	"github.com/decker502/marble/pkg/ecs"
	"github.com/decker502/marble/pkg/entities"
	"github.com/decker502/marble/pkg/utils"
)

// newTestBall 创建测试用的弹珠实体（BallComponent + 动态刚体）
// 这是一个测试辅助函数，被多个测试文件共享使用
func newTestBall(em *ecs.EntityManager, name string, pos utils.Vec3) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TransformComponent{Position: pos, Rotation: utils.IdentityQuat})
	ecs.AddComponent(em, id, &components.BallComponent{Scale: 1})
	ecs.AddComponent(em, id, &components.NameComponent{Name: name})
	ecs.AddComponent(em, id, &components.RigidBodyComponent{Mass: 1, UseGravity: true})
	return id
}

// newTestWallConfig 返回测试用的墙体配置
func newTestWallConfig(variant string, startRaised bool) config.WallConfig {
	return config.WallConfig{
		Name:            "Test Wall",
		Variant:         variant,
		Position:        config.Vector{0, 0, 0},
		Size:            config.Vector{2, 2, 2},
		RaisedHeight:    3,
		MovementSpeed:   5,
		StartRaised:     startRaised,
		RaisedMaterial:  "wall_raised",
		LoweredMaterial: "wall_lowered",
	}
}

// newTestWall 创建墙体实体并构建控制器
func newTestWall(em *ecs.EntityManager, variant string, startRaised bool) (*WallController, *SpikedWallBehavior) {
	id := entities.NewWallEntity(em, newTestWallConfig(variant, startRaised))
	c, spiked, err := BuildWallController(em, id)
	if err != nil {
		panic(err)
	}
	return c, spiked
}

// runUntilStopped 以固定步长推进墙体直到停止移动，返回步数
// 超过 maxSteps 仍未停止时返回 -1
func runUntilStopped(c *WallController, dt float64, maxSteps int) int {
	for i := 1; i <= maxSteps; i++ {
		c.Update(dt)
		if !c.IsMoving() {
			return i
		}
	}
	return -1
}

// fakeWall 记录 Toggle 调用的假墙体
type fakeWall struct {
	moving  bool
	toggles int
}

func (w *fakeWall) Toggle() bool {
	w.toggles++
	return !w.moving
}

func (w *fakeWall) IsMoving() bool {
	return w.moving
}

// fakeLoader 记录重载请求
type fakeLoader struct {
	reloads int
	loaded  []string
}

func (l *fakeLoader) ReloadLevel() {
	l.reloads++
}

func (l *fakeLoader) LoadLevel(levelID string) {
	l.loaded = append(l.loaded, levelID)
}

// fakeRecorder 记录关卡完成
type fakeRecorder struct {
	levels []string
	times  []float64
}

func (r *fakeRecorder) RecordCompletion(levelID string, seconds float64) error {
	r.levels = append(r.levels, levelID)
	r.times = append(r.times, seconds)
	return nil
}

// fakeInput 可编程的输入源
type fakeInput struct {
	start, toggle, next bool
}

func (f *fakeInput) IsStartPressed() bool     { return f.start }
func (f *fakeInput) IsTogglePressed() bool    { return f.toggle }
func (f *fakeInput) IsNextLevelPressed() bool { return f.next }
