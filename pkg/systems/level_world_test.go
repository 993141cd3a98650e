package systems

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/decker502/marble/pkg/components"
	"github.com/decker502/marble/pkg/config"
	"github.com/decker502/marble/pkg/ecs"
	"github.com/decker502/marble/pkg/embedded"
	"github.com/decker502/marble/pkg/entities"
	"github.com/decker502/marble/pkg/types"
	"github.com/decker502/marble/pkg/utils"
)

const testWorldYAML = `
id: "w-1"
nextLevel: "w-2"
arena:
  tilt: [0, 0, -3]
  min: [-6, 0, -7.5]
  max: [6, 10, 8]
bowl:
  position: [0, 0.5, -6]
  size: [4, 1, 3]
  minBallsToWin: 10
  checkInterval: 1.0
spawner:
  origin: [0, 0, 4]
  ballAmount: 12
  ballPrototype: "marble"
  spawnRadius: 0
  spawnHeight: 1
  spawnInterval: 0.1
wallGroups:
  - name: "gates"
    walls:
      - name: "Gate Left"
        position: [-2, 0, -2]
        size: [2, 3, 0.5]
        startRaised: true
      - name: "Gate Right"
        position: [2, 0, -2]
        size: [2, 3, 0.5]
        startRaised: true
  - name: "spikes"
    walls:
      - name: "Spikes"
        variant: spiked
        position: [5, 0, 5]
        size: [2, 8, 2]
        startRaised: false
`

func newTestWorld(t *testing.T, yamlContent string) (*LevelWorld, *fakeLoader) {
	t.Helper()
	cfg, err := config.ParseLevelConfig([]byte(yamlContent), "inline")
	if err != nil {
		t.Fatalf("ParseLevelConfig() error: %v", err)
	}
	loader := &fakeLoader{}
	w, err := NewLevelWorld(cfg, rand.New(rand.NewSource(7)), loader)
	if err != nil {
		t.Fatalf("NewLevelWorld() error: %v", err)
	}
	return w, loader
}

func TestNewLevelWorldAssembly(t *testing.T) {
	w, _ := newTestWorld(t, testWorldYAML)

	if len(w.Walls) != 3 {
		t.Fatalf("墙体数量 = %d, expected 3", len(w.Walls))
	}
	if groups := w.WallGroups.Groups(); len(groups) != 2 || groups[0].Name != "gates" || groups[1].Name != "spikes" {
		t.Errorf("墙体分组不正确: %+v", groups)
	}
	if w.Spawner == nil {
		t.Fatal("配置了生成器时 Spawner 不应为 nil")
	}
	if w.Bowl.RequiredBallCount() != 10 {
		t.Errorf("RequiredBallCount = %d, expected 10", w.Bowl.RequiredBallCount())
	}
	if w.LevelManager.Progress() != types.GameProgressPreGame {
		t.Errorf("初始状态 = %s, expected PreGame", w.LevelManager.Progress())
	}
	if !w.Walls[0].IsRaised() {
		t.Error("普通墙 startRaised=true 应初始升起")
	}
	if !w.Walls[2].IsRaised() {
		t.Error("尖刺墙 startRaised=false 应初始升起")
	}
	if w.WallGroups.ControlsEnabled() {
		t.Error("PreGame 时墙体控制应禁用")
	}
}

func TestNewLevelWorldUnknownPrototype(t *testing.T) {
	w, _ := newTestWorld(t, `
id: "w-3"
spawner:
  ballPrototype: "glass"
`)
	w.LevelManager.StartGame()
	for i := 0; i < 30; i++ {
		w.Update(1.0 / 60.0)
	}

	if w.Spawner.SpawnedCount() != 0 {
		t.Errorf("未知原型不应生成弹珠, got %d", w.Spawner.SpawnedCount())
	}
	if w.LevelManager.Progress() != types.GameProgressPlaying || w.LevelManager.IsTimerRunning() {
		t.Error("生成失败时应停留在 Playing 且不计时")
	}
}

func TestLevelWorldPlaythrough(t *testing.T) {
	w, loader := newTestWorld(t, testWorldYAML)

	w.LevelManager.HandleStartCommand()
	if w.LevelManager.Progress() != types.GameProgressPlaying {
		t.Fatalf("开始后状态 = %s", w.LevelManager.Progress())
	}

	for i := 0; i < 600 && w.LevelManager.Progress() != types.GameProgressCompleted; i++ {
		w.Update(1.0 / 60.0)
	}

	if w.LevelManager.Progress() != types.GameProgressCompleted {
		t.Fatalf("10 秒内应完成关卡, 碗内 %d 颗", w.Bowl.CurrentBallCount())
	}
	if w.Spawner.SpawnedCount() != 12 {
		t.Errorf("SpawnedCount = %d, expected 12", w.Spawner.SpawnedCount())
	}
	if w.Bowl.CurrentBallCount() < 10 {
		t.Errorf("CurrentBallCount = %d, expected >= 10", w.Bowl.CurrentBallCount())
	}
	if w.LevelManager.IsTimerRunning() {
		t.Error("完成后计时器应停止")
	}
	if w.LevelManager.ElapsedTime() <= 0 {
		t.Error("计时应大于 0")
	}

	w.LevelManager.LoadNextLevel()
	if len(loader.loaded) != 1 || loader.loaded[0] != "w-2" {
		t.Errorf("下一关 = %v, expected [w-2]", loader.loaded)
	}
}

func TestLevelWorldSpikedWallDestroysBall(t *testing.T) {
	w, _ := newTestWorld(t, testWorldYAML)

	ball := newTestBall(w.EntityManager, "Ball 00", utils.Vec3{X: 5, Y: 0, Z: 5})
	w.Update(1.0 / 60.0)

	if w.EntityManager.EntityExists(ball) {
		t.Error("接触升起的尖刺墙后弹珠应被销毁")
	}
	if w.DestroyedBalls() != 1 {
		t.Errorf("DestroyedBalls = %d, expected 1", w.DestroyedBalls())
	}
}

func TestLevelWorldInputTogglesWalls(t *testing.T) {
	w, _ := newTestWorld(t, testWorldYAML)
	input := &fakeInput{}
	w.SetInput(input)

	input.toggle = true
	w.Update(1.0 / 60.0)
	if w.Walls[0].IsMoving() {
		t.Fatal("PreGame 时切换命令应被忽略")
	}

	input.toggle = false
	input.start = true
	w.Update(1.0 / 60.0)
	if w.LevelManager.Progress() != types.GameProgressPlaying {
		t.Fatalf("开始命令后状态 = %s", w.LevelManager.Progress())
	}

	input.start = false
	input.toggle = true
	w.Update(1.0 / 60.0)
	for _, wall := range w.Walls {
		if !wall.IsMoving() {
			t.Errorf("墙体 %d 应开始移动", wall.EntityID())
		}
	}
}

// loadShippedWorld 从 data/levels 加载随项目发布的关卡
func loadShippedWorld(t *testing.T, levelID string) *LevelWorld {
	t.Helper()
	embedded.Reset()
	cfg, err := config.LoadLevelConfig(filepath.Join("..", "..", config.LevelPath(levelID)))
	if err != nil {
		t.Fatalf("LoadLevelConfig(%s) error: %v", levelID, err)
	}
	w, err := NewLevelWorld(cfg, rand.New(rand.NewSource(1)), &fakeLoader{})
	if err != nil {
		t.Fatalf("NewLevelWorld(%s) error: %v", levelID, err)
	}
	return w
}

func spikedWalls(w *LevelWorld) []*WallController {
	result := make([]*WallController, 0)
	for _, wall := range w.Walls {
		if ecs.HasComponent[*components.SpikedWallComponent](w.EntityManager, wall.EntityID()) {
			result = append(result, wall)
		}
	}
	return result
}

// parkBall 在墙体的水平位置放一颗停在地面上的弹珠（运动学刚体，不会滚走）
func parkBall(w *LevelWorld, wall *WallController, name string) ecs.EntityID {
	pos := wall.Position()
	id := newTestBall(w.EntityManager, name, utils.Vec3{X: pos.X, Y: 0, Z: pos.Z})
	rb, _ := ecs.GetComponent[*components.RigidBodyComponent](w.EntityManager, id)
	rb.Kinematic = true
	return id
}

func TestShippedLevelSpikesRiseIntoBalls(t *testing.T) {
	w := loadShippedWorld(t, "1-2")
	spikes := spikedWalls(w)
	if len(spikes) != 2 {
		t.Fatalf("1-2 尖刺墙数量 = %d, expected 2", len(spikes))
	}

	balls := make([]ecs.EntityID, 0, len(spikes))
	for i, spike := range spikes {
		if spike.IsRaised() {
			t.Fatalf("尖刺墙 %d 开局应降下", i)
		}
		balls = append(balls, parkBall(w, spike, entities.BallName(i)))
	}

	w.Update(1.0 / 60.0)
	for i, spike := range spikes {
		if n := w.Triggers.OverlapCount(spike.EntityID()); n != 0 {
			t.Errorf("降下的尖刺墙 %d 不应接触地面上的弹珠, overlap=%d", i, n)
		}
	}
	if w.DestroyedBalls() != 0 {
		t.Fatalf("降下时不应销毁弹珠, got %d", w.DestroyedBalls())
	}

	w.WallGroups.ToggleAll()
	for i := 0; i < 120; i++ {
		w.Update(1.0 / 60.0)
	}

	for i, spike := range spikes {
		if !spike.IsRaised() || spike.IsMoving() {
			t.Errorf("尖刺墙 %d 应升起并停止, raised=%v moving=%v", i, spike.IsRaised(), spike.IsMoving())
		}
	}
	for i, ball := range balls {
		if w.EntityManager.EntityExists(ball) {
			t.Errorf("升起的尖刺墙 %d 应销毁停在上面的弹珠", i)
		}
	}
	if w.DestroyedBalls() != 2 {
		t.Errorf("DestroyedBalls = %d, expected 2", w.DestroyedBalls())
	}
}

func TestShippedLevelRaisedSpikeDestroysRollingBall(t *testing.T) {
	w := loadShippedWorld(t, "1-3")
	spikes := spikedWalls(w)
	if len(spikes) != 1 || !spikes[0].IsRaised() {
		t.Fatalf("1-3 应有一面开局升起的尖刺墙")
	}

	pos := spikes[0].Position()
	ball := newTestBall(w.EntityManager, "Ball 00", utils.Vec3{X: pos.X, Y: 0, Z: pos.Z})
	w.Update(1.0 / 60.0)

	if w.EntityManager.EntityExists(ball) {
		t.Error("滚到升起的尖刺墙上的弹珠应被销毁")
	}
	if w.DestroyedBalls() != 1 {
		t.Errorf("DestroyedBalls = %d, expected 1", w.DestroyedBalls())
	}
}
