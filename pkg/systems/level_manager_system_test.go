package systems

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/decker502/marble/pkg/config"
	"github.com/decker502/marble/pkg/ecs"
	"github.com/decker502/marble/pkg/types"
	"github.com/decker502/marble/pkg/utils"
)

func TestLevelManagerInitialState(t *testing.T) {
	em := ecs.NewEntityManager()
	walls := NewWallGroupManager()
	m := NewLevelManagerSystem("1-1", NewBowlSystem(em, 10, 1), nil, walls, nil)

	if m.Progress() != types.GameProgressPreGame {
		t.Errorf("初始状态 = %s, expected PreGame", m.Progress())
	}
	if !m.StartScreenVisible() || m.GameUIVisible() || m.WinScreenVisible() {
		t.Error("PreGame 只应显示开始界面")
	}
	if walls.ControlsEnabled() {
		t.Error("PreGame 时墙体控制应禁用")
	}
	if m.IsTimerRunning() {
		t.Error("PreGame 时计时器不应运行")
	}
}

func TestLevelManagerTenBallsScenario(t *testing.T) {
	em := ecs.NewEntityManager()
	bowl := NewBowlSystem(em, 10, 1.0)
	walls := NewWallGroupManager()
	recorder := &fakeRecorder{}
	m := NewLevelManagerSystem("1-1", bowl, nil, walls, nil)
	m.SetProgressRecorder(recorder)

	var states []types.GameProgress
	m.OnStateChanged.Subscribe(func(p types.GameProgress) { states = append(states, p) })

	m.HandleStartCommand()
	if m.Progress() != types.GameProgressPlaying {
		t.Fatalf("开始后状态 = %s", m.Progress())
	}
	if !m.IsTimerRunning() {
		t.Fatal("没有生成器时应立即开始计时")
	}
	if !walls.ControlsEnabled() || !m.GameUIVisible() {
		t.Error("Playing 时应启用墙体控制并显示游戏界面")
	}

	step := func(seconds float64) {
		frames := int(seconds * 60)
		for i := 0; i < frames; i++ {
			bowl.Update(1.0 / 60.0)
			m.Update(1.0 / 60.0)
		}
	}

	for i := 0; i < 10; i++ {
		bowl.OnTriggerEnter(newTestBall(em, "Ball", utils.Vec3{}))
		step(1.0)
		if i < 9 && m.Progress() != types.GameProgressPlaying {
			t.Fatalf("第 %d 颗之后不应完成", i+1)
		}
	}

	if m.Progress() != types.GameProgressCompleted {
		t.Fatalf("第 10 颗之后的周期检查应进入 Completed, got %s", m.Progress())
	}
	if m.IsTimerRunning() {
		t.Error("完成后计时器应停止")
	}
	if walls.ControlsEnabled() {
		t.Error("Completed 时墙体控制应禁用")
	}
	if !m.WinScreenVisible() || m.GameUIVisible() {
		t.Error("Completed 时只应显示胜利界面")
	}

	frozen := m.ElapsedTime()
	step(2.0)
	if m.ElapsedTime() != frozen {
		t.Errorf("停止后计时不应继续: %.3f -> %.3f", frozen, m.ElapsedTime())
	}

	expected := []types.GameProgress{types.GameProgressPlaying, types.GameProgressCompleted}
	if !reflect.DeepEqual(states, expected) {
		t.Errorf("状态变化 = %v, expected %v", states, expected)
	}
	if len(recorder.levels) != 1 || recorder.levels[0] != "1-1" {
		t.Errorf("完成记录 = %v", recorder.levels)
	}
}

func TestLevelManagerTimerStartsAfterSpawning(t *testing.T) {
	em := ecs.NewEntityManager()
	spawner, scheduler := newTestSpawner(em, testSpawnerConfig(3), 1)
	m := NewLevelManagerSystem("1-1", NewBowlSystem(em, 10, 1), spawner, nil, nil)

	m.StartGame()
	if m.IsTimerRunning() {
		t.Fatal("生成期间计时器不应运行")
	}

	for i := 0; i < 2; i++ {
		scheduler.Update(0.1)
		m.Update(0.1)
	}
	if m.IsTimerRunning() {
		t.Fatal("最后一颗之后的等待结束前不应开始计时")
	}

	scheduler.Update(0.1)
	if !m.IsTimerRunning() {
		t.Fatal("生成完成后应开始计时")
	}
	if m.ElapsedTime() != 0 {
		t.Errorf("计时应从 0 开始, got %.3f", m.ElapsedTime())
	}

	m.Update(0.5)
	if m.ElapsedTime() != 0.5 {
		t.Errorf("ElapsedTime = %.3f, expected 0.5", m.ElapsedTime())
	}
}

func TestLevelManagerWinBeforeTimerStarts(t *testing.T) {
	em := ecs.NewEntityManager()
	spawner, scheduler := newTestSpawner(em, testSpawnerConfig(5), 1)
	bowl := NewBowlSystem(em, 1, 0)
	recorder := &fakeRecorder{}
	m := NewLevelManagerSystem("1-1", bowl, spawner, nil, nil)
	m.SetProgressRecorder(recorder)

	m.StartGame()
	scheduler.Update(0.1)
	if m.IsTimerRunning() {
		t.Fatal("生成期间计时器不应运行")
	}

	bowl.OnTriggerEnter(spawner.SpawnedBalls()[0])
	bowl.Update(0.1)

	if m.Progress() != types.GameProgressCompleted {
		t.Fatalf("状态 = %s, expected Completed", m.Progress())
	}
	if len(recorder.times) != 1 || recorder.times[0] != UntimedCompletion {
		t.Errorf("未计时的胜利应上报 UntimedCompletion, got %v", recorder.times)
	}

	scheduler.Update(1.0)
	if m.IsTimerRunning() {
		t.Error("完成后生成结束不应再开始计时")
	}
}

func TestLevelManagerSpawnerMissingConfigStaysPlaying(t *testing.T) {
	em := ecs.NewEntityManager()
	scheduler := NewTaskScheduler()
	spawner := NewBallSpawnerSystem(em, scheduler, nil, nil, rand.New(rand.NewSource(1)))
	m := NewLevelManagerSystem("1-1", NewBowlSystem(em, 10, 1), spawner, nil, nil)

	m.StartGame()
	for i := 0; i < 10; i++ {
		scheduler.Update(0.1)
		m.Update(0.1)
	}

	if m.Progress() != types.GameProgressPlaying {
		t.Errorf("状态 = %s, expected Playing", m.Progress())
	}
	if m.IsTimerRunning() {
		t.Error("生成失败时不应开始计时")
	}
}

func TestLevelManagerStartCommand(t *testing.T) {
	em := ecs.NewEntityManager()
	bowl := NewBowlSystem(em, 0, 0)
	loader := &fakeLoader{}
	m := NewLevelManagerSystem("1-2", bowl, nil, nil, loader)

	m.HandleStartCommand()
	m.HandleStartCommand() // Playing 时忽略
	if m.Progress() != types.GameProgressPlaying || loader.reloads != 0 {
		t.Fatalf("Playing 时开始命令应被忽略: %s reloads=%d", m.Progress(), loader.reloads)
	}

	bowl.CheckWinCondition()
	if m.Progress() != types.GameProgressCompleted {
		t.Fatalf("状态 = %s, expected Completed", m.Progress())
	}

	m.HandleStartCommand()
	if loader.reloads != 1 {
		t.Errorf("Completed 时开始命令应重载关卡, reloads=%d", loader.reloads)
	}
}

func TestLevelManagerLoadNextLevel(t *testing.T) {
	levels := &config.LevelList{Levels: []string{"1-1", "1-2", "1-3"}}

	tests := []struct {
		name    string
		current string
		want    string
	}{
		{"中间关卡", "1-1", "1-2"},
		{"最后一关回到第一关", "1-3", "1-1"},
		{"未知关卡回到第一关", "9-9", "1-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			loader := &fakeLoader{}
			m := NewLevelManagerSystem(tt.current, NewBowlSystem(em, 1, 1), nil, nil, loader)
			m.SetLevelList(levels)

			m.LoadNextLevel()
			if len(loader.loaded) != 1 || loader.loaded[0] != tt.want {
				t.Errorf("loaded = %v, expected [%s]", loader.loaded, tt.want)
			}
		})
	}
}

func TestLevelManagerLoadNextLevelWithoutList(t *testing.T) {
	em := ecs.NewEntityManager()
	loader := &fakeLoader{}
	m := NewLevelManagerSystem("1-1", NewBowlSystem(em, 1, 1), nil, nil, loader)

	m.LoadNextLevel()
	if loader.reloads != 1 || len(loader.loaded) != 0 {
		t.Errorf("没有关卡列表时应重载当前关卡: reloads=%d loaded=%v", loader.reloads, loader.loaded)
	}
}

func TestFormatTimer(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "Time: 00:00"},
		{5.9, "Time: 00:05"},
		{65, "Time: 01:05"},
		{3600, "Time: 60:00"},
		{-3, "Time: 00:00"},
	}

	for _, tt := range tests {
		if got := FormatTimer(tt.seconds); got != tt.want {
			t.Errorf("FormatTimer(%.1f) = %q, expected %q", tt.seconds, got, tt.want)
		}
	}
}

func TestBallsText(t *testing.T) {
	if got := BallsText(3, 10); got != "Balls: 3/10" {
		t.Errorf("BallsText = %q", got)
	}
}

func TestLevelManagerExplicitNextLevel(t *testing.T) {
	em := ecs.NewEntityManager()
	loader := &fakeLoader{}
	m := NewLevelManagerSystem("1-1", NewBowlSystem(em, 1, 1), nil, nil, loader)
	m.SetLevelList(&config.LevelList{Levels: []string{"1-1", "1-2", "1-3"}})
	m.SetNextLevel("1-3")

	m.LoadNextLevel()
	if len(loader.loaded) != 1 || loader.loaded[0] != "1-3" {
		t.Errorf("loaded = %v, expected [1-3]", loader.loaded)
	}
}
