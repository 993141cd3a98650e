package game

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	levelID      string
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
}

// Update records that Update was called and stores the deltaTime.
func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

// Draw records that Draw was called.
func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

// newMockFactory 返回记录创建顺序的场景工厂
func newMockFactory(created *[]string) SceneFactory {
	return func(levelID string) (Scene, error) {
		if levelID == "broken" {
			return nil, errors.New("level config not found")
		}
		*created = append(*created, levelID)
		return &MockScene{levelID: levelID}, nil
	}
}

// TestNewSceneManager verifies that NewSceneManager creates a valid instance.
func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm.GetCurrentScene() != nil {
		t.Error("Expected currentScene to be nil initially")
	}
	if sm.CurrentLevelID() != "" {
		t.Error("Expected no level initially")
	}
}

// TestSceneManagerUpdateAndDraw verifies Update/Draw are forwarded to the current scene.
func TestSceneManagerUpdateAndDraw(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	sm.Update(0.016)
	sm.Draw(nil)

	if !mockScene.updateCalled || mockScene.deltaTime != 0.016 {
		t.Errorf("Update not forwarded correctly: %+v", mockScene)
	}
	if !mockScene.drawCalled {
		t.Error("Scene's Draw method was not called")
	}
}

// TestSceneManagerNoScene verifies nil scene is handled gracefully.
func TestSceneManagerNoScene(t *testing.T) {
	sm := NewSceneManager()
	sm.Update(0.016)
	sm.Draw(nil)
}

func TestSceneManagerLoadLevelIsDeferred(t *testing.T) {
	var created []string
	sm := NewSceneManager()
	sm.SetSceneFactory(newMockFactory(&created))

	if !sm.LoadLevelNow("1-1") {
		t.Fatal("LoadLevelNow(1-1) failed")
	}
	first := sm.GetCurrentScene()

	sm.LoadLevel("1-2")
	if sm.GetCurrentScene() != first {
		t.Error("LoadLevel 应延迟到下一次 Update")
	}

	sm.Update(0.016)
	current, ok := sm.GetCurrentScene().(*MockScene)
	if !ok || current.levelID != "1-2" {
		t.Fatalf("Update 后应切换到 1-2, got %+v", sm.GetCurrentScene())
	}
	if !current.updateCalled {
		t.Error("新场景应在同一次 Update 中被更新")
	}
	if sm.CurrentLevelID() != "1-2" {
		t.Errorf("CurrentLevelID = %q", sm.CurrentLevelID())
	}
}

func TestSceneManagerReloadLevel(t *testing.T) {
	var created []string
	var loaded []string
	sm := NewSceneManager()
	sm.SetSceneFactory(newMockFactory(&created))
	sm.SetOnLevelLoaded(func(levelID string) { loaded = append(loaded, levelID) })

	// 没有关卡时重载为空操作
	sm.ReloadLevel()
	sm.Update(0.016)
	if len(created) != 0 {
		t.Fatalf("没有关卡时不应创建场景: %v", created)
	}

	sm.LoadLevelNow("1-3")
	old := sm.GetCurrentScene()
	sm.ReloadLevel()
	sm.Update(0.016)

	if sm.GetCurrentScene() == old {
		t.Error("重载应创建新的场景实例")
	}
	expected := []string{"1-3", "1-3"}
	if !reflect.DeepEqual(created, expected) || !reflect.DeepEqual(loaded, expected) {
		t.Errorf("created=%v loaded=%v, expected %v", created, loaded, expected)
	}
}

func TestSceneManagerLoadFailureKeepsScene(t *testing.T) {
	var created []string
	sm := NewSceneManager()

	if sm.LoadLevelNow("1-1") {
		t.Error("未设置工厂时应失败")
	}

	sm.SetSceneFactory(newMockFactory(&created))
	sm.LoadLevelNow("1-1")
	old := sm.GetCurrentScene()

	sm.LoadLevel("broken")
	sm.Update(0.016)
	if sm.GetCurrentScene() != old || sm.CurrentLevelID() != "1-1" {
		t.Error("创建失败时应保留原场景")
	}
}
