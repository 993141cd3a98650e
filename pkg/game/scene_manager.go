package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 用于创建指定ID的关卡场景，避免循环依赖
type SceneFactory func(levelID string) (Scene, error)

// SceneManager manages the game's high-level state by controlling which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
//
// 关卡切换是延迟的：LoadLevel / ReloadLevel 只记录请求，
// 在下一次 Update 开始时才真正创建新场景。
// 这样在场景自己的 Update 里发起重载（例如胜利后按下重新开始）也是安全的。
type SceneManager struct {
	currentScene   Scene
	currentLevelID string
	pendingLevelID string
	hasPending     bool
	sceneFactory   SceneFactory // 场景工厂函数，用于创建新场景

	// onLevelLoaded 关卡场景创建成功后回调（例如记录最近游玩的关卡）
	onLevelLoaded func(levelID string)
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo or LoadLevel to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SetOnLevelLoaded 设置关卡加载成功回调
func (sm *SceneManager) SetOnLevelLoaded(callback func(levelID string)) {
	sm.onLevelLoaded = callback
}

// SwitchTo changes the active scene to the provided scene.
// The new scene's Update and Draw methods will be called on subsequent game loop iterations.
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentLevelID 返回当前关卡ID
func (sm *SceneManager) CurrentLevelID() string {
	return sm.currentLevelID
}

// LoadLevel 请求加载指定ID的关卡场景
// levelID: 关卡ID，如 "1-1", "1-2"
func (sm *SceneManager) LoadLevel(levelID string) {
	log.Printf("[SceneManager] Load level requested: %s", levelID)
	sm.pendingLevelID = levelID
	sm.hasPending = true
}

// ReloadLevel 请求重新加载当前关卡
func (sm *SceneManager) ReloadLevel() {
	if sm.currentLevelID == "" {
		log.Printf("[SceneManager] Error: no level loaded, nothing to reload")
		return
	}
	sm.LoadLevel(sm.currentLevelID)
}

// LoadLevelNow 立即加载关卡（用于启动时的第一个场景）
// 失败时保留原场景并返回 false
func (sm *SceneManager) LoadLevelNow(levelID string) bool {
	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] Error: SceneFactory not set")
		return false
	}

	newScene, err := sm.sceneFactory(levelID)
	if err != nil || newScene == nil {
		log.Printf("[SceneManager] Error: failed to create level scene %s: %v", levelID, err)
		return false
	}

	sm.SwitchTo(newScene)
	sm.currentLevelID = levelID
	log.Printf("[SceneManager] Switched to level: %s", levelID)

	if sm.onLevelLoaded != nil {
		sm.onLevelLoaded(levelID)
	}
	return true
}

// applyPending 执行挂起的关卡切换
func (sm *SceneManager) applyPending() {
	if !sm.hasPending {
		return
	}
	levelID := sm.pendingLevelID
	sm.hasPending = false
	sm.pendingLevelID = ""
	sm.LoadLevelNow(levelID)
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	sm.applyPending()

	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
