package systems

import (
	"log"

	"github.com/decker502/marble/pkg/ecs"
	"github.com/decker502/marble/pkg/event"
)

// BallCount 碗内弹珠计数通知的负载
type BallCount struct {
	Current  int
	Required int
}

// BowlSystem 碗（收集区）胜利判定系统
//
// 职责：
//   - 根据触发器进入/离开事件维护碗内弹珠集合（去重，保持进入顺序）
//   - 按固定间隔检查胜利条件，与物理事件解耦
//   - 胜利后不再处理任何事件，OnLevelCompleted 只触发一次
//
// 计数通知是即时的，胜负判定只看周期检查时去重、剔除失效实体后的集合，
// 几乎同时发生的进入/离开造成的瞬时误差不会影响结果
type BowlSystem struct {
	entityManager *ecs.EntityManager

	minBallsToWin int
	checkInterval float64
	elapsed       float64

	ballsInBowl    []ecs.EntityID
	levelCompleted bool

	// OnBallCountChanged 碗内弹珠数量变化时触发
	OnBallCountChanged event.Signal[BallCount]
	// OnLevelCompleted 达成胜利条件时触发（只触发一次）
	OnLevelCompleted event.Notifier
}

// NewBowlSystem 创建碗系统
// checkInterval <= 0 时每次 Update 都检查
func NewBowlSystem(em *ecs.EntityManager, minBallsToWin int, checkInterval float64) *BowlSystem {
	return &BowlSystem{
		entityManager: em,
		minBallsToWin: minBallsToWin,
		checkInterval: checkInterval,
		ballsInBowl:   make([]ecs.EntityID, 0),
	}
}

// OnTriggerEnter 实体进入碗
func (s *BowlSystem) OnTriggerEnter(id ecs.EntityID) {
	if s.levelCompleted {
		return
	}
	if !IsBowlBall(s.entityManager, id) {
		return
	}
	if s.indexOf(id) >= 0 {
		return
	}

	s.ballsInBowl = append(s.ballsInBowl, id)
	s.notifyCount()
}

// OnTriggerExit 实体离开碗
func (s *BowlSystem) OnTriggerExit(id ecs.EntityID) {
	if s.levelCompleted {
		return
	}
	if !IsBowlBall(s.entityManager, id) {
		return
	}

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.ballsInBowl = append(s.ballsInBowl[:i], s.ballsInBowl[i+1:]...)
	s.notifyCount()
}

// Update 按固定间隔执行胜利检查
// 第一次检查发生在 checkInterval 之后，之后每隔 checkInterval 一次
func (s *BowlSystem) Update(deltaTime float64) {
	if s.levelCompleted {
		return
	}

	if s.checkInterval <= 0 {
		s.CheckWinCondition()
		return
	}

	s.elapsed += deltaTime
	for s.elapsed+taskEpsilon >= s.checkInterval {
		s.elapsed -= s.checkInterval
		s.CheckWinCondition()
		if s.levelCompleted {
			return
		}
	}
}

// CheckWinCondition 检查胜利条件
// 先剔除已不存在的实体（计数变化时通知），再与阈值比较；胜利后调用为空操作
func (s *BowlSystem) CheckWinCondition() {
	if s.levelCompleted {
		return
	}

	before := len(s.ballsInBowl)
	alive := s.ballsInBowl[:0]
	for _, id := range s.ballsInBowl {
		if s.entityManager.EntityExists(id) {
			alive = append(alive, id)
		}
	}
	s.ballsInBowl = alive
	if len(s.ballsInBowl) != before {
		s.notifyCount()
	}

	if len(s.ballsInBowl) >= s.minBallsToWin {
		s.levelCompleted = true
		log.Printf("[BowlSystem] Level completed with %d/%d balls", len(s.ballsInBowl), s.minBallsToWin)
		event.Fire(&s.OnLevelCompleted)
	}
}

// notifyCount 广播当前计数
func (s *BowlSystem) notifyCount() {
	s.OnBallCountChanged.Emit(BallCount{
		Current:  len(s.ballsInBowl),
		Required: s.minBallsToWin,
	})
}

func (s *BowlSystem) indexOf(id ecs.EntityID) int {
	for i, b := range s.ballsInBowl {
		if b == id {
			return i
		}
	}
	return -1
}

// CurrentBallCount 当前碗内弹珠数量
func (s *BowlSystem) CurrentBallCount() int {
	return len(s.ballsInBowl)
}

// RequiredBallCount 胜利所需弹珠数量
func (s *BowlSystem) RequiredBallCount() int {
	return s.minBallsToWin
}

// IsLevelCompleted 是否已胜利
func (s *BowlSystem) IsLevelCompleted() bool {
	return s.levelCompleted
}

// Contains 实体当前是否被计入碗内
func (s *BowlSystem) Contains(id ecs.EntityID) bool {
	return s.indexOf(id) >= 0
}
