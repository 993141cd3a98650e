// Package types 定义共享的基础类型
package types

// GameProgress 关卡进行状态
//
// 只能向前推进：PreGame → Playing → Completed
// 重新开始通过整体重载场景实现，不在进程内回退状态
type GameProgress int

const (
	// GameProgressPreGame 开局前（显示开始界面）
	GameProgressPreGame GameProgress = iota
	// GameProgressPlaying 游戏进行中（允许操作墙体）
	GameProgressPlaying
	// GameProgressCompleted 关卡完成（显示胜利界面）
	GameProgressCompleted
)

// String 返回状态名称（日志用）
func (p GameProgress) String() string {
	switch p {
	case GameProgressPreGame:
		return "PreGame"
	case GameProgressPlaying:
		return "Playing"
	case GameProgressCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}
