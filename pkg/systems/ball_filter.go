package systems

import (
	"strings"

	"github.com/decker502/marble/pkg/components"
	"github.com/decker502/marble/pkg/ecs"
)

// ballNameMarkers 名称兜底识别用的子串（小写）
// 关卡里手工摆放的球不一定挂了 BallComponent，按名称识别是为了方便关卡制作
var ballNameMarkers = []string{"ball", "bola"}

// IsBall 尖刺墙使用的球体识别规则
//
// 满足任一条件即视为球：
//  1. 拥有非运动学（受物理驱动）的刚体
//  2. 拥有 BallComponent
//  3. 名称（不区分大小写）包含 "ball" 或 "bola"
func IsBall(em *ecs.EntityManager, id ecs.EntityID) bool {
	if rb, ok := ecs.GetComponent[*components.RigidBodyComponent](em, id); ok && !rb.Kinematic {
		return true
	}

	if ecs.HasComponent[*components.BallComponent](em, id) {
		return true
	}

	if name, ok := ecs.GetComponent[*components.NameComponent](em, id); ok {
		lower := strings.ToLower(name.Name)
		for _, marker := range ballNameMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}

	return false
}

// IsBowlBall 碗使用的球体识别规则
// 拥有 BallComponent 或任意刚体（包括运动学刚体）即视为球
func IsBowlBall(em *ecs.EntityManager, id ecs.EntityID) bool {
	return ecs.HasComponent[*components.BallComponent](em, id) ||
		ecs.HasComponent[*components.RigidBodyComponent](em, id)
}
