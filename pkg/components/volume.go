package components

import "github.com/decker502/marble/pkg/utils"

// VolumeComponent 轴对齐包围盒（相对于 TransformComponent.Position）
//
// 用途：
//   - 碗：触发体积，球进入/离开时产生 enter/exit 事件
//   - 墙：接触体积，球与之重叠时产生 contact 事件
type VolumeComponent struct {
	HalfExtents utils.Vec3
	IsTrigger   bool // true=触发器（不阻挡），false=实体接触
}

// Contains 判断世界坐标点是否在包围盒内
func (v *VolumeComponent) Contains(center, point utils.Vec3) bool {
	d := point.Sub(center)
	return abs(d.X) <= v.HalfExtents.X &&
		abs(d.Y) <= v.HalfExtents.Y &&
		abs(d.Z) <= v.HalfExtents.Z
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// BowlComponent 标记收集区域（碗）实体
type BowlComponent struct{}
