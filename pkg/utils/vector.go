package utils

import (
	"math"
	"math/rand"
)

// Vec3 三维向量（世界坐标，Y 轴向上）
type Vec3 struct {
	X, Y, Z float64
}

// Up 世界坐标的上方向
var Up = Vec3{0, 1, 0}

// Add 向量加法
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub 向量减法
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale 标量乘法
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length 向量长度
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance 两点之间的距离
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Length()
}

// Normalized 返回单位向量；零向量返回零向量
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// MoveTowards 从 current 朝 target 直线移动，最多移动 maxDelta
// 剩余距离不足 maxDelta 时直接返回 target（不会越过目标）
func MoveTowards(current, target Vec3, maxDelta float64) Vec3 {
	delta := target.Sub(current)
	dist := delta.Length()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return current.Add(delta.Scale(maxDelta / dist))
}

// Quat 单位四元数（朝向）
type Quat struct {
	X, Y, Z, W float64
}

// IdentityQuat 无旋转
var IdentityQuat = Quat{W: 1}

// RandomRotation 生成均匀分布的随机朝向（Shoemake 算法）
func RandomRotation(rng *rand.Rand) Quat {
	u1, u2, u3 := rng.Float64(), rng.Float64(), rng.Float64()
	s1 := math.Sqrt(1 - u1)
	s2 := math.Sqrt(u1)
	return Quat{
		X: s1 * math.Sin(2*math.Pi*u2),
		Y: s1 * math.Cos(2*math.Pi*u2),
		Z: s2 * math.Sin(2*math.Pi*u3),
		W: s2 * math.Cos(2*math.Pi*u3),
	}
}

// Norm 四元数模长
func (q Quat) Norm() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// RandomInsideUnitCircle 在单位圆盘内均匀采样一点
func RandomInsideUnitCircle(rng *rand.Rand) (float64, float64) {
	r := math.Sqrt(rng.Float64())
	theta := 2 * math.Pi * rng.Float64()
	return r * math.Cos(theta), r * math.Sin(theta)
}

// RandomRange 返回 [min, max) 区间的均匀随机数
func RandomRange(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}
