package utils

import (
	"math"
	"math/rand"
	"testing"
)

func TestMoveTowards(t *testing.T) {
	tests := []struct {
		name     string
		current  Vec3
		target   Vec3
		maxDelta float64
		expected Vec3
	}{
		{
			name:     "步长不足时部分移动",
			current:  Vec3{0, 0, 0},
			target:   Vec3{0, 3, 0},
			maxDelta: 1,
			expected: Vec3{0, 1, 0},
		},
		{
			name:     "步长足够时直接到达目标",
			current:  Vec3{0, 2.5, 0},
			target:   Vec3{0, 3, 0},
			maxDelta: 1,
			expected: Vec3{0, 3, 0},
		},
		{
			name:     "已在目标位置",
			current:  Vec3{1, 2, 3},
			target:   Vec3{1, 2, 3},
			maxDelta: 0.5,
			expected: Vec3{1, 2, 3},
		},
		{
			name:     "向下移动",
			current:  Vec3{0, 3, 0},
			target:   Vec3{0, 0, 0},
			maxDelta: 2,
			expected: Vec3{0, 1, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoveTowards(tt.current, tt.target, tt.maxDelta)
			if Distance(got, tt.expected) > 1e-9 {
				t.Errorf("MoveTowards() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func TestNormalized(t *testing.T) {
	v := Vec3{3, 0, 4}.Normalized()
	if math.Abs(v.Length()-1) > 1e-9 {
		t.Errorf("Normalized length = %f, expected 1", v.Length())
	}

	zero := Vec3{}.Normalized()
	if zero != (Vec3{}) {
		t.Errorf("零向量归一化应返回零向量, got %+v", zero)
	}
}

func TestRandomInsideUnitCircle(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		x, z := RandomInsideUnitCircle(rng)
		if x*x+z*z > 1+1e-9 {
			t.Fatalf("采样点 (%f, %f) 超出单位圆", x, z)
		}
	}
}

func TestRandomRotationIsUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		q := RandomRotation(rng)
		if math.Abs(q.Norm()-1) > 1e-9 {
			t.Fatalf("随机朝向不是单位四元数: norm=%f", q.Norm())
		}
	}
}

func TestRandomRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		v := RandomRange(rng, 0.5, 2)
		if v < 0.5 || v >= 2 {
			t.Fatalf("RandomRange 越界: %f", v)
		}
	}
	if got := RandomRange(rng, 3, 3); got != 3 {
		t.Errorf("min==max 时应返回 min, got %f", got)
	}
}
