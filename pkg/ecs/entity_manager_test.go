package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testBodyComponent struct {
	X, Y, Z float64
}

type testTagComponent struct {
	Name string
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	if id1 != 1 || id2 != 2 {
		t.Errorf("IDs = (%d, %d), expected (1, 2)", id1, id2)
	}
	if em.EntityCount() != 2 {
		t.Errorf("EntityCount = %d, expected 2", em.EntityCount())
	}
}

func TestGenericComponentAPI(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testBodyComponent{X: 1, Y: 2, Z: 3})

	body, ok := GetComponent[*testBodyComponent](em, id)
	if !ok || body.Z != 3 {
		t.Fatalf("GetComponent = (%+v, %v)", body, ok)
	}
	if HasComponent[*testTagComponent](em, id) {
		t.Error("未添加的组件不应存在")
	}

	// 反射接口与泛型接口共享存储
	if !em.HasComponent(id, reflect.TypeOf(&testBodyComponent{})) {
		t.Error("反射接口应能查到泛型接口添加的组件")
	}

	RemoveComponent[*testBodyComponent](em, id)
	if _, ok := GetComponent[*testBodyComponent](em, id); ok {
		t.Error("RemoveComponent 之后组件应不存在")
	}

	// 不存在的实体
	AddComponent(em, EntityID(99), &testTagComponent{})
	if HasComponent[*testTagComponent](em, EntityID(99)) {
		t.Error("不应为不存在的实体添加组件")
	}
}

func TestDeferredDestroy(t *testing.T) {
	em := NewEntityManager()
	a := em.CreateEntity()
	b := em.CreateEntity()
	AddComponent(em, a, &testBodyComponent{})
	AddComponent(em, b, &testBodyComponent{})

	em.DestroyEntity(a)
	em.DestroyEntity(a) // 重复标记安全

	t.Run("标记后立即视为不存在", func(t *testing.T) {
		if em.EntityExists(a) {
			t.Error("EntityExists 应返回 false")
		}
		if !em.EntityExists(b) {
			t.Error("未标记的实体应存在")
		}
		if em.EntityCount() != 1 {
			t.Errorf("EntityCount = %d, expected 1", em.EntityCount())
		}
	})

	t.Run("查询跳过已标记实体", func(t *testing.T) {
		ids := GetEntitiesWith1[*testBodyComponent](em)
		if len(ids) != 1 || ids[0] != b {
			t.Errorf("GetEntitiesWith1 = %v, expected [%d]", ids, b)
		}
	})

	t.Run("清理前组件仍可读取", func(t *testing.T) {
		if _, ok := GetComponent[*testBodyComponent](em, a); !ok {
			t.Error("清理前应仍能读取组件")
		}
	})

	em.RemoveMarkedEntities()

	t.Run("清理后组件被移除", func(t *testing.T) {
		if _, ok := GetComponent[*testBodyComponent](em, a); ok {
			t.Error("清理后组件应被移除")
		}
		if em.EntityCount() != 1 {
			t.Errorf("EntityCount = %d, expected 1", em.EntityCount())
		}
	})

	// 已清理的实体再次标记不产生影响
	em.DestroyEntity(a)
	em.RemoveMarkedEntities()
	if !em.EntityExists(b) {
		t.Error("b 不应受影响")
	}
}

func TestGetEntitiesWithSortedByID(t *testing.T) {
	em := NewEntityManager()
	var want []EntityID
	for i := 0; i < 50; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testBodyComponent{})
		if i%2 == 0 {
			AddComponent(em, id, &testTagComponent{})
			want = append(want, id)
		}
	}

	for round := 0; round < 5; round++ {
		got := GetEntitiesWith2[*testBodyComponent, *testTagComponent](em)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("round %d: got %v, expected %v", round, got, want)
		}
	}

	if len(GetEntitiesWith3[*testBodyComponent, *testTagComponent, *int](em)) != 0 {
		t.Error("没有实体拥有 *int 组件")
	}
}

// BenchmarkGetEntitiesWith2 模拟每帧查询所有刚体
func BenchmarkGetEntitiesWith2(b *testing.B) {
	em := NewEntityManager()
	for i := 0; i < 200; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testBodyComponent{X: float64(i)})
		AddComponent(em, id, &testTagComponent{Name: "Ball"})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetEntitiesWith2[*testBodyComponent, *testTagComponent](em)
	}
}
