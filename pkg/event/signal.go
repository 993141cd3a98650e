// Package event 提供一对多的通知通道
//
// 各系统之间只通过单向通知通信，不共享可变状态：
//   - 监听者按注册顺序依次收到通知
//   - 没有监听者时通知被静默丢弃，不视为错误
//   - 所有投递都在调用 Emit 的同一个线程（游戏主循环）上同步完成
package event

// Listener 监听函数
type Listener[T any] func(T)

// Subscription 订阅句柄，用于取消订阅
type Subscription struct {
	id uint64
}

type entry[T any] struct {
	id       uint64
	listener Listener[T]
}

// Signal 携带 T 类型负载的通知通道
// 零值可直接使用
type Signal[T any] struct {
	nextID    uint64
	listeners []entry[T]
}

// Subscribe 注册监听函数，返回订阅句柄
// nil 监听函数会被忽略
func (s *Signal[T]) Subscribe(listener Listener[T]) Subscription {
	if listener == nil {
		return Subscription{}
	}
	s.nextID++
	s.listeners = append(s.listeners, entry[T]{id: s.nextID, listener: listener})
	return Subscription{id: s.nextID}
}

// Unsubscribe 取消订阅；句柄无效时什么也不做
func (s *Signal[T]) Unsubscribe(sub Subscription) {
	for i, e := range s.listeners {
		if e.id == sub.id {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Emit 按注册顺序通知所有监听者
// 投递期间新增或取消的订阅从下一次 Emit 开始生效
func (s *Signal[T]) Emit(payload T) {
	if len(s.listeners) == 0 {
		return
	}
	snapshot := make([]entry[T], len(s.listeners))
	copy(snapshot, s.listeners)
	for _, e := range snapshot {
		e.listener(payload)
	}
}

// ListenerCount 当前监听者数量
func (s *Signal[T]) ListenerCount() int {
	return len(s.listeners)
}

// Empty 无负载通知的占位类型
type Empty struct{}

// Notifier 无负载的通知通道
type Notifier = Signal[Empty]

// Fire 触发无负载通知
func Fire(n *Notifier) {
	n.Emit(Empty{})
}
