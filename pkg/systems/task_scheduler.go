package systems

import "log"

// taskEpsilon 浮点累加误差容限
// 60 次 1/60 秒累加不一定精确等于 1.0，比较恢复时间时留出余量
const taskEpsilon = 1e-9

// TaskStep 执行任务的一步
//
// 返回：
//   - wait: 下一步恢复前需要等待的时间（秒）
//   - done: true 表示任务已结束，不再恢复
type TaskStep func() (wait float64, done bool)

// Task 可恢复的协作式任务
// 由 TaskScheduler 在主循环里驱动，两步之间挂起一段时间
type Task struct {
	id        uint64
	name      string
	step      TaskStep
	resumeAt  float64
	cancelled bool
	finished  bool
}

// Cancel 取消任务：丢弃其后续步骤
// 对已结束或已取消的任务调用是安全的
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
}

// IsRunning 任务是否仍会被恢复
func (t *Task) IsRunning() bool {
	return t != nil && !t.cancelled && !t.finished
}

// Name 任务名称
func (t *Task) Name() string {
	return t.name
}

// TaskScheduler 协作式任务调度器
//
// 职责：
//   - 维护单调递增的调度时钟（只随 Update 的 deltaTime 前进）
//   - 在到达 resumeAt 时恢复任务，每次 Update 每个任务最多执行一步
//   - 被取消的任务直接丢弃，不再执行任何步骤
//
// 架构说明：
//   - 单线程使用，所有调用都在游戏主循环上
type TaskScheduler struct {
	now    float64
	nextID uint64
	tasks  []*Task
}

// NewTaskScheduler 创建任务调度器
func NewTaskScheduler() *TaskScheduler {
	return &TaskScheduler{
		tasks: make([]*Task, 0),
	}
}

// Start 启动任务
// 第一步立即同步执行，之后按返回的等待时间挂起
func (s *TaskScheduler) Start(name string, step TaskStep) *Task {
	s.nextID++
	task := &Task{
		id:   s.nextID,
		name: name,
		step: step,
	}

	s.runStep(task)
	if task.IsRunning() {
		s.tasks = append(s.tasks, task)
	}
	return task
}

// Update 推进调度时钟并恢复到期的任务
func (s *TaskScheduler) Update(deltaTime float64) {
	if deltaTime > 0 {
		s.now += deltaTime
	}

	if len(s.tasks) == 0 {
		return
	}

	// 遍历快照：任务步骤中启动的新任务从下一次 Update 开始调度
	snapshot := make([]*Task, len(s.tasks))
	copy(snapshot, s.tasks)

	for _, task := range snapshot {
		if !task.IsRunning() {
			continue
		}
		if s.now+taskEpsilon < task.resumeAt {
			continue
		}
		s.runStep(task)
	}

	s.compact()
}

// runStep 执行任务的一步并记录下次恢复时间
func (s *TaskScheduler) runStep(task *Task) {
	wait, done := task.step()
	if task.cancelled {
		// 步骤内部取消了自己（例如重新开始同一个流程）
		return
	}
	if done {
		task.finished = true
		return
	}
	if wait < 0 {
		log.Printf("[TaskScheduler] Task %s returned negative wait %.3f, clamping to 0", task.name, wait)
		wait = 0
	}
	task.resumeAt = s.now + wait
}

// compact 移除已结束或已取消的任务
func (s *TaskScheduler) compact() {
	alive := s.tasks[:0]
	for _, task := range s.tasks {
		if task.IsRunning() {
			alive = append(alive, task)
		}
	}
	// 清理尾部引用
	for i := len(alive); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = alive
}

// Now 返回调度时钟的当前时间（秒）
func (s *TaskScheduler) Now() float64 {
	return s.now
}

// ActiveTaskCount 返回仍在运行的任务数量
func (s *TaskScheduler) ActiveTaskCount() int {
	count := 0
	for _, task := range s.tasks {
		if task.IsRunning() {
			count++
		}
	}
	return count
}
