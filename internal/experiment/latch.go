package experiment

import (
	"sync"
	"time"
)

// Latch 只触发一次的闩。
// 定时器到点与用户手动操作可能竞争同一个状态转移（如到时自动提交 vs 手动提交），
// 双方都先 TryFire，谁先拿到谁执行，另一方放弃，杜绝重复转移。
type Latch struct {
	mu    sync.Mutex
	fired bool
}

// TryFire 尝试占用触发权；返回 true 表示本次调用拿到了唯一一次触发机会
func (l *Latch) TryFire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fired {
		return false
	}
	l.fired = true
	return true
}

func (l *Latch) Fired() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fired
}

// OneShot 单次定时回调：到点触发一次后失效，可取消。
// 回调路径与手动路径共用同一个闩。
type OneShot struct {
	latch *Latch
	timer *time.Timer
}

// NewOneShot 在 d 之后触发 fn（至多一次）
func NewOneShot(d time.Duration, fn func()) *OneShot {
	l := &Latch{}
	t := time.AfterFunc(d, func() {
		if l.TryFire() {
			fn()
		}
	})
	return &OneShot{latch: l, timer: t}
}

// Claim 手动路径抢占触发权并停掉定时器；
// 返回 true 表示由调用方执行转移，false 表示定时器已经触发过
func (o *OneShot) Claim() bool {
	if o == nil {
		return true
	}
	if o.latch.TryFire() {
		o.timer.Stop()
		return true
	}
	return false
}

// Cancel 作废定时器（闩置为已触发，回调不会再执行）
func (o *OneShot) Cancel() {
	if o == nil {
		return
	}
	o.latch.TryFire()
	o.timer.Stop()
}
