package experiment

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mrand "math/rand"
	"sync"
	"time"
)

// weakRand crypto源不可用时的退路（均匀性足够，非安全需求）
var (
	weakRandMu sync.Mutex
	weakRand   = mrand.New(mrand.NewSource(time.Now().UnixNano()))
)

// randIntn 返回 [0, n) 的均匀随机数。
// 优先从 crypto/rand 取字节并做拒绝采样消除取模偏差；取不到时退回 math/rand。
func randIntn(n int) int {
	if n <= 1 {
		return 0
	}
	limit := math.MaxUint64 - math.MaxUint64%uint64(n)
	for {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			weakRandMu.Lock()
			v := weakRand.Intn(n)
			weakRandMu.Unlock()
			return v
		}
		v := binary.LittleEndian.Uint64(b[:])
		if v < limit {
			return int(v % uint64(n))
		}
	}
}

// shuffle 原地 Fisher–Yates 洗牌
func shuffle[T any](items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := randIntn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Pool 洗牌池：游标+缓冲。
// Next 依次取元素，池子耗尽时才重新洗牌并重置游标，
// 保证全部元素轮完一遍之前不会出现重复。
type Pool[T any] struct {
	Items []T `json:"items"`
	Index int `json:"index"`
}

func NewPool[T any](items []T) *Pool[T] {
	cp := make([]T, len(items))
	copy(cp, items)
	shuffle(cp)
	return &Pool[T]{Items: cp}
}

// Next 取下一个元素；耗尽时重洗
func (p *Pool[T]) Next() T {
	if p.Index >= len(p.Items) {
		shuffle(p.Items)
		p.Index = 0
	}
	v := p.Items[p.Index]
	p.Index++
	return v
}

// Remaining 当前洗牌周期内还剩多少个未取
func (p *Pool[T]) Remaining() int {
	return len(p.Items) - p.Index
}

func (p *Pool[T]) clone() *Pool[T] {
	if p == nil {
		return nil
	}
	cp := make([]T, len(p.Items))
	copy(cp, p.Items)
	return &Pool[T]{Items: cp, Index: p.Index}
}

// RoundAssignment 一个会话内的任务/工作流分配序列。
// 两个池各自独立洗牌，任务与工作流的配对因此不相关；
// 会话创建时生成一次，随运行快照持久化，刷新后顺序不变。
type RoundAssignment struct {
	Tasks     *Pool[string]   `json:"tasks"`
	Workflows *Pool[Workflow] `json:"workflows"`
}

func NewRoundAssignment(taskIDs []string) *RoundAssignment {
	return &RoundAssignment{
		Tasks:     NewPool(taskIDs),
		Workflows: NewPool(AllWorkflows()),
	}
}

// NextTask 下一轮的任务，练习轮与正式轮共用同一条洗牌序列
func (a *RoundAssignment) NextTask() string {
	return a.Tasks.Next()
}

// NextPracticeWorkflow 练习轮的系统指派工作流：
// 四种模式轮转，一个周期内每种恰好出现一次，顺序随机
func (a *RoundAssignment) NextPracticeWorkflow() Workflow {
	return a.Workflows.Next()
}

func (a *RoundAssignment) clone() *RoundAssignment {
	if a == nil {
		return nil
	}
	return &RoundAssignment{
		Tasks:     a.Tasks.clone(),
		Workflows: a.Workflows.clone(),
	}
}
