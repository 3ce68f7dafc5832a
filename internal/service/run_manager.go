package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"cowrite-test/internal/config"
	"cowrite-test/internal/db"
	"cowrite-test/internal/experiment"
	"cowrite-test/internal/model"
	"cowrite-test/internal/task"

	"gorm.io/gorm"
)

// ErrRunNotFound 会话没有对应的运行实例
var ErrRunNotFound = errors.New("运行实例不存在")

// RunManager 按会话ID持有实验状态机实例，是所有 Send 调用的串行化点。
// 快照写库是 fire-and-forget：状态机先行转移，持久化失败只记日志不回滚。
type RunManager struct {
	mu  sync.Mutex
	cfg config.ExperimentConfig

	runs        map[string]*experiment.Controller
	roundTimers map[string]*experiment.OneShot
	pauseTimers map[string]*experiment.OneShot
	writers     map[string]*snapshotWriter
}

func NewRunManager(cfg config.ExperimentConfig) *RunManager {
	return &RunManager{
		cfg:         cfg,
		runs:        make(map[string]*experiment.Controller),
		roundTimers: make(map[string]*experiment.OneShot),
		pauseTimers: make(map[string]*experiment.OneShot),
		writers:     make(map[string]*snapshotWriter),
	}
}

// Start 启动（或恢复）一个会话的实验进程并返回当前状态。
// 同一会话重复调用幂等；有持久化快照的会话从快照继续。
func (m *RunManager) Start(participantID, sessionID string) (experiment.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ctrl, ok := m.lookupLocked(sessionID); ok {
		return ctrl.Snapshot(), nil
	}

	ctrl := experiment.NewController(m.cfg.TotalRounds, m.cfg.TotalPracticeRounds, task.IDs())
	res := ctrl.Send(experiment.Event{
		Type:          experiment.EventStartSession,
		ParticipantID: participantID,
		SessionID:     sessionID,
	})
	if !res.Applied {
		return experiment.Run{}, fmt.Errorf("启动会话失败: %s", res.Reason)
	}

	run := ctrl.Snapshot()
	m.runs[run.SessionID] = ctrl
	m.persistSnapshot(run)
	return run, nil
}

// Get 读取当前状态（不触发任何转移）
func (m *RunManager) Get(sessionID string) (experiment.Run, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctrl, ok := m.lookupLocked(sessionID)
	if !ok {
		return experiment.Run{}, false
	}
	return ctrl.Snapshot(), true
}

// lookupLocked 取会话的控制器；内存没有时从快照恢复并按恢复到的阶段
// 重新布置定时器（进程重启不丢写作/暂停的到时转移）。
func (m *RunManager) lookupLocked(sessionID string) (*experiment.Controller, bool) {
	if ctrl, ok := m.runs[sessionID]; ok {
		return ctrl, true
	}
	ctrl, ok := m.loadSnapshot(sessionID)
	if !ok {
		return nil, false
	}
	m.runs[sessionID] = ctrl
	m.armTimers(sessionID, ctrl.Snapshot().Phase)
	return ctrl, true
}

// Dispatch 手动路径的事件派发。
// 与定时器竞争同一转移的事件先抢闩：抢不到说明定时器已经转移过，
// 事件照常走守卫并被拒绝，状态不会二次变更。
func (m *RunManager) Dispatch(sessionID string, ev experiment.Event) (experiment.Run, experiment.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dispatchLocked(sessionID, ev, false)
}

func (m *RunManager) dispatchLocked(sessionID string, ev experiment.Event, fromTimer bool) (experiment.Run, experiment.Result, error) {
	ctrl, ok := m.lookupLocked(sessionID)
	if !ok {
		return experiment.Run{}, experiment.Result{}, ErrRunNotFound
	}

	// 先过守卫再抢闩：被拒的事件不得消耗定时器，否则到时自动转移被永久解除
	prevPhase := ctrl.Snapshot().Phase
	if !fromTimer && ctrl.Can(ev.Type) {
		switch ev.Type {
		case experiment.EventSubmitTrial:
			m.roundTimers[sessionID].Claim()
		case experiment.EventNextRound:
			if prevPhase == experiment.PhasePracticePause {
				m.pauseTimers[sessionID].Claim()
			}
		}
	}

	res := ctrl.Send(ev)
	run := ctrl.Snapshot()
	if res.Applied {
		if run.Phase != prevPhase {
			m.armTimers(sessionID, run.Phase)
		}
		m.persistSnapshot(run)
	}
	return run, res, nil
}

// armTimers 按进入的新阶段布置单次定时器：
// 写作阶段到时自动提交，练习暂停阶段到时自动进入下一轮。
func (m *RunManager) armTimers(sessionID string, phase experiment.Phase) {
	if phase == experiment.PhaseTask && m.cfg.RoundSeconds > 0 {
		m.roundTimers[sessionID].Cancel()
		m.roundTimers[sessionID] = experiment.NewOneShot(
			time.Duration(m.cfg.RoundSeconds)*time.Second,
			func() { m.autoSubmit(sessionID) },
		)
	}
	if phase == experiment.PhasePracticePause && m.cfg.PauseSeconds > 0 {
		m.pauseTimers[sessionID].Cancel()
		m.pauseTimers[sessionID] = experiment.NewOneShot(
			time.Duration(m.cfg.PauseSeconds)*time.Second,
			func() { m.autoAdvance(sessionID) },
		)
	}
}

// autoSubmit 写作倒计时到点：当前草稿原样截止，本轮结束
func (m *RunManager) autoSubmit(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, _, err := m.dispatchLocked(sessionID, experiment.Event{Type: experiment.EventMarkChecked}, true); err != nil {
		return
	}
	if _, res, _ := m.dispatchLocked(sessionID, experiment.Event{Type: experiment.EventSubmitTrial}, true); !res.Applied {
		log.Printf("会话 %s 到时自动提交被拒绝: %s", sessionID, res.Reason)
	}
}

// autoAdvance 练习间歇倒计时到点：自动进入下一练习轮
func (m *RunManager) autoAdvance(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, res, err := m.dispatchLocked(sessionID, experiment.Event{Type: experiment.EventNextRound}, true); err == nil && !res.Applied {
		log.Printf("会话 %s 暂停结束自动推进被拒绝: %s", sessionID, res.Reason)
	}
}

// Reset 回到初始状态并清掉持久化快照与定时器
func (m *RunManager) Reset(sessionID string) (experiment.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctrl, ok := m.lookupLocked(sessionID)
	if !ok {
		return experiment.Run{}, ErrRunNotFound
	}

	ctrl.Send(experiment.Event{Type: experiment.EventReset})
	m.roundTimers[sessionID].Cancel()
	m.pauseTimers[sessionID].Cancel()
	delete(m.roundTimers, sessionID)
	delete(m.pauseTimers, sessionID)
	delete(m.runs, sessionID)
	if w, ok := m.writers[sessionID]; ok {
		w.discard()
		delete(m.writers, sessionID)
	}

	if db.DB != nil {
		if err := db.DB.Where("session_id = ?", sessionID).Delete(&model.RunState{}).Error; err != nil {
			log.Printf("删除会话 %s 的运行快照失败: %v", sessionID, err)
		}
	}
	return ctrl.Snapshot(), nil
}

// loadSnapshot 从库里恢复会话快照；快照损坏时忽略并当作不存在
func (m *RunManager) loadSnapshot(sessionID string) (*experiment.Controller, bool) {
	if db.DB == nil || sessionID == "" {
		return nil, false
	}
	var rs model.RunState
	if err := db.DB.Where("session_id = ?", sessionID).First(&rs).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("读取会话 %s 的运行快照失败: %v", sessionID, err)
		}
		return nil, false
	}
	var run experiment.Run
	if err := json.Unmarshal([]byte(rs.Snapshot), &run); err != nil || run.SessionID == "" {
		log.Printf("会话 %s 的运行快照损坏，忽略并重新开始: %v", sessionID, err)
		return nil, false
	}
	return experiment.Restore(run, task.IDs()), true
}

// persistSnapshot 异步写快照，失败只记日志。
// 每会话只有一个写入协程在跑，连续转移只留最新快照，落库顺序不会旧盖新。
func (m *RunManager) persistSnapshot(run experiment.Run) {
	if db.DB == nil {
		return
	}
	data, err := json.Marshal(run)
	if err != nil {
		log.Printf("序列化会话 %s 的运行快照失败: %v", run.SessionID, err)
		return
	}
	w, ok := m.writers[run.SessionID]
	if !ok {
		w = &snapshotWriter{sessionID: run.SessionID, write: writeRunState}
		m.writers[run.SessionID] = w
	}
	w.enqueue(string(data))
}

func writeRunState(sessionID, snapshot string) error {
	var rs model.RunState
	return db.DB.Where(model.RunState{SessionID: sessionID}).
		Assign(model.RunState{Snapshot: snapshot}).
		FirstOrCreate(&rs).Error
}

// snapshotWriter 单会话的串行快照写入器。
// enqueue 只记下待写的最新快照；排空协程一次取一份写库，
// 写的永远是取的时刻的最新值，天然按转移顺序落库。
type snapshotWriter struct {
	sessionID string
	write     func(sessionID, snapshot string) error

	mu      sync.Mutex
	pending *string
	running bool
}

func (w *snapshotWriter) enqueue(snapshot string) {
	w.mu.Lock()
	w.pending = &snapshot
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()
	go w.drain()
}

func (w *snapshotWriter) drain() {
	for {
		w.mu.Lock()
		data := w.pending
		w.pending = nil
		if data == nil {
			w.running = false
			w.mu.Unlock()
			return
		}
		w.mu.Unlock()

		if err := w.write(w.sessionID, *data); err != nil {
			log.Printf("持久化会话 %s 的运行快照失败: %v", w.sessionID, err)
		}
	}
}

func (w *snapshotWriter) discard() {
	w.mu.Lock()
	w.pending = nil
	w.mu.Unlock()
}
