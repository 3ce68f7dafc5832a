package experiment

import (
	"fmt"

	"github.com/google/uuid"
)

// Phase 参与者当前所处的界面/阶段
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhasePreQuestionnaire Phase = "pre_questionnaire"
	PhaseTutorial         Phase = "tutorial"
	PhasePractice         Phase = "practice"
	PhasePracticePause    Phase = "practice_pause"
	PhaseChooseWorkflow   Phase = "choose_workflow"
	PhaseTask             Phase = "task"
	PhaseRoundFeedback    Phase = "round_feedback"
	PhaseFeedback         Phase = "feedback"
	PhaseFinish           Phase = "finish"
)

// Mode 轮次计数与任务来源所遵循的子协议
type Mode string

const (
	ModePractice Mode = "practice"
	ModeMain     Mode = "main"
)

// EventType 状态机可接收的事件
type EventType string

const (
	EventStartSession           EventType = "start_session"
	EventFinishPreQuestionnaire EventType = "finish_prequestionnaire"
	EventFinishTutorial         EventType = "finish_tutorial"
	EventStartPractice          EventType = "start_practice"
	EventSelectWorkflow         EventType = "select_workflow"
	EventLockWorkflow           EventType = "lock_workflow"
	EventMarkChecked            EventType = "mark_checked"
	EventSubmitTrial            EventType = "submit_trial"
	EventNextRound              EventType = "next_round"
	EventFinishSession          EventType = "finish_session"
	EventFinishFeedback         EventType = "finish_feedback"
	EventReset                  EventType = "reset"
)

// Event 一次事件派发。Workflow 仅 select_workflow 使用；
// ParticipantID/SessionID 仅 start_session 使用，为空时由状态机生成。
type Event struct {
	Type          EventType `json:"type"`
	Workflow      Workflow  `json:"workflow,omitempty"`
	ParticipantID string    `json:"participant_id,omitempty"`
	SessionID     string    `json:"session_id,omitempty"`
}

// Run 一个参与者会话的全部实验进度。
// 只有 Controller.Send 能改写它；整个结构体可JSON序列化作为运行快照。
type Run struct {
	ParticipantID       string           `json:"participant_id"`
	SessionID           string           `json:"session_id"`
	Mode                Mode             `json:"mode,omitempty"`
	Phase               Phase            `json:"phase"`
	RoundIndex          int              `json:"round_index"`
	TotalRounds         int              `json:"total_rounds"`
	TotalPracticeRounds int              `json:"total_practice_rounds"`
	Workflow            Workflow         `json:"workflow,omitempty"`
	Locked              bool             `json:"locked"`
	Checked             bool             `json:"checked"`
	TaskID              string           `json:"task_id,omitempty"`
	Assignment          *RoundAssignment `json:"assignment,omitempty"`
}

// Result Send 的结果。非法事件不改状态，只带回拒绝原因，
// 比静默吞掉更好测（对外观察到的行为不变）。
type Result struct {
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

func applied() Result {
	return Result{Applied: true}
}

func rejected(format string, args ...interface{}) Result {
	return Result{Applied: false, Reason: fmt.Sprintf(format, args...)}
}

// Controller 实验进度状态机，Run 的唯一写入方。
// 纯同步、单写者：不做网络、不做存储，调用方负责串行化 Send。
type Controller struct {
	run                 Run
	totalRounds         int
	totalPracticeRounds int
	taskIDs             []string
}

func NewController(totalRounds, totalPracticeRounds int, taskIDs []string) *Controller {
	return &Controller{
		run: Run{
			Phase:               PhaseIdle,
			TotalRounds:         totalRounds,
			TotalPracticeRounds: totalPracticeRounds,
		},
		totalRounds:         totalRounds,
		totalPracticeRounds: totalPracticeRounds,
		taskIDs:             taskIDs,
	}
}

// Restore 从快照恢复一个控制器（刷新/重启后继续原会话）。
// 快照缺少分配池时补一个新的，其余字段按快照原样接管。
func Restore(run Run, taskIDs []string) *Controller {
	if run.Phase == "" {
		run.Phase = PhaseIdle
	}
	if run.Assignment == nil && run.Phase != PhaseIdle {
		run.Assignment = NewRoundAssignment(taskIDs)
	}
	return &Controller{
		run:                 run,
		totalRounds:         run.TotalRounds,
		totalPracticeRounds: run.TotalPracticeRounds,
		taskIDs:             taskIDs,
	}
}

// Snapshot 当前状态的深拷贝，调用方随便改不影响状态机
func (c *Controller) Snapshot() Run {
	cp := c.run
	cp.Assignment = c.run.Assignment.clone()
	return cp
}

// Can 纯守卫判定：事件 t 在当前状态下是否合法。
// 与 Send 共用同一套守卫，Can 为 false 时 Send 必然不改状态。
func (c *Controller) Can(t EventType) bool {
	r := &c.run
	switch t {
	case EventStartSession:
		return r.Phase == PhaseIdle
	case EventFinishPreQuestionnaire:
		return r.Phase == PhasePreQuestionnaire
	case EventFinishTutorial:
		return r.Phase == PhaseTutorial
	case EventStartPractice:
		return r.Phase == PhasePractice
	case EventSelectWorkflow:
		return r.Phase == PhaseChooseWorkflow && !r.Locked
	case EventLockWorkflow:
		return r.Phase == PhaseChooseWorkflow && r.Workflow != ""
	case EventMarkChecked:
		return r.Phase == PhaseTask
	case EventSubmitTrial:
		return r.Phase == PhaseTask && r.Checked
	case EventNextRound:
		// 练习暂停页出来的是"继续"分支；反馈页出来的才是推进轮次。
		// 练习最后一轮的 next_round 承担切换到正式模式的职责，因此练习模式不看上限。
		if r.Phase == PhasePracticePause {
			return true
		}
		if r.Phase != PhaseRoundFeedback {
			return false
		}
		if r.Mode == ModePractice {
			return true
		}
		return r.RoundIndex < r.TotalRounds
	case EventFinishSession:
		return r.Phase == PhaseRoundFeedback && r.Mode == ModeMain && r.RoundIndex >= r.TotalRounds
	case EventFinishFeedback:
		return r.Phase == PhaseFeedback
	case EventReset:
		return true
	}
	return false
}

// Send 派发事件：守卫不通过则原状态原样保留并返回拒绝结果，
// 通过则按转移表施加且仅施加对应的变更。
func (c *Controller) Send(ev Event) Result {
	if !c.Can(ev.Type) {
		return rejected("事件 %s 在阶段 %s 不可用", ev.Type, c.run.Phase)
	}

	r := &c.run
	switch ev.Type {
	case EventStartSession:
		if r.ParticipantID == "" {
			if ev.ParticipantID != "" {
				r.ParticipantID = ev.ParticipantID
			} else {
				r.ParticipantID = uuid.NewString()
			}
		}
		// 会话ID每次新会话重新生成，客户端传入的优先
		if ev.SessionID != "" {
			r.SessionID = ev.SessionID
		} else {
			r.SessionID = uuid.NewString()
		}
		r.TotalRounds = c.totalRounds
		r.TotalPracticeRounds = c.totalPracticeRounds
		r.RoundIndex = 1
		r.Locked = false
		r.Assignment = NewRoundAssignment(c.taskIDs)
		r.Phase = PhasePreQuestionnaire

	case EventFinishPreQuestionnaire:
		r.Phase = PhaseTutorial

	case EventFinishTutorial:
		r.Phase = PhasePractice

	case EventStartPractice:
		// 练习轮工作流由系统指派，不经过选择阶段，直接锁定
		r.Mode = ModePractice
		r.RoundIndex = 1
		r.Workflow = r.Assignment.NextPracticeWorkflow()
		r.TaskID = r.Assignment.NextTask()
		r.Locked = true
		r.Checked = false
		r.Phase = PhaseTask

	case EventSelectWorkflow:
		if !ev.Workflow.Valid() {
			return rejected("无效的工作流: %s", ev.Workflow)
		}
		// 锁定之前可以反复改选，不切换阶段
		r.Workflow = ev.Workflow

	case EventLockWorkflow:
		r.Locked = true
		r.Checked = false
		r.Phase = PhaseTask

	case EventMarkChecked:
		r.Checked = true

	case EventSubmitTrial:
		r.Phase = PhaseRoundFeedback

	case EventNextRound:
		if r.Phase == PhasePracticePause {
			// 暂停结束：为当前练习轮套用预分配的工作流与任务
			r.Workflow = r.Assignment.NextPracticeWorkflow()
			r.TaskID = r.Assignment.NextTask()
			r.Locked = true
			r.Checked = false
			r.Phase = PhaseTask
			break
		}
		r.Workflow = ""
		r.Locked = false
		r.Checked = false
		if r.Mode == ModePractice {
			if r.RoundIndex < r.TotalPracticeRounds {
				// 下一轮仍是练习：先进计时暂停页
				r.RoundIndex++
				r.Phase = PhasePracticePause
			} else {
				// 练习耗尽：切换到正式模式，轮次计数重置
				r.Mode = ModeMain
				r.RoundIndex = 1
				r.TaskID = r.Assignment.NextTask()
				r.Phase = PhaseChooseWorkflow
			}
		} else {
			r.RoundIndex++
			r.TaskID = r.Assignment.NextTask()
			r.Phase = PhaseChooseWorkflow
		}

	case EventFinishSession:
		r.Phase = PhaseFeedback

	case EventFinishFeedback:
		r.Phase = PhaseFinish

	case EventReset:
		c.run = Run{
			Phase:               PhaseIdle,
			TotalRounds:         c.totalRounds,
			TotalPracticeRounds: c.totalPracticeRounds,
		}
	}

	return applied()
}
