package experiment

// Workflow 一轮写作的人机协作模式
type Workflow string

const (
	// WorkflowHuman 纯人工写作
	WorkflowHuman Workflow = "human"
	// WorkflowAI 纯AI写作
	WorkflowAI Workflow = "ai"
	// WorkflowHumanAI 人先写、AI润色
	WorkflowHumanAI Workflow = "human_ai"
	// WorkflowAIHuman AI先写、人润色
	WorkflowAIHuman Workflow = "ai_human"
)

// AllWorkflows 返回四种协作模式（练习轮轮转池的全集）
func AllWorkflows() []Workflow {
	return []Workflow{WorkflowHuman, WorkflowAI, WorkflowHumanAI, WorkflowAIHuman}
}

func (w Workflow) Valid() bool {
	switch w {
	case WorkflowHuman, WorkflowAI, WorkflowHumanAI, WorkflowAIHuman:
		return true
	}
	return false
}

// UsesAI 该模式是否涉及AI参与。
// trust 评分是否必填的唯一判定点：客户端校验和服务端校验都只问这里，避免两处逻辑漂移。
func (w Workflow) UsesAI() bool {
	switch w {
	case WorkflowAI, WorkflowHumanAI, WorkflowAIHuman:
		return true
	}
	return false
}
