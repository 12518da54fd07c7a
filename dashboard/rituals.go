package dashboard

import "github.com/imattdu/assistdash/assistant"

type ChecklistStep struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// RitualChecklist 值类型，修改返回新值
type RitualChecklist struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	EstimatedDuration string          `json:"estimated_duration"`
	Steps             []ChecklistStep `json:"steps"`
}

func NewChecklist(id string, r *assistant.Ritual) RitualChecklist {
	c := RitualChecklist{ID: id}
	if r == nil {
		c.Steps = []ChecklistStep{}
		return c
	}
	c.Name = r.Ritual
	c.EstimatedDuration = r.EstimatedDuration
	c.Steps = make([]ChecklistStep, len(r.Steps))
	for i, s := range r.Steps {
		c.Steps[i] = ChecklistStep{Text: s}
	}
	return c
}

func (c RitualChecklist) clone() RitualChecklist {
	c.Steps = append([]ChecklistStep{}, c.Steps...)
	return c
}

// Toggle 越界时原样返回
func (c RitualChecklist) Toggle(i int) RitualChecklist {
	if i < 0 || i >= len(c.Steps) {
		return c
	}
	out := c.clone()
	out.Steps[i].Done = !out.Steps[i].Done
	return out
}

func (c RitualChecklist) Reset() RitualChecklist {
	out := c.clone()
	for i := range out.Steps {
		out.Steps[i].Done = false
	}
	return out
}

func (c RitualChecklist) DoneCount() int {
	n := 0
	for _, s := range c.Steps {
		if s.Done {
			n++
		}
	}
	return n
}

// Progress 百分比，四舍五入，2/3 -> 67
func (c RitualChecklist) Progress() int {
	n := len(c.Steps)
	if n == 0 {
		return 0
	}
	return (c.DoneCount()*200 + n) / (2 * n)
}

func (c RitualChecklist) Complete() bool {
	return len(c.Steps) > 0 && c.DoneCount() == len(c.Steps)
}
