package dashboard

import (
	"fmt"
	"sort"

	"github.com/imattdu/assistdash/assistant"
)

// ToolPanel 选中的工具及其参数
type ToolPanel struct {
	Selected   string            `json:"selected"`
	Parameters map[string]string `json:"parameters"`
}

// Select 切换工具时参数清空为空串
func (p ToolPanel) Select(name string) (ToolPanel, error) {
	spec, ok := assistant.LookupTool(name)
	if !ok {
		return p, fmt.Errorf("unknown tool %q", name)
	}
	params := make(map[string]string, len(spec.Parameters))
	for k := range spec.Parameters {
		params[k] = ""
	}
	return ToolPanel{Selected: name, Parameters: params}, nil
}

func (p ToolPanel) Set(key, value string) (ToolPanel, error) {
	if p.Selected == "" {
		return p, fmt.Errorf("no tool selected")
	}
	if _, ok := p.Parameters[key]; !ok {
		return p, fmt.Errorf("tool %s has no parameter %q", p.Selected, key)
	}
	params := make(map[string]string, len(p.Parameters))
	for k, v := range p.Parameters {
		params[k] = v
	}
	params[key] = value
	return ToolPanel{Selected: p.Selected, Parameters: params}, nil
}

// Keys 参数名排序后返回
func (p ToolPanel) Keys() []string {
	keys := make([]string, 0, len(p.Parameters))
	for k := range p.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p ToolPanel) Call() (assistant.ToolCall, error) {
	if p.Selected == "" {
		return assistant.ToolCall{}, fmt.Errorf("no tool selected")
	}
	params := make(map[string]any, len(p.Parameters))
	for k, v := range p.Parameters {
		params[k] = v
	}
	return assistant.ToolCall{ToolName: p.Selected, Parameters: params}, nil
}
