package logx

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

type caller struct {
	file     string
	line     int
	funcName string
}

// getCaller skip 从 getCaller 的调用方开始计数
func getCaller(skip int) caller {
	var pcs [1]uintptr
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return caller{funcName: "unknown"}
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	c := caller{
		file:     trimFilePath(frame.File),
		line:     frame.Line,
		funcName: "unknown",
	}
	if frame.Function != "" {
		c.funcName = trimFuncName(frame.Function)
	}
	return c
}

var (
	modRootOnce sync.Once
	modRoot     string
)

// trimFilePath /home/x/assistdash/httpclient/do.go -> httpclient/do.go
func trimFilePath(fullPath string) string {
	if fullPath == "" {
		return ""
	}
	modRootOnce.Do(func() { modRoot = findGoModRoot(fullPath) })
	if modRoot != "" {
		if rel, err := filepath.Rel(modRoot, fullPath); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return filepath.Base(fullPath)
}

func findGoModRoot(start string) string {
	dir := filepath.Dir(start)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// github.com/imattdu/assistdash/httpclient.(*Client).Fetch -> (*Client).Fetch
func trimFuncName(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.Index(name, "."); idx >= 0 && idx+1 < len(name) {
		name = name[idx+1:]
	}
	return name
}
