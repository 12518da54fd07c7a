package logx

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// handler 文件部分异步写 JSON 行，控制台部分交给 tint 同步输出
type handler struct {
	cfg Config

	console slog.Handler

	mu    sync.Mutex
	file  *os.File
	size  int64
	curHr time.Time // RotateHourly 使用：当前小时

	qmu     sync.RWMutex // 保护 entries 的关闭
	entries chan slog.Record
	done    chan struct{}
	closed  bool
}

func newHandler(cfg Config) (*handler, error) {
	if cfg.AppName == "" {
		cfg.AppName = "app"
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}

	h := &handler{cfg: cfg}

	if cfg.ConsoleEnabled {
		w := cfg.Console
		if w == nil {
			w = os.Stdout
		}
		h.console = tint.NewHandler(w, &tint.Options{
			Level:      cfg.Level,
			TimeFormat: time.DateTime,
			NoColor:    !cfg.ConsoleColored,
		})
	}

	if cfg.LogDir != "" {
		if err := h.rotateIfNeeded(time.Now()); err != nil {
			return nil, err
		}
		h.entries = make(chan slog.Record, cfg.QueueSize)
		h.done = make(chan struct{})
		go h.writeLoop()
	}
	return h, nil
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.Level
}

// Handle 文件队列满则丢，不阻塞业务
func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	if h.console != nil {
		if err := h.console.Handle(ctx, r.Clone()); err != nil {
			log.Println("write console log failed:", err)
		}
	}
	h.qmu.RLock()
	defer h.qmu.RUnlock()
	if h.entries == nil || h.closed {
		return nil
	}
	select {
	case h.entries <- r.Clone():
	default:
		log.Println("log queue full, drop log")
	}
	return nil
}

// WithAttrs / WithGroup 不支持，所有 Attr 都由 encodeLog 提供
func (h *handler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *handler) WithGroup(_ string) slog.Handler { return h }

// Close 等待队列写完并关闭文件
func (h *handler) Close() error {
	h.qmu.Lock()
	if h.entries == nil || h.closed {
		h.qmu.Unlock()
		return nil
	}
	h.closed = true
	close(h.entries)
	h.qmu.Unlock()
	<-h.done

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	return err
}

func (h *handler) writeLoop() {
	defer close(h.done)
	for rec := range h.entries {
		if err := h.writeRecord(rec); err != nil {
			log.Println("write log failed:", err)
		}
	}
}

// writeRecord 把 Record 编码成一行 JSON 写入文件
func (h *handler) writeRecord(r slog.Record) error {
	if err := h.rotateIfNeeded(time.Now()); err != nil {
		return err
	}

	data := make(map[string]any, 16)
	data["ts"] = r.Time.Format(time.RFC3339Nano)
	data["level"] = r.Level.String()
	if r.Message != "" {
		data["tag"] = r.Message
	}
	r.Attrs(func(a slog.Attr) bool {
		v := a.Value.Resolve()
		if err, ok := v.Any().(error); ok {
			data[a.Key] = err.Error()
			return true
		}
		data[a.Key] = v.Any()
		return true
	})

	line, err := json.Marshal(data)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.file == nil {
		return nil
	}
	n, err := h.file.Write(line)
	h.size += int64(n)
	return err
}

// rotateIfNeeded 根据配置判断是否需要切分文件
func (h *handler) rotateIfNeeded(now time.Time) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	needNew := false
	switch h.cfg.Rotate {
	case RotateSize:
		if h.file == nil {
			needNew = true
		} else if h.cfg.MaxFileSizeMB > 0 && h.size >= int64(h.cfg.MaxFileSizeMB)*1024*1024 {
			needNew = true
		}
	default:
		hour := now.Truncate(time.Hour)
		if h.file == nil || !hour.Equal(h.curHr) {
			needNew = true
			h.curHr = hour
		}
	}
	if !needNew {
		return nil
	}

	if h.file != nil {
		_ = h.file.Close()
	}
	h.size = 0

	if err := os.MkdirAll(h.cfg.LogDir, 0o755); err != nil {
		return err
	}
	filename := h.buildFilename(now)
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	h.file = f

	// {AppName}.log 软链到当前文件
	linkPath := filepath.Join(h.cfg.LogDir, h.cfg.AppName+".log")
	_ = os.Remove(linkPath)
	_ = os.Symlink(filepath.Base(filename), linkPath)

	if h.cfg.MaxBackups > 0 {
		h.cleanupOldFiles()
	}
	return nil
}

func (h *handler) buildFilename(now time.Time) string {
	ts := now.Format("2006010215")
	if h.cfg.Rotate == RotateSize {
		ts = now.Format("20060102150405")
	}
	return filepath.Join(h.cfg.LogDir, fmt.Sprintf("%s-%s.log", h.cfg.AppName, ts))
}

// cleanupOldFiles 只保留最新 MaxBackups 个
func (h *handler) cleanupOldFiles() {
	entries, err := os.ReadDir(h.cfg.LogDir)
	if err != nil {
		log.Println("cleanupOldFiles ReadDir error:", err)
		return
	}

	type fi struct {
		name string
		t    time.Time
	}
	prefix := h.cfg.AppName + "-"
	files := make([]fi, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, fi{name: filepath.Join(h.cfg.LogDir, name), t: info.ModTime()})
	}
	if len(files) <= h.cfg.MaxBackups {
		return
	}

	sort.Slice(files, func(i, j int) bool { return files[i].t.After(files[j].t) })
	for _, f := range files[h.cfg.MaxBackups:] {
		_ = os.Remove(f.name)
	}
}
