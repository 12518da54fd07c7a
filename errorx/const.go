package errorx

// Kind 是暴露给展示层的错误大类
type Kind string

const (
	KindCORS       Kind = "cors"
	KindNetwork    Kind = "network"
	KindServer     Kind = "server"
	KindDeployment Kind = "deployment"
	KindUnknown    Kind = "unknown"
)

// CodeEntry 表示一个错误类别 + 默认文案 + 是否可重试。
// 建议只在这里集中定义，业务用变量名，不直接写裸文案。
type CodeEntry struct {
	Kind      Kind   `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// -------------------- 分类结果 --------------------

var (
	ErrCORS       = CodeEntry{Kind: KindCORS, Message: "Backend deployment in progress", Retryable: true}
	ErrDeployment = CodeEntry{Kind: KindDeployment, Message: "Backend service unavailable", Retryable: true}
	ErrServer     = CodeEntry{Kind: KindServer, Message: "Backend service error", Retryable: true}
	ErrRequest    = CodeEntry{Kind: KindServer, Message: "Request error", Retryable: false}
	ErrConnection = CodeEntry{Kind: KindNetwork, Message: "Connection error", Retryable: true}
)

// -------------------- 客户端自身产生的终止错误 --------------------

var (
	ErrCanceled   = CodeEntry{Kind: KindUnknown, Message: "Request canceled", Retryable: false}
	ErrMaxRetries = CodeEntry{Kind: KindUnknown, Message: "Max retries exceeded", Retryable: false}
	ErrInvalid    = CodeEntry{Kind: KindUnknown, Message: "Invalid request", Retryable: false}
	ErrDecode     = CodeEntry{Kind: KindUnknown, Message: "Invalid backend response", Retryable: false}
)

// -------------------- details 文案 --------------------

const (
	detailCORS       = "The backend service is updating. Please wait 2-3 minutes and try again."
	detailDeployment = "The backend service may be deploying or temporarily unavailable. This usually resolves in 2-3 minutes."
	detailNoConnect  = "Unable to connect to backend service"
	defaultBadStatus = "Bad request"
	retryingNotice   = "Retrying automatically..."
)
