package logx

const (
	TagUndef       = "undef"
	TagStartup     = "startup"
	TagShutdown    = "shutdown"
	TagRequestIn   = "request_in"
	TagRequestOut  = "request_out"
	TagHttpSuccess = "http_success"
	TagHttpFailure = "http_failure"
	TagHttpRetry   = "http_retry"
	TagDashboard   = "dashboard"

	Cost = "cost"
	Msg  = "msg"
	Err  = "err"

	Remote   = "remote"
	Method   = "method"
	URL      = "url"
	Path     = "path"
	Query    = "query"
	Endpoint = "endpoint"
	Route    = "route"
	Status   = "status"
	Body     = "body"
	Response = "response"

	Attempt     = "attempt"
	Attempts    = "attempts"
	MaxAttempts = "max_attempts"
	Delay       = "delay"

	Kind      = "kind"
	Retryable = "retryable"
	Section   = "section"
)
