package errorx

// FormatForUser 给展示层的多行文案
func FormatForUser(e *Error) string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Details != "" {
		msg += "\n\n" + e.Details
	}
	if e.Retryable {
		msg += "\n\n" + retryingNotice
	}
	return msg
}
