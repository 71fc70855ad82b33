package apperror

type Kind string

var (
	InvalidInput   Kind = "invalid_input"
	NotFound       Kind = "not_found"
	RequestTimeout Kind = "request_timeout"
	Internal       Kind = "internal"
	Dependency     Kind = "dependency_failure"
	DatabaseErr    Kind = "database_error"
)
