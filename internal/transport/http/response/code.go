package response

import "net/http"

// 业务码直接基于 HTTP 语义
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeServerError     = 500
)

// CodeMsgMap 集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:              "OK",
	CodeBadRequest:      "Bad Request",
	CodeUnauthorized:    "Unauthorized",
	CodeForbidden:       "Forbidden",
	CodeNotFound:        "Not Found",
	CodeConflict:        "Conflict",
	CodeTooManyRequests: "Too Many Requests",
	CodeServerError:     "Internal Server Error",
}

// Status 业务码到 HTTP 状态码
func Status(code int) int {
	if code == CodeOK {
		return http.StatusOK
	}
	if _, ok := CodeMsgMap[code]; ok {
		return code
	}
	return http.StatusInternalServerError
}
