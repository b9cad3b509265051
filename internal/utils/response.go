package utils

import "mkt-settlement-api/internal/constant"

// Response is the uniform API envelope.
type Response struct {
	Code    int         `json:"code"`
	Msg     string      `json:"msg"`
	Data    interface{} `json:"data,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
}

func Success(data interface{}) Response {
	return Response{
		Code: constant.CodeSuccess,
		Msg:  "success",
		Data: data,
	}
}

func Error(code int) Response {
	if info, exists := constant.GetErrorInfo(code); exists {
		return Response{Code: code, Msg: info.Message}
	}
	return Response{Code: code, Msg: "unknown error"}
}

func ErrorWithData(code int, data interface{}) Response {
	r := Error(code)
	r.Data = data
	return r
}

func CustomError(code int, message string) Response {
	return Response{Code: code, Msg: message}
}

// FromErr maps a coded business error onto the envelope; everything else
// collapses to the internal error code.
func FromErr(err error) Response {
	if ce, ok := err.(constant.Error); ok {
		return Response{Code: ce.Code(), Msg: ce.Message()}
	}
	return Error(constant.CodeInternal)
}
