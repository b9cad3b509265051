package constant

import "fmt"

const (
	CodeSuccess = 0

	// business errors
	CodeBadRequest         = 4000
	CodeMerchantInvalid    = 4001
	CodeNoCommissionRule   = 4002
	CodeAmountFormat       = 4003
	CodeOrderNotFound      = 4004
	CodeRefundExceedsLine  = 4005
	CodeRefundNotFound     = 4006
	CodeRefundStateInvalid = 4007
	CodeSettlementNotFound = 4008
	CodeSettlementConflict = 4009
	CodeSettlementPaid     = 4010
	CodeRuleInvalid        = 4011
	CodeOrderStateInvalid  = 4012
	CodeUnauthorized       = 4100

	CodeInternal = 5000
)

type ErrorInfo struct {
	Message string
}

var ErrorMessages = map[int]ErrorInfo{
	CodeSuccess:            {"success"},
	CodeBadRequest:         {"bad request"},
	CodeMerchantInvalid:    {"merchant invalid"},
	CodeNoCommissionRule:   {"no commission rule resolvable and no global default configured"},
	CodeAmountFormat:       {"amount format error"},
	CodeOrderNotFound:      {"order not found"},
	CodeRefundExceedsLine:  {"refund exceeds remaining line quantity"},
	CodeRefundNotFound:     {"refund not found"},
	CodeRefundStateInvalid: {"refund state transition not allowed"},
	CodeSettlementNotFound: {"settlement not found"},
	CodeSettlementConflict: {"order already attached to a settlement"},
	CodeSettlementPaid:     {"settlement already paid"},
	CodeRuleInvalid:        {"commission rule invalid"},
	CodeOrderStateInvalid:  {"order state does not allow this operation"},
	CodeUnauthorized:       {"unauthorized"},
	CodeInternal:           {"internal error"},
}

// Error carries a response code alongside the message.
type Error interface {
	error
	Code() int
	Message() string
}

type codedError struct {
	code    int
	message string
}

func (e *codedError) Error() string   { return fmt.Sprintf("code: %d, message: %s", e.code, e.message) }
func (e *codedError) Code() int       { return e.code }
func (e *codedError) Message() string { return e.message }

// NewError creates an error from the registry.
func NewError(code int) Error {
	if info, ok := ErrorMessages[code]; ok {
		return &codedError{code: code, message: info.Message}
	}
	return &codedError{code: code, message: "unknown error"}
}

// NewErrorf creates a coded error with a custom message.
func NewErrorf(code int, format string, args ...any) Error {
	return &codedError{code: code, message: fmt.Sprintf(format, args...)}
}

// GetErrorInfo returns the registered message for a code.
func GetErrorInfo(code int) (ErrorInfo, bool) {
	info, ok := ErrorMessages[code]
	return info, ok
}
