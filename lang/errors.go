package lang

// ErrorCode identifies the kind of an error value.
type ErrorCode int64

const (
	ErrSyntax           ErrorCode = 0
	ErrMaxEvalDepth     ErrorCode = 1
	ErrUnknownOp        ErrorCode = 2
	ErrApplyNil         ErrorCode = 3
	ErrInvalidParamType ErrorCode = 4
	ErrOutOfBounds      ErrorCode = 5
	ErrForbidden        ErrorCode = 403
	ErrNotFound         ErrorCode = 404
	ErrFatal            ErrorCode = 500
)

var errorDescriptions = map[ErrorCode]string{
	ErrSyntax:           "syntax error.",
	ErrMaxEvalDepth:     "deepest level of evaluation reached.",
	ErrUnknownOp:        "unknown operation.",
	ErrApplyNil:         "cannot apply nil.",
	ErrInvalidParamType: "invalid or no parameter given.",
	ErrOutOfBounds:      "out of bounds.",
	ErrForbidden:        "forbidden.",
	ErrNotFound:         "not found.",
	ErrFatal:            "fatal error in native function.",
}

// Description returns the fixed human readable text for the code.
func (c ErrorCode) Description() string {
	if d, ok := errorDescriptions[c]; ok {
		return d
	}
	return "unknown error."
}
