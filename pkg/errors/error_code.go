package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidVersion       ErrorCode = 110
	// ErrCodeEmptySeries is raised when a price series is too short to produce a return.
	ErrCodeEmptySeries ErrorCode = 120
	// ErrCodeMisalignedSeries is raised when series disagree on length or timestamps.
	ErrCodeMisalignedSeries ErrorCode = 121
	// ErrCodeDivisionByZero is raised for a zero price or a zero denominator.
	ErrCodeDivisionByZero ErrorCode = 122
	// ErrCodeUnorderedSeries is raised when timestamps are not strictly increasing.
	ErrCodeUnorderedSeries ErrorCode = 123
	// ErrCodeSingularMatrix is raised when regressors are collinear and the normal equations have no unique solution.
	ErrCodeSingularMatrix ErrorCode = 124

	// Data source errors (200-299)
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeNoDataFound           ErrorCode = 204

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301

	// Engine errors (600-699)
	ErrCodeBacktestInitFailed   ErrorCode = 601
	ErrCodeBacktestConfigError  ErrorCode = 602
	ErrCodeBacktestNoDataPaths  ErrorCode = 606
	ErrCodeBacktestNoResultsDir ErrorCode = 607
	ErrCodeBacktestNoDatasource ErrorCode = 608
	ErrCodeVersionMismatch      ErrorCode = 609

	// Output errors (700-799)
	ErrCodeResultWriteFailed ErrorCode = 700
	ErrCodeResultReadFailed  ErrorCode = 701
)
