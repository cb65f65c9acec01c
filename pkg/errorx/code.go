package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009
	TooManyRequests  Code = 100010

	// Pool codes
	AlreadyInitialized Code = 500001
	NotInitialized     Code = 500002
	Unauthorized       Code = 500003
	InvalidConfig      Code = 500004

	// Round codes
	RoundInactive   Code = 510001
	RoundEnded      Code = 510002
	RoundNotEnded   Code = 510003
	RoundNotFound   Code = 510004
	RoundHasPlayers Code = 510005
	NoPlayers       Code = 510006

	// Entry codes
	BelowMinimum         Code = 520001
	DuplicateEntry       Code = 520002
	AlreadyClaimed       Code = 520003
	NotEligibleForRefund Code = 520004
	WinnerNotSelected    Code = 520005
	RolledOver           Code = 520006

	// Asset codes
	InsufficientBalance Code = 530001
)
