package status

type Status string

// Closed set of submission outcomes kept in the database. Everything the
// remote side reports is mapped into this set before storage.
const (
	Accepted          Status = "Accepted"
	WrongAnswer       Status = "Wrong Answer"
	TimeLimitExceeded Status = "Time Limit Exceeded"
	RuntimeError      Status = "Runtime Error"
	CompileError      Status = "Compile Error"
)

var normalizeTable = map[string]Status{
	"Accepted":              Accepted,
	"Wrong Answer":          WrongAnswer,
	"Time Limit Exceeded":   TimeLimitExceeded,
	"Memory Limit Exceeded": TimeLimitExceeded,
	"Output Limit Exceeded": WrongAnswer,
	"Runtime Error":         RuntimeError,
	"Compile Error":         CompileError,
	"Compilation Error":     CompileError,
	"Internal Error":        RuntimeError,
}

// Normalize maps a remote status display string into the closed set.
// Unrecognized strings fall back to WrongAnswer.
func Normalize(remote string) Status {
	if s, ok := normalizeTable[remote]; ok {
		return s
	}
	return WrongAnswer
}

func (s Status) Valid() bool {
	switch s {
	case Accepted, WrongAnswer, TimeLimitExceeded, RuntimeError, CompileError:
		return true
	}
	return false
}
