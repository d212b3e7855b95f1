package formfeed

type parserState int

const (
	// scanning the preamble for the first delimiter line
	stateInit parserState = iota + 1
	stateHeaders
	stateData
	// final delimiter seen, the rest is epilogue
	stateEpilogue
	stateClosed
	stateFailed
)

func (s parserState) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateHeaders:
		return "headers"
	case stateData:
		return "data"
	case stateEpilogue:
		return "epilogue"
	case stateClosed:
		return "closed"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
