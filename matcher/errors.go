package matcher

// InvalidRegex is returned by Compile when the query, interpreted as a
// regular expression, fails to compile. Detail carries the stdlib
// diagnostic verbatim so an interactive caller can surface it inline.
type InvalidRegex struct {
	Query  string
	Detail error
}

func (e *InvalidRegex) Error() string {
	return "indexa: matcher: invalid regex " + e.Query + ": " + e.Detail.Error()
}

func (e *InvalidRegex) Unwrap() error { return e.Detail }
