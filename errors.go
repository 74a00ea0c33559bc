package wrds

import "fmt"

// ConnectError reports a failure to open a session against the warehouse:
// bad credentials, unreachable host, refused connection. The driver error
// is wrapped unchanged.
type ConnectError struct {
	Host string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("wrds: connect to %s: %v", e.Host, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// QueryError reports SQL rejected by the server. The server message is
// wrapped unchanged; no translation is applied.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("wrds: query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// ParseError reports output from the server that did not match the shape
// this client expects, e.g. an EXPLAIN plan without a row estimate.
type ParseError struct {
	What string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("wrds: parse %s", e.What)
}
