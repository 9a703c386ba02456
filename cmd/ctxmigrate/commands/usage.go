package commands

import "fmt"

// 📖 UsageError reports a command line the tool cannot run. The caller prints it on
// stdout and exits 1 without touching any file.
type UsageError struct {
	Use string // command line synopsis after the binary name
	Err error  // underlying flag error, if any
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v\nUsage: ctxmigrate %s", e.Err, e.Use)
	}
	return "Usage: ctxmigrate " + e.Use
}

func (e *UsageError) Unwrap() error {
	return e.Err
}
