package health

import "fmt"

type statusError struct {
	code int
	text string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("backend answered %d %s", e.code, e.text)
}
