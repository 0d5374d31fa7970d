package jira

// Result is the envelope returned by every Jira operation.
// Exactly one of Data or Error is meaningful, depending on Success.
type Result[T any] struct {
	Success bool
	Data    T
	Error   string
}

func ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func fail[T any](msg string) Result[T] {
	return Result[T]{Error: msg}
}

// failAs carries the error of another result into a result of a different type.
func failAs[T, U any](r Result[U]) Result[T] {
	return fail[T](r.Error)
}
