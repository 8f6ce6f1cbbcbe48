package entry

// Handler is the single-method shape every notification accepts. A bare
// function is adapted with HandlerFunc.
type Handler[T any] interface {
	HandleEvent(v T)
}

type HandlerFunc[T any] func(v T)

func (f HandlerFunc[T]) HandleEvent(v T) {
	f(v)
}

type ErrorHandler = Handler[error]

// VoidHandler receives operations that succeed without a value.
type VoidHandler = Handler[struct{}]

func notify[T any](h Handler[T], v T) {
	if h == nil {
		return
	}
	if f, ok := h.(HandlerFunc[T]); ok && f == nil {
		return
	}
	h.HandleEvent(v)
}

// settle delivers exactly one of success or failure.
func settle[T any](success Handler[T], failure ErrorHandler, v T, err error) {
	if err != nil {
		notify(failure, err)
		return
	}
	notify(success, v)
}
