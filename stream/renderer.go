package stream

// A Renderer displays frames produced by the Controller. Render is called on the
// Controller's goroutine once per frame and must not retain f's slices for
// mutation.
type Renderer interface {
	Render(f *Frame) error
}

// RendererFunc adapts a function to a Renderer.
type RendererFunc func(f *Frame) error

// Render calls fn(f).
func (fn RendererFunc) Render(f *Frame) error {
	return fn(f)
}
