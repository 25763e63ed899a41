package render

// Renderer writes a use case result for the terminal
type Renderer[T any] interface {
	Render(result T) error
}
