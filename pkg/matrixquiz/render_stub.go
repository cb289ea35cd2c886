//go:build noebiten

package matrixquiz

import "context"

// runWindow has no window to open in noebiten builds and waits for ctx.
func (q *quizImpl) runWindow(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
