//go:build !noebiten

package matrixquiz

import (
	"context"
	"errors"

	"github.com/opd-ai/go-matrixquiz/internal/render"
)

// runWindow runs the Ebiten game loop until the window is closed or ctx
// is cancelled.
func (q *quizImpl) runWindow(ctx context.Context) error {
	q.mu.Lock()
	game := render.NewGame(renderConfig(q.cfg), q.session)
	game.SetContext(ctx)
	game.SetRenderHook(q.metrics.RenderHook())
	game.SetErrorHandler(q.handleGameError)
	q.game = game
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.game = nil
		q.mu.Unlock()
	}()

	err := game.Run()
	if errors.Is(err, render.ErrGameTerminated) {
		return nil
	}
	return err
}
