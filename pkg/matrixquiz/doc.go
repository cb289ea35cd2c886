// Package matrixquiz embeds the matrix guessing game in Go applications.
//
// A round samples a secret 2×2 integer matrix and draws it as the image of
// the unit square on a Cartesian plane. The player types the four entries of
// a guess, which is drawn live on a second plane, and checks it for an exact
// match.
//
// # Basic Usage
//
//	q, err := matrixquiz.New("quiz.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := q.Run(context.Background()); err != nil {
//		log.Fatal(err)
//	}
//
// Run blocks until the window is closed or the context is cancelled. Ebiten
// requires the window loop on the main goroutine, so call Run from main.
//
// # Configuration Sources
//
//   - New: a Lua file on disk, or the defaults when the path is empty
//   - NewFromFS: a file inside an fs.FS such as an embed.FS
//   - NewFromReader: Lua source from any io.Reader
//
// # Headless Use
//
// With Options.Headless set, Run waits for the context without opening a
// window. The session stays fully usable through Session, and Snapshot
// writes either plane as a PNG image.
//
// # Hot Reload
//
// Options.WatchConfig reloads a file-based configuration whenever it changes
// on disk. Repeatedly failing reloads are rejected for a cool-down period so
// a half-edited file does not flood the error handler.
package matrixquiz
