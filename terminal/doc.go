// @focus: #sys { term }
// Package terminal hosts the agent in a tcell screen.
//
// Features:
//   - Container sized to the screen, minus the status line
//   - Sprite drawing with mirroring while walking left
//   - Speech bubble boxes measured and drawn with lipgloss
//   - Mouse clicks hit-tested against the agent, key bindings for the API lifecycle
//   - Manifest hot reload and a hand-off signal once the redirect state is entered
//
// Every screen event is posted to the engine loop, so the agent is only touched on the loop goroutine.
package terminal
