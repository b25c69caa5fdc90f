// Package ui contains the Bubble Tea program that renders the solar dashboard.
// The Model type focuses on message orchestration while dedicated helpers own
// navigation, input, rendering and backend updates.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. Each tea.Msg type
//     is routed through a typed handler registry to a focused function (key
//     presses, window size, health results, store snapshots, chat replies).
//   - Navigation helpers (navigation.go) move the sidebar cursor, push routes
//     onto the router.History and walk back on esc. Filter helpers (input.go)
//     keep text entry isolated from the event loop.
//
// State ownership:
//   - The sidebar is an internal/ui/state.Level over the route table. It tracks
//     the fuzzy filter, cursor and viewport.
//   - The API status, loading and assistant panel flags live in a
//     state.AppStore. The UI reads them while rendering and subscribes to
//     snapshots so writes from other goroutines trigger a redraw.
//   - API calls run asynchronously through the internal/ui/command bus.
//
// Backend interactions:
//   - A backend.Watcher polls the health endpoint. Its events are handed to the
//     dispatcher, which records the API status in the store.
//   - ctrl+r asks the watcher for an immediate poll. Without a watcher a
//     one-off health check runs through the command bus instead.
//   - The assistant panel posts to the chat endpoint and renders the reply's
//     structured sections (tables, steps, actions) below the page.
package ui
