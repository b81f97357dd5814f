// Package ui provides the Bubble Tea terminal interface for LearnAI.
//
// # Architecture Overview
//
// Model is the root tea.Model. It owns no library or session state of its
// own: everything lives in a workflow.Controller, and the Model keeps only
// screen-local state (cursors, text inputs, the file picker, the article
// viewport). Network work runs inside tea.Cmds that report back as messages:
//
//   - refreshedMsg, uploadedMsg, deletedMsg: library mutations
//   - questionMsg, articleMsg: session responses, applied with the ticket
//     that started them so superseded responses are dropped
//   - diagMsg: the tail of the diagnostic log shown on Home
//
// # Package Structure
//
//   - app.go: Model, Options, Update/View, global keys, Run
//   - header.go: status header, view tabs, command bar
//   - home.go, library.go, quiz.go, article.go: one file per screen
//   - commands.go: tea.Cmds and the messages they produce
//   - theme.go, keys.go, help.go, layout.go, helpers.go: shared pieces
//
// # Views
//
// The four views map to workflow.View values and are switched through the
// controller's router, so leaving Quiz or Article resets that session while
// the library unlock survives.
//
// # Key Bindings
//
//   - h/u/q/a or 1-4: Home, Library, Quiz, Article
//   - tab/shift+tab: cycle views
//   - Library: enter unlock, space select, o upload, x delete selected,
//     D delete all, c clear, r refresh, L lock
//   - Quiz: j/k book, enter ask, 1-9 answer
//   - Article: j/k book, i topic, enter generate, ctrl+d/u scroll
//   - T: cycle theme (saved to prefs)
//   - ?: help
//   - ctrl+c: quit
package ui
