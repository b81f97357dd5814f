// Package cli is the cobra command tree behind the learnai binary.
//
// The bare command opens the terminal interface. The subcommands run one
// operation against the same workflow.Controller and exit:
//
//	learnai books [-o table|json|yaml]
//	learnai upload <file.pdf> [--secret S]
//	learnai delete <book-id>... [--secret S]
//	learnai delete --all [--yes] [--secret S]
//	learnai ask <book-id>
//	learnai article <book-id> <topic...> [--raw]
//	learnai page <book-id> <n> [-o file]
//	learnai logs [-n 50]
//
// Secrets missing from the flags are read from stdin, without echo on a
// terminal. Errors print the same messages the TUI shows.
package cli
