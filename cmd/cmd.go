// Package cmd provides CLI commands for quill.
//
// Commands:
//   - chat: Interactive terminal chat with Bubble Tea TUI
//   - version: Version and configuration information
//
// Signal handling and graceful shutdown are implemented via context
// cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
)

// Execute is the main entry point for the quill CLI application.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) < 2 {
		// No subcommand starts the chat screen directly
		return runChat()
	}

	switch os.Args[1] {
	case "chat":
		return runChat()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("Quill - Terminal chat with image and document attachments")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  quill [chat]       Start interactive chat mode (default)")
	fmt.Println("  quill --version    Show version information")
	fmt.Println("  quill --help       Show this help")
	fmt.Println()
	fmt.Println("Chat Commands (in interactive mode):")
	fmt.Println("  /help              Show available commands")
	fmt.Println("  /image <path>      Attach an image to the next message")
	fmt.Println("  /upload <path>     Upload a document to the ingestion endpoint")
	fmt.Println("  /clear             Clear the transcript")
	fmt.Println("  /exit, /quit       Exit quill")
	fmt.Println()
	fmt.Println("Shortcuts:")
	fmt.Println("  Ctrl+D             Exit quill")
	fmt.Println("  Ctrl+C             Clear current input (twice to exit)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  QUILL_UPLOAD_ENDPOINT   Optional: document ingestion endpoint")
	fmt.Println("  QUILL_RETRIEVAL_MODE    Optional: hide the image attachment affordance")
	fmt.Println("  QUILL_CONVERSATION_ID   Optional: pin an existing conversation")
	fmt.Println("  DEBUG                   Optional: enable debug logging")
	fmt.Println()
	fmt.Println("Learn more: https://github.com/quillchat/quill")
}
