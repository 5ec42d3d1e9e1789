package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/bootstrap"
)

// seedWatchCmd represents the seed watch command
var seedWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a bootstrap document and apply it when it changes",
	Long: `Watch a bootstrap document and apply it whenever it is written.

The document is applied once on start. Each later write re-applies it;
since applying is idempotent, only new entities and edges are added.

Example:
  rbacctl seed watch /etc/rbac/bootstrap.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchSeed(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch seed file: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	seedCmd.AddCommand(seedWatchCmd)
}

func watchSeed(filename string) error {
	rt, err := loadDeps()
	if err != nil {
		return err
	}

	apply := func() {
		doc, err := bootstrap.Load(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading seed file: %v\n", err)
			return
		}
		result, err := applyDocument(rt.services, rt.logger, doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error applying seed file: %v\n", err)
			return
		}
		fmt.Printf("Seed applied from %s: %s\n", filename, result)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	apply()
	fmt.Printf("Watching %s for changes\n", filename)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] File modified, applying seed...\n", time.Now().Format(time.RFC3339))
				apply()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}
