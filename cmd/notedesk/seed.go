package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"notedesk/internal/controller"
	"notedesk/internal/model"
)

var seedFile string

// seedDocument is the shape of a --file import. Categories are created
// before notes so the notes can reference them.
type seedDocument struct {
	Categories []seedCategory `yaml:"categories"`
	Notes      []seedNote     `yaml:"notes"`
}

type seedCategory struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type seedNote struct {
	Title     string `yaml:"title"`
	Content   string `yaml:"content"`
	Category  string `yaml:"category"`
	Priority  string `yaml:"priority"`
	Completed bool   `yaml:"completed"`
	DueDate   string `yaml:"due_date"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import demo categories and notes from a YAML file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ctrl, closeRepo, err := buildController(ctx)
		if err != nil {
			fatal("open database", err)
		}
		defer closeRepo()

		doc, err := readSeedFile(seedFile)
		if err != nil {
			fatal("read seed file", err)
		}

		created, err := importSeed(ctx, ctrl, doc)
		if err != nil {
			fatal("import", err)
		}
		fmt.Printf("imported %d note(s)\n", created)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML file to import")
	_ = seedCmd.MarkFlagRequired("file")
}

func readSeedFile(path string) (seedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return seedDocument{}, err
	}
	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return seedDocument{}, fmt.Errorf("parse yaml: %w", err)
	}
	return doc, nil
}

func importSeed(ctx context.Context, ctrl *controller.Controller, doc seedDocument) (int, error) {
	for _, cat := range doc.Categories {
		err := ctrl.AddCategory(ctx, cat.Name, cat.Color)
		if err != nil && !errors.Is(err, controller.ErrDuplicateCategory) {
			return 0, fmt.Errorf("category %q: %s", cat.Name, controller.Reason(err))
		}
	}

	created := 0
	for _, n := range doc.Notes {
		opts := controller.CreateOptions{
			Content:  n.Content,
			Category: n.Category,
			Priority: model.Priority(n.Priority),
		}
		if n.DueDate != "" {
			due, err := time.Parse("2006-01-02", n.DueDate)
			if err != nil {
				return created, fmt.Errorf("note %q: bad due_date %q", n.Title, n.DueDate)
			}
			opts.DueDate = &due
		}
		note, err := ctrl.CreateNote(ctx, n.Title, opts)
		if err != nil {
			return created, fmt.Errorf("note %q: %s", n.Title, controller.Reason(err))
		}
		if n.Completed {
			if err := ctrl.ToggleCompleted(ctx, note.ID); err != nil {
				return created, fmt.Errorf("note %q: %s", n.Title, controller.Reason(err))
			}
		}
		created++
	}
	return created, nil
}
