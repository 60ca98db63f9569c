// The indexer walks a directory of study material and loads it into the
// knowledge base. File names follow the Category_Unit_Topic_Year_Code
// convention, e.g. Notes_CSC231_Firewalls_2024_01.md or
// PastPaper_CSC231_Main_2023_02.txt.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/studymate-app/web-ui/internal/notes"
)

type fileMeta struct {
	category string
	unitCode string
	topic    string
	year     string
}

// parseFileName splits a base name (without extension) on underscores.
// Missing trailing fields are tolerated; at minimum a category and unit code
// are required.
func parseFileName(name string) (fileMeta, error) {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return fileMeta{}, fmt.Errorf("file name %q does not follow Category_Unit_Topic_Year_Code", name)
	}

	meta := fileMeta{
		category: parts[0],
		unitCode: strings.ToUpper(parts[1]),
	}
	switch {
	case len(parts) >= 5:
		meta.topic = strings.Join(parts[2:len(parts)-2], " ")
		meta.year = parts[len(parts)-2]
	case len(parts) == 4:
		meta.topic = parts[2]
		meta.year = parts[3]
	case len(parts) == 3:
		meta.topic = parts[2]
	}
	return meta, nil
}

func indexFile(ctx context.Context, store *notes.Store, path string, meta fileMeta) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if strings.EqualFold(meta.category, "pastpaper") || strings.EqualFold(meta.category, "paper") {
		return store.PutPaper(ctx, notes.Paper{
			UnitCode: meta.unitCode,
			Year:     meta.year,
			Content:  string(content),
		})
	}

	_, err = store.PutNote(ctx, notes.Note{
		UnitCode: meta.unitCode,
		Topic:    meta.topic,
		Year:     meta.year,
		Content:  string(content),
	})
	return err
}

func main() {
	dataDir := flag.String("data", "data", "directory containing study material")
	dbPath := flag.String("db", "store.db", "path to the knowledge base file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	store, err := notes.NewStore(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	indexed := 0

	err = filepath.WalkDir(*dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".txt" {
			return nil
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		meta, err := parseFileName(name)
		if err != nil {
			logger.Warn("Skipping file", slog.String("path", path), slog.String("reason", err.Error()))
			return nil
		}

		if err := indexFile(ctx, store, path, meta); err != nil {
			return err
		}

		indexed++
		logger.Info("Indexed file",
			slog.String("path", path),
			slog.String("category", meta.category),
			slog.String("unitCode", meta.unitCode))
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	logger.Info("Indexing complete", slog.Int("files", indexed))
}
