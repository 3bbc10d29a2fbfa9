// stone-report renders a trailing-window PDF report from the local database
// to a file, without going through the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhangshanggaoqing-glitch/stone-record/internal/report"
	"github.com/zhangshanggaoqing-glitch/stone-record/internal/report/pdf"
	"github.com/zhangshanggaoqing-glitch/stone-record/internal/storage"
	"github.com/zhangshanggaoqing-glitch/stone-record/internal/store"
)

func main() {
	days := flag.Int("days", 7, "trailing window in days (1-365)")
	out := flag.String("out", "", "output path (default stone-report-<date>.pdf)")
	dbPath := flag.String("db", "./data/stone.db", "path to the database file")
	fontURL := flag.String("font-url", "", "HTTP URL of a TTF font with CJK coverage")
	fontFile := flag.String("font-file", "", "path to a local TTF font file")
	flag.Parse()

	_ = godotenv.Load()
	if err := run(*days, *out, *dbPath, *fontURL, *fontFile); err != nil {
		fmt.Fprintln(os.Stderr, "stone-report:", err)
		os.Exit(1)
	}
}

func run(days int, out, dbPath, fontURL, fontFile string) error {
	if days < 1 || days > 365 {
		return fmt.Errorf("days must be between 1 and 365, got %d", days)
	}

	var fonts pdf.FontProvider
	switch {
	case fontFile != "":
		fonts = pdf.FileFontProvider{Path: fontFile}
	case fontURL != "":
		fonts = pdf.NewHTTPFontProvider(fontURL, 30*time.Second)
	default:
		return fmt.Errorf("either -font-file or -font-url is required")
	}

	repo, err := storage.NewRepository(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()

	st := store.New(repo)
	st.Load(context.Background())

	doc := report.BuildDocument(st.RangeReport(days), st.CategoryByID)
	data, err := pdf.NewExporter(fonts).Render(context.Background(), doc)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if out == "" {
		out = fmt.Sprintf("stone-report-%s.pdf", time.Now().Format("20060102"))
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("wrote %s (%d days, %d bytes)\n", out, days, len(data))
	return nil
}
