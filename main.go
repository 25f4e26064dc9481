// Command catalog-scanner extracts item names from a screen recording of
// scrolling through an in-game catalog list.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/akamensky/argparse"

	"github.com/tmartin357/CatalogScanner/internal/refdb"
	"github.com/tmartin357/CatalogScanner/internal/scan"
	"github.com/tmartin357/CatalogScanner/internal/translate"
	"github.com/tmartin357/CatalogScanner/internal/version"
	"github.com/tmartin357/CatalogScanner/internal/video"
)

func main() {
	parser := argparse.NewParser("catalog-scanner",
		"Extracts item names from a video of scrolling through an in-game list")
	input := parser.String("i", "input", &argparse.Options{Help: "Input video or screenshot file", Required: true})
	modeName := parser.String("m", "mode", &argparse.Options{Help: "Scan type: auto, music or recipes", Default: "auto"})
	locale := parser.String("l", "locale", &argparse.Options{Help: "Output locale for item names", Default: "auto"})
	forSale := parser.Flag("", "for-sale", &argparse.Options{Help: "Skip items that are not for sale"})
	dbDir := parser.String("d", "db-dir", &argparse.Options{Help: "Reference database directory", Default: "db"})
	verbose := parser.Flag("v", "verbose", &argparse.Options{Help: "Enable debug logging"})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	log.Debug("catalog-scanner", "version", version.Version, "commit", version.GitCommit, "built", version.BuildTime)

	if err := run(*input, *modeName, *locale, *forSale, *dbDir, log); err != nil {
		log.Error("scan failed", "error", err)
		os.Exit(1)
	}
}

func run(input, modeName, locale string, forSale bool, dbDir string, log *slog.Logger) error {
	// Reject bad requests before touching the video.
	mode, err := scan.ParseMode(modeName)
	if err != nil {
		return err
	}
	if !translate.Valid(locale) {
		return fmt.Errorf("%w: %q", translate.ErrUnknownLocale, locale)
	}

	scanner, cleanup, err := buildScanner(mode, input, dbDir, locale, log)
	if err != nil {
		return err
	}
	defer cleanup()

	src, err := openSource(input)
	if err != nil {
		return err
	}
	defer src.Close()

	res, err := scanner.Scan(src, scan.Options{Locale: locale, ForSale: forSale})
	if err != nil {
		return err
	}

	fmt.Printf("Found %d items in %s [%s]\n", len(res.Items), res.Mode, res.Locale)
	for _, item := range res.Items {
		fmt.Println(item)
	}
	return nil
}

// buildScanner constructs the scanner for the requested mode, probing the
// video first when the mode is auto. The returned cleanup releases the
// loaded reference databases.
func buildScanner(mode scan.Mode, input, dbDir, locale string, log *slog.Logger) (scan.Scanner, func(), error) {
	switch mode {
	case scan.ModeMusic:
		return musicScanner(dbDir, locale, log)
	case scan.ModeRecipes:
		return recipesScanner(dbDir, locale, log)
	}

	music, closeMusic, err := musicScanner(dbDir, locale, log)
	if err != nil {
		return nil, nil, err
	}
	recipes, closeRecipes, err := recipesScanner(dbDir, locale, log)
	if err != nil {
		closeMusic()
		return nil, nil, err
	}
	cleanup := func() {
		closeMusic()
		closeRecipes()
	}

	// Sources are not restartable, so detection consumes its own copy.
	probe, err := openSource(input)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	scanner, err := scan.DetectMode(probe, []scan.Scanner{music, recipes})
	probe.Close()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	log.Info("detected video mode", "mode", scanner.Mode())
	return scanner, cleanup, nil
}

func musicScanner(dbDir, locale string, log *slog.Logger) (scan.Scanner, func(), error) {
	dir := filepath.Join(dbDir, "music")
	db, err := refdb.Load(filepath.Join(dir, "catalog.json"), refdb.LoadOptions{})
	if err != nil {
		return nil, nil, err
	}
	table, err := loadTable(filepath.Join(dir, "translations.json"), locale)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	s, err := scan.NewMusicScanner(db, table, scan.DefaultMusicParams(), log)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return s, db.Close, nil
}

func recipesScanner(dbDir, locale string, log *slog.Logger) (scan.Scanner, func(), error) {
	dir := filepath.Join(dbDir, "recipes")
	db, err := refdb.Load(filepath.Join(dir, "catalog.json"), scan.RecipeLoadOptions(filepath.Join(dir, "images")))
	if err != nil {
		return nil, nil, err
	}
	table, err := loadTable(filepath.Join(dir, "translations.json"), locale)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	s, err := scan.NewRecipesScanner(db, table, scan.DefaultRecipesParams(), log)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return s, db.Close, nil
}

// loadTable reads the mode's translation table, skipped entirely for the
// default locale since it passes names through.
func loadTable(path, locale string) (translate.Table, error) {
	resolved, err := translate.Resolve(locale)
	if err != nil {
		return nil, err
	}
	if resolved == translate.DefaultLocale {
		return nil, nil
	}
	return translate.LoadTable(path)
}

// openSource opens the input as a video, or as a one-frame source for
// screenshot files.
func openSource(path string) (video.Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
		return video.OpenStill(path)
	default:
		return video.OpenFile(path)
	}
}
