package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/yungbote/itinerum-backend/internal/app"
	"github.com/yungbote/itinerum-backend/internal/data/db"
	"github.com/yungbote/itinerum-backend/internal/data/repos"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
	"github.com/yungbote/itinerum-backend/internal/schema"
	"github.com/yungbote/itinerum-backend/internal/seed"
)

type fileList []string

func (l *fileList) String() string { return strings.Join(*l, ",") }
func (l *fileList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

func main() {
	var files fileList
	var withStack bool
	var dryRun bool
	flag.Var(&files, "file", "survey definition YAML (repeatable)")
	flag.BoolVar(&withStack, "with-default-stack", false, "write the mandatory default questions into each survey")
	flag.BoolVar(&dryRun, "dry-run", false, "validate files without writing")
	flag.Parse()

	if len(files) == 0 {
		fmt.Println("at least one -file is required")
		os.Exit(2)
	}

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	defs, err := seed.LoadFiles(ctx, files)
	if err != nil {
		log.Error("Loading survey files failed", "error", err)
		os.Exit(1)
	}
	if dryRun {
		for _, d := range defs {
			fmt.Printf("[dry-run] %s: survey %q (%d questions, %d prompts)\n", d.Path, d.Name, len(d.Questions), len(d.Prompts))
		}
		return
	}

	cfg := app.LoadConfig(log)
	catalog := schema.DefaultCatalog
	if cfg.SurveyRevisionsFile != "" {
		catalog = func() (*schema.Catalog, error) { return schema.LoadCatalogFile(cfg.SurveyRevisionsFile) }
	}
	cat, err := catalog()
	if err != nil {
		log.Error("Loading survey catalog failed", "error", err)
		os.Exit(1)
	}

	pg, err := db.NewPostgresService(log, cfg.Postgres)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	defer pg.Close()
	if err := pg.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}

	seeder := seed.NewSeeder(seed.SeederDeps{
		DB:               pg.DB(),
		Log:              log,
		Surveys:          repos.NewSurveyRepo(pg.DB(), log),
		Catalog:          cat,
		WithDefaultStack: withStack,
	})

	failed := 0
	for _, d := range defs {
		res, err := seeder.Upsert(ctx, d)
		if err != nil {
			failed++
			log.Error("Seeding survey failed", "file", d.Path, "error", err)
			continue
		}
		verb := "updated"
		if res.Created {
			verb = "created"
		}
		fmt.Printf("%s survey %q id=%s revision=%s\n", verb, res.Name, res.SurveyID, res.Revision)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
