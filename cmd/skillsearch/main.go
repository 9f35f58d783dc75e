// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/skillsearch"
	"github.com/poiesic/skillsearch/ai"
	"github.com/poiesic/skillsearch/core"
	"github.com/poiesic/skillsearch/pipeline"
	"github.com/poiesic/skillsearch/search"
	"github.com/poiesic/skillsearch/storage"
	"github.com/poiesic/skillsearch/taxonomy"
	"github.com/urfave/cli/v2"
)

func main() {
	// Local overrides for development; absence of the file is fine.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "skillsearch",
		Usage: "Semantic search over a skills taxonomy",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"SKILLSEARCH_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Synchronize taxonomy embeddings and the vector index",
				Action: syncCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "taxonomy",
						Aliases:  []string{"t"},
						Usage:    "Path to the taxonomy JSON file",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "embed-batch-size",
						Usage: "Number of skills per embedding call",
						Value: 25,
					},
					&cli.IntFlag{
						Name:  "upload-batch-size",
						Usage: "Number of vectors per index upsert",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Worker pool size (0 = auto)",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search users by free-text query",
				Action:    searchCommand,
				ArgsUsage: "QUERY",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "profiles",
						Usage: "Directory of user profile JSON documents",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of index hits per query",
						Value: search.DefaultTopK,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum users to print",
						Value: 10,
					},
				),
			},
			{
				Name:   "rebuild-index",
				Usage:  "Re-upsert every stored embedding into the vector index",
				Action: rebuildCommand,
				Flags:  commonFlags(),
			},
			{
				Name:   "export",
				Usage:  "Export the embedding store as a JSONL snapshot",
				Action: exportCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output file (default stdout)",
					},
				),
			},
			{
				Name:   "restore",
				Usage:  "Restore the embedding store from a JSONL snapshot",
				Action: restoreCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "in",
						Aliases:  []string{"i"},
						Usage:    "Snapshot file to restore from",
						Required: true,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
			EnvVars:  []string{"SKILLSEARCH_DB"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"SKILLSEARCH_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"SKILLSEARCH_EMBEDDING_MODEL"},
		},
	}
}

func openSystem(c *cli.Context, opts ...skillsearch.SystemOption) (*skillsearch.System, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts = append([]skillsearch.SystemOption{skillsearch.WithAIConfig(aiConfig)}, opts...)
	return skillsearch.Open(c.String("db"), opts...)
}

func syncCommand(c *cli.Context) error {
	file, err := os.Open(c.String("taxonomy"))
	if err != nil {
		return fmt.Errorf("failed to open taxonomy: %w", err)
	}
	roots, err := taxonomy.Parse(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("failed to parse taxonomy: %w", err)
	}

	system, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer system.Close()

	config := pipeline.DefaultConfig()
	config.EmbedBatchSize = c.Int("embed-batch-size")
	config.UploadBatchSize = c.Int("upload-batch-size")
	config.MaxRetries = c.Int("max-retries")
	config.RetryDelay = c.Duration("retry-delay")
	if w := c.Int("workers"); w > 0 {
		config.Workers = w
	}

	p, err := system.NewPipeline(config, pipeline.WithProgress(os.Stderr))
	if err != nil {
		return err
	}
	defer p.Release()

	report, err := p.Run(c.Context, roots)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printReport(report)
	if !report.Ok() {
		return fmt.Errorf("sync finished with %d failed embed batches and %d failed upload batches",
			len(report.FailedEmbeds), len(report.FailedUploads))
	}
	return nil
}

func printReport(report *pipeline.RunReport) {
	fmt.Fprintf(os.Stderr, "Skills: %d total, %d new, %d changed, %d unchanged, %d removed\n",
		report.Changes.Total(),
		len(report.Changes.New),
		len(report.Changes.Changed),
		len(report.Changes.Unchanged),
		len(report.Changes.Removed))
	fmt.Fprintf(os.Stderr, "Embedded %d skills, synced %d vectors in %v\n",
		report.Embedded, report.Synced, report.Elapsed.Round(time.Millisecond))
	if ids := report.FailedEmbedIDs(); len(ids) > 0 {
		fmt.Fprintf(os.Stderr, "Failed to embed %d skills (will retry next run): %s\n",
			len(ids), strings.Join(ids, ", "))
	}
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	var opts []skillsearch.SystemOption
	if dir := c.String("profiles"); dir != "" {
		opts = append(opts, skillsearch.WithProfileDir(dir))
	}

	system, err := openSystem(c, opts...)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer system.Close()

	searcher, err := system.NewSearcher(search.WithTopK(c.Int("top-k")))
	if err != nil {
		return err
	}

	result, err := searcher.Search(c.Context, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Matched skills (%d):\n", len(result.Hits))
	for _, hit := range result.Hits {
		fmt.Printf("  %-40s %.3f (%s)\n", hit.SkillID, hit.Similarity, search.Interpret(hit.Similarity))
	}

	limit := c.Int("limit")
	fmt.Printf("\nRanked users (%d):\n", len(result.Users))
	for i, user := range result.Users {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Printf("  %3d. %-30s score %6.1f  coverage %5.1f%%  %s (%.2f)  %d skills\n",
			i+1, user.UserID, user.DisplayScore, user.CoveragePct,
			user.ExpertiseLabel, user.Expertise, len(user.MatchedSkills))
	}
	return nil
}

func rebuildCommand(c *cli.Context) error {
	system, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer system.Close()

	p, err := system.NewPipeline(nil)
	if err != nil {
		return err
	}
	defer p.Release()

	synced, err := p.RebuildIndex(c.Context)
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Re-upserted %d vectors\n", synced)
	return nil
}

func exportCommand(c *cli.Context) error {
	system, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer system.Close()

	repo := system.EmbeddingRepository()
	records, _, err := repo.LoadAll(c.Context)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	meta, err := repo.Meta(c.Context)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	out := os.Stdout
	if path := c.String("out"); path != "" {
		out, err = os.Create(path)
		if err != nil {
			return err
		}
		defer out.Close()
	}

	list := make([]*core.EmbeddingRecord, 0, len(records))
	for _, rec := range records {
		list = append(list, rec)
	}
	if err := storage.WriteSnapshot(out, meta, list); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Exported %d records\n", len(list))
	return nil
}

func restoreCommand(c *cli.Context) error {
	file, err := os.Open(c.String("in"))
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	_, records, err := storage.ReadSnapshot(file)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	system, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer system.Close()

	if err := system.EmbeddingRepository().SaveAll(c.Context, records); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Restored %d records\n", len(records))
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
