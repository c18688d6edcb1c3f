package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudwego/eino-ext/components/embedding/openai"

	"github.com/codyssey-team/fnb_navigator/app/ingest/pkg/pdfdoc"
	"github.com/codyssey-team/fnb_navigator/app/ingest/pkg/splitter"
	"github.com/codyssey-team/fnb_navigator/app/ingest/pkg/vectorstore"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/config"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	dataDir := flag.String("data", "data", "directory of source PDF documents")
	storeDir := flag.String("store", "rag_store", "directory holding index.json and manifest.json")
	embedModel := flag.String("embed-model", "text-embedding-3-small", "embedding model name")
	chunkSize := flag.Int("chunk-size", splitter.DefaultChunkSize, "chunk size in runes")
	overlap := flag.Int("overlap", splitter.DefaultOverlap, "chunk overlap in runes")
	query := flag.String("query", "", "search the store instead of ingesting")
	topK := flag.Int("topk", 5, "number of search results")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.Log

	ctx := context.Background()
	embedder, err := openai.NewEmbedder(ctx, &openai.EmbeddingConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   *embedModel,
	})
	if err != nil {
		log.Errorf("create embedder: %v", err)
		os.Exit(1)
	}

	store, err := vectorstore.Open(*storeDir, embedder)
	if err != nil {
		log.Errorf("open store: %v", err)
		os.Exit(1)
	}

	if *query != "" {
		hits, err := store.Search(ctx, *query, *topK)
		if err != nil {
			log.Errorf("search: %v", err)
			os.Exit(1)
		}
		for i, hit := range hits {
			fmt.Printf("--- hit %d (score %.4f, %s#%d) ---\n%s\n\n", i+1, hit.Score, hit.Source, hit.Chunk, hit.Content)
		}
		return
	}

	pdfs, err := filepath.Glob(filepath.Join(*dataDir, "*.pdf"))
	if err != nil {
		log.Errorf("list documents: %v", err)
		os.Exit(1)
	}
	if len(pdfs) == 0 {
		log.Warnf("no PDF documents found under %s", *dataDir)
	}

	split := splitter.New(*chunkSize, *overlap)
	alive := make(map[string]bool, len(pdfs))
	ingested, skipped := 0, 0
	for _, path := range pdfs {
		alive[filepath.Base(path)] = true

		dirty, hash, err := store.NeedsUpdate(path)
		if err != nil {
			log.Errorf("check %s: %v", path, err)
			os.Exit(1)
		}
		if !dirty {
			log.Infof("unchanged, skipping %s", filepath.Base(path))
			skipped++
			continue
		}

		text, err := pdfdoc.ExtractText(path)
		if err != nil {
			log.Errorf("extract %s: %v", path, err)
			os.Exit(1)
		}
		if strings.TrimSpace(text) == "" {
			log.Warnf("no extractable text in %s, skipping", filepath.Base(path))
			continue
		}

		chunks := split.Split(text)
		if err := store.Put(ctx, path, hash, chunks); err != nil {
			log.Errorf("ingest %s: %v", path, err)
			os.Exit(1)
		}
		log.Infof("ingested %s: %d chunks", filepath.Base(path), len(chunks))
		ingested++
	}

	for _, source := range store.Prune(alive) {
		log.Infof("pruned deleted source %s", source)
	}

	if err := store.Save(); err != nil {
		log.Errorf("save store: %v", err)
		os.Exit(1)
	}
	log.Infof("done: %d ingested, %d unchanged, %d records total", ingested, skipped, store.Len())
}
