package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hupe1980/exprset"
	"github.com/hupe1980/exprset/blobstore"
	"github.com/hupe1980/exprset/dataset"
	"github.com/hupe1980/exprset/frame"
	"github.com/hupe1980/exprset/matrix"
	"github.com/hupe1980/exprset/repo"
	"github.com/hupe1980/exprset/testutil"
)

func main() {
	features := 500
	samples := 26

	rng := testutil.NewRNG(4711)

	m, err := matrix.New(features, samples, rng.Intensities(features, samples), func(o *matrix.Options) {
		o.RowIDs = testutil.FeatureIDs(features)
		o.ColIDs = testutil.SampleIDs(samples)
	})
	if err != nil {
		log.Fatal(err)
	}

	es, err := exprset.New(m,
		exprset.WithPheno(rng.Covariates(m.ColIDs())),
		exprset.WithFeatures(rng.Annotations(m.RowIDs())),
		exprset.WithStudy(exprset.Study{
			Name:  "Pierre Fermat",
			Lab:   "Francis Galton Lab",
			Title: "Smoking-Cancer Experiment",
		}),
		exprset.WithLogger(exprset.NewTextLogger(slog.LevelInfo)),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("--- Construct ---")
	fmt.Println(es)

	fmt.Println("--- Subset ---")

	males, err := es.Subset(exprset.All(), exprset.Where(frame.Eq("sex", frame.String("Male"))))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Male samples:", males.NSamples())

	top, err := es.Subset(exprset.Positions(0, 1, 2, 3, 4), exprset.All())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("First features:", top.FeatureIDs())

	fmt.Println("--- Save / Load ---")

	filename := filepath.Join(os.TempDir(), "example.esd")
	defer os.Remove(filename)

	if err := dataset.WriteFile(filename, es, func(o *dataset.Options) {
		o.Compression = dataset.CompressionZSTD
	}); err != nil {
		log.Fatal(err)
	}

	loaded, err := dataset.ReadFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Round trip equal:", es.Equal(loaded))

	fmt.Println("--- Repository ---")

	ctx := context.Background()

	store := blobstore.NewMemoryStore()
	catalog := repo.NewManifestCatalog(store)
	client := repo.New(store, func(o *repo.Options) {
		o.Catalog = catalog
	})

	if err := client.Publish(ctx, "GSE4711", es); err != nil {
		log.Fatal(err)
	}

	fetched, err := client.Fetch(ctx, "GSE4711")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Fetched:", fetched.Describe().Title)

	entries, err := catalog.Entries(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, e := range entries {
		fmt.Printf("Accession %s -> %s (v%d)\n", e.Accession, e.Key, e.Version)
	}
}
