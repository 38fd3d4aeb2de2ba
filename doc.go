// Package exprset provides an annotated expression-matrix container for Go.
//
// An exprset.Set carries a features x samples measurement matrix together
// with the tables that describe it - per-sample covariates, per-feature
// annotations and a free-form study record - and keeps all of them aligned
// under one identifier discipline:
//
//   - Construction-time validation: sample tables must cover exactly the
//     matrix column identifiers, feature tables exactly the row identifiers.
//     Misalignments fail with the full symmetric difference, never a silent
//     reorder or drop.
//   - Matrix order is authoritative: bound tables are reordered to the
//     matrix axes when bound, so table row N always describes matrix
//     column N.
//   - Consistency-preserving subsetting: Subset selects features and
//     samples by position, identifier or covariate predicate and assembles
//     a brand-new container through the full constructor.
//   - Immutability: no mutating methods exist, making any Set safe for
//     concurrent readers without locking.
//
// # Quick Start
//
//	m, _ := matrix.New(30, 10, values, func(o *matrix.Options) {
//	    o.RowIDs = featureIDs
//	    o.ColIDs = sampleIDs
//	})
//
//	covariates, _ := frame.FromRecords(sampleIDs, records)
//
//	es, err := exprset.New(m,
//	    exprset.WithPheno(covariates),
//	    exprset.WithStudy(exprset.Study{Lab: "CBU", Title: "Smoking-Cancer Experiment"}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Subsetting keeps matrix and tables aligned.
//	under30, err := es.Subset(exprset.All(), exprset.Where(frame.Lt("age", frame.Int(30))))
//
// # Persistence and Retrieval
//
// The dataset package serializes a Set into a single checksummed,
// optionally compressed file and loads it back through the same validating
// constructor. The blobstore and repo packages put those files on local
// disk, S3 or MinIO and fetch them by accession. The tabular package reads
// matrices and covariate tables from delimited text.
//
// # Multiple Assays
//
// Assays keeps several matrices over the same features and samples (raw
// and normalized intensities, say) bound to one shared annotation:
//
//	as, err := exprset.NewAssays(map[string]*matrix.Dense{
//	    "exprs": normalized,
//	    "raw":   raw,
//	}, exprset.WithPheno(covariates))
package exprset
