// Package testutil provides testing utilities for exprset.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded, reproducible generators for expression matrices,
// covariate tables, feature annotations, and fully annotated sets.
//
// # Random Data Generation
//
//	rng := testutil.NewRNG(seed)
//	values := rng.Intensities(500, 20) // log-scale expression block
//	m := rng.Matrix(500, 20)           // matrix with identifiers bound
//
// # Complete Containers
//
//	es := rng.Set(500, 20) // matrix + covariates + annotations + study
package testutil
