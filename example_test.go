package exprset_test

import (
	"fmt"
	"log"

	"github.com/hupe1980/exprset"
	"github.com/hupe1980/exprset/frame"
	"github.com/hupe1980/exprset/matrix"
)

// Example_construct demonstrates assembling an annotated expression set
// from a matrix and a sample table.
func Example_construct() {
	m, err := matrix.New(2, 3, []float64{
		5.1, 3.2, 4.4,
		4.8, 7.7, 6.1,
	}, func(o *matrix.Options) {
		o.RowIDs = []string{"FT1", "FT2"}
		o.ColIDs = []string{"S1", "S2", "S3"}
	})
	if err != nil {
		log.Fatal(err)
	}

	covariates, err := frame.New(
		[]string{"S1", "S2", "S3"},
		[]frame.Column{
			{Name: "group", Label: "Treatment group"},
			{Name: "age", Label: "Age in years"},
		},
		[][]frame.Value{
			{frame.String("Case"), frame.Int(26)},
			{frame.String("Control"), frame.Int(34)},
			{frame.String("Case"), frame.Int(29)},
		},
	)
	if err != nil {
		log.Fatal(err)
	}

	es, err := exprset.New(m, exprset.WithPheno(covariates))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(es)
	// Output: Set(2 features x 3 samples)
}

// Example_builder demonstrates the fluent builder.
func Example_builder() {
	m, err := matrix.New(2, 2, []float64{1, 2, 3, 4}, func(o *matrix.Options) {
		o.RowIDs = []string{"FT1", "FT2"}
		o.ColIDs = []string{"S1", "S2"}
	})
	if err != nil {
		log.Fatal(err)
	}

	es, err := exprset.From(m).
		Study(exprset.Study{Lab: "Francis Lab"}).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(es.Describe().Lab)
	// Output: Francis Lab
}

// Example_subset demonstrates selecting samples by a covariate predicate.
func Example_subset() {
	m, err := matrix.New(2, 3, []float64{
		5.1, 3.2, 4.4,
		4.8, 7.7, 6.1,
	}, func(o *matrix.Options) {
		o.RowIDs = []string{"FT1", "FT2"}
		o.ColIDs = []string{"S1", "S2", "S3"}
	})
	if err != nil {
		log.Fatal(err)
	}

	covariates, err := frame.New(
		[]string{"S1", "S2", "S3"},
		[]frame.Column{{Name: "age", Label: "Age in years"}},
		[][]frame.Value{
			{frame.Int(26)},
			{frame.Int(34)},
			{frame.Int(29)},
		},
	)
	if err != nil {
		log.Fatal(err)
	}

	es, err := exprset.New(m, exprset.WithPheno(covariates))
	if err != nil {
		log.Fatal(err)
	}

	under30, err := es.Subset(exprset.All(), exprset.Where(frame.Lt("age", frame.Int(30))))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(under30.SampleIDs())
	// Output: [S1 S3]
}

// ExampleStudy_Render demonstrates the human-readable study description.
func ExampleStudy_Render() {
	st := exprset.Study{
		Name:  "Pierre Fermat",
		Lab:   "Francis Lab",
		Title: "Smoking-Cancer Experiment",
	}

	fmt.Print(st.Render())
	// Output:
	// Name: Pierre Fermat
	// Lab: Francis Lab
	// Title: Smoking-Cancer Experiment
}
