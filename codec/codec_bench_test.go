package codec

import (
	"testing"

	"github.com/hupe1980/exprset/frame"
)

type benchStudy struct {
	Name     string            `json:"name"`
	Lab      string            `json:"lab"`
	Contact  string            `json:"contact"`
	Title    string            `json:"title"`
	Abstract string            `json:"abstract"`
	URL      string            `json:"url"`
	Other    map[string]string `json:"other"`
	PubMed   []string          `json:"pubMed"`
}

func benchmarkCodecMarshal(b *testing.B, c Codec, v any) {
	b.Helper()
	b.ReportAllocs()

	warm, err := c.Marshal(v)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(warm)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := c.Marshal(v)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func benchmarkCodecUnmarshal[T any](b *testing.B, c Codec, data []byte, dst *T) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	var v T
	b.ResetTimer()
	for b.Loop() {
		if err := c.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
	if dst != nil {
		*dst = v
	}
}

func benchStudyPayload() benchStudy {
	return benchStudy{
		Name:     "Morgan Lab",
		Lab:      "Computational Biology Unit",
		Contact:  "morgan@example.org",
		Title:    "Smoking-Cancer Expression Experiment",
		Abstract: "An example object covering 30 transcripts across 10 samples.",
		URL:      "https://example.org/studies/smoking-cancer",
		Other: map[string]string{
			"notes":    "artificial data",
			"platform": "hgu95av2",
		},
		PubMed: []string{"11111111", "22222222"},
	}
}

func benchCovariates() frame.Document {
	return frame.Document{
		"group":  frame.String("Case"),
		"age":    frame.Int(42),
		"sex":    frame.String("Female"),
		"tissue": frame.String("lung"),
		"score":  frame.Float(0.731),
		"tags":   frame.Array([]frame.Value{frame.String("smoker"), frame.String("stage2")}),
	}
}

func BenchmarkCodec_Marshal_Study(b *testing.B) {
	payload := benchStudyPayload()

	b.Run("stdlib", func(b *testing.B) { benchmarkCodecMarshal(b, JSON{}, payload) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecMarshal(b, GoJSON{}, payload) })
}

func BenchmarkCodec_Unmarshal_Study(b *testing.B) {
	jsonData := MustMarshal(JSON{}, benchStudyPayload())

	b.Run("stdlib", func(b *testing.B) {
		var sink benchStudy
		benchmarkCodecUnmarshal(b, JSON{}, jsonData, &sink)
		_ = sink
	})
	b.Run("go-json", func(b *testing.B) {
		var sink benchStudy
		benchmarkCodecUnmarshal(b, GoJSON{}, jsonData, &sink)
		_ = sink
	})
}

func BenchmarkCodec_Marshal_Covariates(b *testing.B) {
	doc := benchCovariates()

	b.Run("stdlib", func(b *testing.B) { benchmarkCodecMarshal(b, JSON{}, doc) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecMarshal(b, GoJSON{}, doc) })
}

func BenchmarkCodec_Unmarshal_Covariates(b *testing.B) {
	jsonData := MustMarshal(JSON{}, benchCovariates())

	b.Run("stdlib", func(b *testing.B) {
		var sink frame.Document
		benchmarkCodecUnmarshal(b, JSON{}, jsonData, &sink)
		_ = sink
	})
	b.Run("go-json", func(b *testing.B) {
		var sink frame.Document
		benchmarkCodecUnmarshal(b, GoJSON{}, jsonData, &sink)
		_ = sink
	})
}
