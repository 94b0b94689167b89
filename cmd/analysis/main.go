// Command analysis samples deterministic and randomized encodings of random
// messages, verifies exact decoding, and reports the balanced-coefficient
// distribution as summary statistics (JSON) and histograms (HTML).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"ring-encoding/csprng"
	"ring-encoding/encoder"
	"ring-encoding/params"
	"ring-encoding/ringops"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/montanaflynn/stats"
)

type summaryStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

func computeStats(x []float64) summaryStats {
	if len(x) == 0 {
		return summaryStats{}
	}
	mean, _ := stats.Mean(x)
	std, _ := stats.StandardDeviationSample(x)
	minv, _ := stats.Min(x)
	median, _ := stats.Median(x)
	maxv, _ := stats.Max(x)
	return summaryStats{Count: len(x), Mean: mean, Std: std, Min: minv, Median: median, Max: maxv}
}

// computeHistogram buckets values into nbins equal-width bins over their range.
func computeHistogram(values []float64, nbins int) ([]float64, []int) {
	minv, _ := stats.Min(values)
	maxv, _ := stats.Max(values)
	if maxv == minv {
		maxv = minv + 1
	}
	width := (maxv - minv) / float64(nbins)
	edges := make([]float64, nbins+1)
	for i := range edges {
		edges[i] = minv + float64(i)*width
	}
	counts := make([]int, nbins)
	for _, v := range values {
		idx := int((v - minv) / width)
		if idx >= nbins {
			idx = nbins - 1
		}
		counts[idx]++
	}
	return edges, counts
}

func toBarItems(vals []int) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func newHistogramChart(title string, values []float64, st summaryStats) *charts.Bar {
	nbins := 101
	if span := int(st.Max-st.Min) + 1; span < nbins {
		nbins = span
	}
	edges, counts := computeHistogram(values, nbins)
	xLabels := make([]string, nbins)
	for i := 0; i < nbins; i++ {
		xLabels[i] = fmt.Sprintf("%.1f", 0.5*(edges[i]+edges[i+1]))
	}
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("n=%d, mean=%.3f, std=%.3f, median=%.3f", st.Count, st.Mean, st.Std, st.Median)
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xLabels).
		AddSeries("count", toBarItems(counts)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func main() {
	paramsPath := flag.String("params", "Parameters/Parameters.json", "parameter file")
	trials := flag.Int("trials", 64, "number of random messages per mode")
	sigma := flag.Float64("sigma", 0, "Gaussian width (0 uses the parameter default S1)")
	outDir := flag.String("out", "Measure_Reports", "output directory for reports")
	flag.Parse()

	par, err := params.Load(*paramsPath)
	if err != nil {
		log.Printf("warn: %v; falling back to built-in defaults", err)
		if par, err = params.Default(); err != nil {
			log.Fatalf("default parameters: %v", err)
		}
	}
	if *sigma == 0 {
		*sigma = par.S1
	}

	enc, err := encoder.New(par)
	if err != nil {
		log.Fatalf("encoder: %v", err)
	}
	us, err := csprng.NewUniformSampler()
	if err != nil {
		log.Fatalf("uniform sampler: %v", err)
	}

	var detCoeffs, randCoeffs []float64
	mismatches := 0
	msg := make([]*big.Int, par.M)
	pDet := ringops.NewPoly(par.RingQ)
	pRand := ringops.NewPoly(par.RingQ)
	for t := 0; t < *trials; t++ {
		for i := range msg {
			msg[i] = us.SampleBigInt(par.P)
		}
		if err := enc.EncodeAssign(msg, pDet); err != nil {
			log.Fatalf("encode: %v", err)
		}
		for _, c := range ringops.ToBalanced(par.RingQ, pDet) {
			detCoeffs = append(detCoeffs, float64(c))
		}
		if err := enc.EncodeRandomizedAssign(msg, *sigma, pRand); err != nil {
			log.Fatalf("encode randomized: %v", err)
		}
		for _, c := range ringops.ToBalanced(par.RingQ, pRand) {
			randCoeffs = append(randCoeffs, float64(c))
		}
		dec := enc.Decode(pRand)
		for i := range msg {
			if dec[i].Cmp(msg[i]) != 0 {
				mismatches++
			}
		}
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	outStats := map[string]any{
		"parameters": map[string]any{
			"n": par.N, "m": par.M, "kap": par.Kap, "b": par.B,
			"p": par.P.String(), "q": par.Q, "sigma": *sigma,
		},
		"deterministic":     computeStats(detCoeffs),
		"randomized":        computeStats(randCoeffs),
		"decode_mismatches": mismatches,
	}
	ts := time.Now().Format("20060102_150405")
	jsonPath := filepath.Join(*outDir, fmt.Sprintf("encoding_stats_%s.json", ts))
	if err := saveJSON(jsonPath, outStats); err != nil {
		log.Printf("warn: save stats: %v", err)
	}

	page := components.NewPage()
	page.AddCharts(
		newHistogramChart("deterministic encoding (balanced coefficients)", detCoeffs, computeStats(detCoeffs)),
		newHistogramChart("randomized encoding (balanced coefficients)", randCoeffs, computeStats(randCoeffs)),
	)
	htmlPath := filepath.Join(*outDir, fmt.Sprintf("encoding_histograms_%s.html", ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render html: %v", err)
	}

	if mismatches > 0 {
		log.Printf("WARNING: %d randomized encodings decoded incorrectly (check sigma vs q)", mismatches)
	}
	fmt.Println("Histogram page:", htmlPath)
	fmt.Println("Stats JSON:", jsonPath)
}
