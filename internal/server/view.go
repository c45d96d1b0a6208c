package server

import (
	"embed"
	"html/template"

	"netemlab/internal/app"
	"netemlab/internal/netem"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// numericField describes one impairment input of the form.
type numericField struct {
	Name    string
	Flag    string
	Label   string
	Value   string
	Enabled bool
	Step    string
	Min     string
	Max     string
}

type pageData struct {
	app.Response
	Fields []numericField
}

func newPageData(resp app.Response) pageData {
	c := resp.Config
	return pageData{
		Response: resp,
		Fields: []numericField{
			{Name: netem.FieldDelayMs, Flag: netem.FieldDelayEnabled, Label: "Delay (ms)", Value: c.DelayMs.String(), Enabled: c.DelayEnabled, Step: "1", Min: "0"},
			{Name: netem.FieldJitterMs, Flag: netem.FieldJitterEnabled, Label: "Jitter (ms)", Value: c.JitterMs.String(), Enabled: c.JitterEnabled, Step: "1", Min: "0"},
			{Name: netem.FieldLossPct, Flag: netem.FieldLossEnabled, Label: "Loss (%)", Value: c.LossPct.String(), Enabled: c.LossEnabled, Step: "0.1", Min: "0", Max: "100"},
			{Name: netem.FieldDuplicatePct, Flag: netem.FieldDuplicateEnabled, Label: "Duplicate (%)", Value: c.DuplicatePct.String(), Enabled: c.DuplicateEnabled, Step: "0.1", Min: "0", Max: "100"},
			{Name: netem.FieldCorruptPct, Flag: netem.FieldCorruptEnabled, Label: "Corrupt (%)", Value: c.CorruptPct.String(), Enabled: c.CorruptEnabled, Step: "0.1", Min: "0", Max: "100"},
			{Name: netem.FieldRateKbit, Flag: netem.FieldRateEnabled, Label: "Rate (kbit)", Value: c.RateKbit.String(), Enabled: c.RateEnabled, Step: "1", Min: "1"},
		},
	}
}
