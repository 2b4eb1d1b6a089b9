package web

import (
	"embed"
	"html/template"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/alnah/call-summary/internal/format"
	"github.com/alnah/call-summary/internal/pipeline"
)

//go:embed templates/*.html
var templatesFS embed.FS

const indexTemplate = "index.html"

func parseTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
}

// page is the data rendered by index.html.
type page struct {
	Mode      string
	Modes     []modeOption
	Accept    string
	MaxUpload string
	Error     string
	Result    *resultView
}

type modeOption struct {
	Value   string
	Label   string
	Accept  string
	Checked bool
}

type resultView struct {
	Transcript  string
	Summary     string
	Keywords    string
	Download    string // transcript file name
	DownloadURL string // escaped /download/ path for Download
	Language    string
	Duration    string
	Words       []wordView
}

type wordView struct {
	Text       string
	Start, End string
}

func (s *Server) newPage(kind pipeline.Kind) page {
	if kind != pipeline.Text {
		kind = pipeline.Audio
	}
	p := page{
		Mode:      kind.String(),
		Accept:    strings.Join(kind.Extensions(), ","),
		MaxUpload: format.Size(s.maxUpload),
	}
	for _, k := range []pipeline.Kind{pipeline.Audio, pipeline.Text} {
		p.Modes = append(p.Modes, modeOption{
			Value:   k.String(),
			Label:   k.Label(),
			Accept:  strings.Join(k.Extensions(), ","),
			Checked: k == kind,
		})
	}
	return p
}

// newResultView converts a (possibly partial) pipeline result for display.
func newResultView(res pipeline.Result) *resultView {
	v := &resultView{
		Transcript: res.Transcript,
		Summary:    res.Summary,
		Keywords:   res.Keywords,
		Language:   res.Language,
	}
	if res.Duration > 0 {
		v.Duration = format.Duration(res.Duration)
	}
	if res.Downloadable() {
		v.Download = filepath.Base(res.TranscriptPath)
		v.DownloadURL = "/download/" + url.PathEscape(v.Download)
	}
	for _, w := range res.Words {
		v.Words = append(v.Words, wordView{
			Text:  w.Text,
			Start: format.Timestamp(w.Start),
			End:   format.Timestamp(w.End),
		})
	}
	return v
}
