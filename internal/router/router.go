// Package router builds page URLs and carries the visitor's choices between
// pages through query parameters.
package router

import (
	"net/url"
	"strings"

	"github.com/kyiku/hackz-valentine-back/internal/model"
	"github.com/kyiku/hackz-valentine-back/internal/state"
	"github.com/kyiku/hackz-valentine-back/internal/util"
)

// MaxNameLength is the longest name carried between pages.
const MaxNameLength = 24

// Page paths.
const (
	PathStart     = "/"
	PathQuestion  = "/question.html"
	PathCelebrate = "/celebrate.html"
	PathDate      = "/date.html"
	PathFinal     = "/final.html"
)

var stagePaths = map[string]string{
	model.StageStart:     PathStart,
	model.StageQuestion:  PathQuestion,
	model.StageCelebrate: PathCelebrate,
	model.StageDate:      PathDate,
	model.StageFinal:     PathFinal,
}

// PathFor returns the page path for a stage.
func PathFor(stage string) (string, bool) {
	p, ok := stagePaths[stage]
	return p, ok
}

// param is one ordered query parameter.
type param struct {
	key   string
	value string
}

// encode keeps insertion order, unlike url.Values.Encode.
func encode(params []param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.value == "" {
			continue
		}
		parts = append(parts, url.QueryEscape(p.key)+"="+url.QueryEscape(p.value))
	}
	return strings.Join(parts, "&")
}

// NameFromQueryOrState returns the visitor's name. The query wins over the
// stored state; either is trimmed and cut to MaxNameLength.
func NameFromQueryOrState(query url.Values, m state.Mapping) string {
	if fromQuery := util.TrimTruncate(query.Get("name"), MaxNameLength); fromQuery != "" {
		return fromQuery
	}
	name, _ := m["name"].(string)
	return util.TrimTruncate(name, MaxNameLength)
}

// SetQueryParam sets key on the path's query when value is non-empty.
func SetQueryParam(rawPath, key, value string) string {
	u, err := url.Parse(rawPath)
	if err != nil {
		return rawPath
	}
	if value != "" {
		q := u.Query()
		q.Set(key, value)
		u.RawQuery = q.Encode()
	}
	if u.RawQuery == "" {
		return u.Path
	}
	return u.Path + "?" + u.RawQuery
}

// WithName returns the stage's path carrying the visitor name.
func WithName(stage, name string) string {
	p, ok := PathFor(stage)
	if !ok {
		p = PathStart
	}
	return SetQueryParam(p, "name", name)
}

// FinalURL returns the final page URL with every non-empty field.
func FinalURL(p state.Proposal) string {
	q := encode([]param{
		{"name", p.Name},
		{"day", p.Day},
		{"time", p.Time},
		{"mood", p.Mood},
		{"note", p.Note},
	})
	if q == "" {
		return PathFinal
	}
	return PathFinal + "?" + q
}

// ProposalFromQueryOrState merges the final page's query over the stored
// state, field by field.
func ProposalFromQueryOrState(query url.Values, m state.Mapping) state.Proposal {
	stored := state.FromMapping(m)
	return state.Proposal{
		Name:     strings.TrimSpace(util.FirstNonEmpty(query.Get("name"), stored.Name)),
		Accepted: true,
		Day:      util.FirstNonEmpty(query.Get("day"), stored.Day),
		Time:     util.FirstNonEmpty(query.Get("time"), stored.Time),
		Mood:     util.FirstNonEmpty(query.Get("mood"), stored.Mood),
		Note:     util.FirstNonEmpty(query.Get("note"), stored.Note),
	}
}
