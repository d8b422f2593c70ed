package derive

import (
	"time"

	"golang.org/x/text/language"
)

type localeLayout struct {
	tag    language.Tag
	layout string
}

// Short date layouts, the first entry is the fallback for unmatched locales.
var localeLayouts = []localeLayout{
	{language.AmericanEnglish, "1/2/2006"},
	{language.BritishEnglish, "02/01/2006"},
	{language.German, "2.1.2006"},
	{language.French, "02/01/2006"},
	{language.Dutch, "2-1-2006"},
	{language.Japanese, "2006/1/2"},
	{language.Und, "2006-01-02"},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(localeLayouts))
	for i, l := range localeLayouts {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// DateFormat turns match start times into short date labels.
type DateFormat struct {
	Layout   string
	Location *time.Location
}

// NewDateFormat negotiates locale (a BCP 47 tag such as "en-GB") against the
// supported short date layouts. A nil location means UTC.
func NewDateFormat(locale string, loc *time.Location) DateFormat {
	if loc == nil {
		loc = time.UTC
	}
	_, idx := language.MatchStrings(localeMatcher, locale)
	return DateFormat{Layout: localeLayouts[idx].layout, Location: loc}
}

func (f DateFormat) Format(unixSeconds int64) string {
	layout := f.Layout
	if layout == "" {
		layout = localeLayouts[0].layout
	}
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(unixSeconds, 0).In(loc).Format(layout)
}
