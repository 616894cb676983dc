// Package rules provides the ordered lookup tables that classify catalog
// lines and free-text queries into brand, device model, service type, and
// quality tier. Every table is evaluated top to bottom, first match wins.
// The tables are shared by the catalog loader and the query analyzer so the
// disambiguation logic lives in exactly one place.
package rules

import (
	"regexp"
	"strings"

	"github.com/tallerlink/pricebot/internal/models"
)

// devicePattern matches one canonical device model. Terms must all be
// contained in the text; Exclude terms must all be absent. Patterns are
// ordered most specific first within a brand, and the exclusions guarantee
// that a bare model never matches text naming a Pro/Plus/Max/mini variant
// even if table order changes.
type devicePattern struct {
	Model   string
	Terms   []string
	Exclude []string
}

// brandRule maps keyword containment to a brand label.
type brandRule struct {
	Label    string
	Keywords []string
}

// synonymGroup maps any of its keywords to a canonical label.
type synonymGroup struct {
	Label    string
	Keywords []string
}

var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

// Normalize lowercases, strips Spanish accents, and collapses whitespace so
// the containment tables see one canonical form of the text.
func Normalize(text string) string {
	text = accentReplacer.Replace(strings.ToLower(text))
	return strings.Join(strings.Fields(text), " ")
}

func containsAll(text string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// Brand returns the brand label for text, or models.BrandUnknown.
func Brand(text string) string {
	text = Normalize(text)
	for _, r := range brandTable {
		if containsAny(text, r.Keywords) {
			return r.Label
		}
	}
	return models.BrandUnknown
}

var genericModelRes = []*regexp.Regexp{
	regexp.MustCompile(`\b(iphone)\s*(\d{1,3})(?:\s+(pro max|pro|plus|mini))?\b`),
	regexp.MustCompile(`\b(galaxy|samsung)\s*(s\d{1,2}|a\d{1,3}|m\d{1,3})(?:\s+(ultra|plus|fe))?\b`),
}

// DeviceModel returns the canonical device model for text, or
// models.DeviceUnknown. A pattern matches only when all its terms are
// present and none of its exclusions are, so "iphone 14" never matches text
// containing "iphone 14 pro". Numbers outside the curated tables fall
// through to a generic brand+number pattern so a query for a model the
// catalog has never seen still yields an exact-model request (and therefore
// an approximate-flagged answer downstream).
func DeviceModel(text string) string {
	text = Normalize(text)
	for _, patterns := range deviceTables {
		for _, p := range patterns {
			if containsAll(text, p.Terms) && !containsAny(text, p.Exclude) {
				return p.Model
			}
		}
	}
	for _, re := range genericModelRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		brand := m[1]
		if brand == "samsung" {
			brand = "galaxy"
		}
		model := brand + " " + m[2]
		if m[3] != "" {
			model += " " + m[3]
		}
		return model
	}
	return models.DeviceUnknown
}

// ServiceType returns the canonical service label for text, or
// models.ServiceGeneral when no synonym matches.
func ServiceType(text string) string {
	text = Normalize(text)
	for _, g := range serviceTable {
		if containsAny(text, g.Keywords) {
			return g.Label
		}
	}
	return models.ServiceGeneral
}

// QualityTier returns the part quality label for text, or
// models.QualityStandard when no synonym matches.
func QualityTier(text string) string {
	text = Normalize(text)
	for _, g := range qualityTable {
		if containsAny(text, g.Keywords) {
			return g.Label
		}
	}
	return models.QualityStandard
}

// Classify fills brand, device model, service type, and quality tier for one
// raw catalog line. Unclassifiable fields get their sentinel label, never an
// error.
func Classify(rawName string) (brand, deviceModel, serviceType, qualityTier string) {
	return Brand(rawName), DeviceModel(rawName), ServiceType(rawName), QualityTier(rawName)
}

// AnalyzeQuery extracts the exact device model, service type, and quality
// hint from a free-text customer query. Fields are left empty when no table
// entry matches; there is no scoring and no ambiguity resolution beyond
// first-match-wins, which keeps extraction deterministic.
func AnalyzeQuery(rawQuery string) *models.QueryAnalysis {
	qa := &models.QueryAnalysis{RawQuery: rawQuery}
	if m := DeviceModel(rawQuery); m != models.DeviceUnknown {
		qa.ExactDeviceModel = m
	}
	if s := ServiceType(rawQuery); s != models.ServiceGeneral {
		qa.ServiceType = s
	}
	if q := QualityTier(rawQuery); q != models.QualityStandard {
		qa.QualityHint = q
	}
	return qa
}

// ExpandTokens expands query tokens through the bilingual synonym table used
// by the keyword fallback, preserving order and dropping duplicates.
func ExpandTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	add := func(tok string) {
		if tok != "" && !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	for _, tok := range tokens {
		add(tok)
		for _, g := range serviceTable {
			if containsAny(tok, g.Keywords) || tok == g.Label {
				for _, kw := range g.Keywords {
					if !strings.Contains(kw, " ") {
						add(kw)
					}
				}
			}
		}
	}
	return out
}
