// Package manifest loads the site build output the viewer plays:
// content.json plus the images/ tree it references.
package manifest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	vlog "github.com/runger/vitrine/internal/log"
)

// File is the manifest filename the site build writes.
const File = "content.json"

// BrightnessAnalysis is the per-image luminance summary precomputed at
// site build time.
type BrightnessAnalysis struct {
	Brightness      float64 `json:"brightness"`
	IsLight         bool    `json:"is_light"`
	TextColor       string  `json:"text_color"`
	BackgroundColor string  `json:"background_color"`
	AccentColor     string  `json:"accent_color"`
}

// Generation records how a variation's artwork was produced.
type Generation struct {
	Model        string `json:"model"`
	ModelDisplay string `json:"model_display"`
	Prompt       string `json:"prompt"`
	Timestamp    string `json:"timestamp"`
	Dimensions   string `json:"dimensions"`
}

// Style names the visual approach a variation was rendered in.
type Style struct {
	Name     string `json:"name"`
	Approach string `json:"approach"`
}

// Variation is one artwork rendition of a unit's text.
type Variation struct {
	Path       string              `json:"path"`
	Filename   string              `json:"filename"`
	Brightness *BrightnessAnalysis `json:"brightness_analysis"`
	Generation *Generation         `json:"generation"`
	Style      *Style              `json:"style"`

	// AbsPath is Path resolved against the site directory at load time.
	AbsPath string `json:"-"`
}

// BrightnessValue returns the precomputed luminance in [0, 1], or -1
// when the build did not analyze this image.
func (v *Variation) BrightnessValue() float64 {
	if v.Brightness == nil {
		return -1
	}
	return v.Brightness.Brightness
}

// Light reports whether the artwork was analyzed as predominantly
// light. Unanalyzed artwork counts as dark.
func (v *Variation) Light() bool {
	return v.Brightness != nil && v.Brightness.IsLight
}

// ModelLabel returns the display name of the generating model, or ""
// when none was recorded.
func (v *Variation) ModelLabel() string {
	if v.Generation == nil {
		return ""
	}
	return v.Generation.ModelDisplay
}

// StyleName returns the variation's style name, falling back to the
// unit-level style when the image carries none.
func (v *Variation) StyleName(unitStyle string) string {
	if v.Style != nil && v.Style.Name != "" {
		return v.Style.Name
	}
	return unitStyle
}

// StyleData carries the palette chosen when the unit's artwork styles
// were planned.
type StyleData struct {
	ColorPalette []string `json:"color_palette"`
}

// Metadata holds curation notes attached to a unit.
type Metadata struct {
	Source     string   `json:"source"`
	Status     string   `json:"status"`
	Tags       []string `json:"tags"`
	WhyILikeIt string   `json:"why_i_like_it"`
}

// Unit is one curated passage together with its artwork variations.
// JSON keys follow the site build's output.
type Unit struct {
	ContentFile   string      `json:"content_file"`
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	Type          string      `json:"type"`
	QuoteText     string      `json:"quote_text"`
	StyleName     string      `json:"style_name"`
	StyleApproach string      `json:"style_approach"`
	StyleData     *StyleData  `json:"style_data"`
	Metadata      *Metadata   `json:"metadata"`
	Variations    []Variation `json:"images"`

	// Slug identifies the unit in logs and caches, derived from
	// ContentFile at load time.
	Slug string `json:"-"`
}

// Placeholder palette matching the site build's own fallback.
var defaultPalette = []string{"#3498db", "#e74c3c", "#2ecc71"}

// PaletteColor returns the unit's primary palette color, used for
// placeholder art when an image cannot be loaded.
func (u *Unit) PaletteColor() string {
	if u.StyleData != nil && len(u.StyleData.ColorPalette) > 0 && u.StyleData.ColorPalette[0] != "" {
		return u.StyleData.ColorPalette[0]
	}
	return defaultPalette[0]
}

// Tags returns the unit's curation tags, or nil.
func (u *Unit) Tags() []string {
	if u.Metadata == nil {
		return nil
	}
	return u.Metadata.Tags
}

// Manifest is the loaded, filtered site content.
type Manifest struct {
	// SiteDir is the directory content.json was loaded from.
	SiteDir string

	// Units holds every displayable unit in curated order.
	Units []Unit

	// Excluded counts units dropped because they had no usable variation.
	Excluded int
}

// Load reads content.json under siteDir and resolves image paths.
// Units without any usable variation are excluded from playback with a
// warning; they never reach the selector. Loading fails only when the
// manifest is unreadable, unparseable, or leaves nothing to display.
func Load(siteDir string, logger *slog.Logger) (*Manifest, error) {
	if logger == nil {
		logger = vlog.Discard()
	}

	path := filepath.Join(siteDir, File)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var units []Unit
	if err := json.Unmarshal(data, &units); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	m := &Manifest{SiteDir: siteDir}
	for i := range units {
		u := units[i]
		u.Slug = slugFor(&u, i)
		u.Variations = resolveVariations(siteDir, u.Variations)
		if len(u.Variations) == 0 {
			m.Excluded++
			vlog.LogUnitExcluded(logger, u.Slug, "no variations")
			continue
		}
		m.Units = append(m.Units, u)
	}

	if len(m.Units) == 0 {
		return nil, fmt.Errorf("manifest %s contains no displayable units", path)
	}
	return m, nil
}

// resolveVariations drops entries without a path and resolves the rest
// against the site directory.
func resolveVariations(siteDir string, vs []Variation) []Variation {
	out := make([]Variation, 0, len(vs))
	for _, v := range vs {
		if v.Path == "" {
			continue
		}
		v.AbsPath = filepath.Join(siteDir, filepath.FromSlash(v.Path))
		out = append(out, v)
	}
	return out
}

// slugFor derives a stable identifier from the unit's content file,
// falling back to a slugified title, then to the manifest position.
func slugFor(u *Unit, index int) string {
	if u.ContentFile != "" {
		base := filepath.Base(u.ContentFile)
		if s := strings.TrimSuffix(base, filepath.Ext(base)); s != "" {
			return s
		}
	}
	if s := slugify(u.Title); s != "" {
		return s
	}
	return fmt.Sprintf("unit-%d", index)
}

// slugify lowercases, converts whitespace runs to underscores, and
// strips everything outside [a-z0-9_], the same normalization the site
// build applies to filenames.
func slugify(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r == ' ' || r == '\t' || r == '\n':
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_':
			b.WriteRune(r)
			lastUnderscore = false
		}
	}
	return strings.Trim(b.String(), "_")
}
