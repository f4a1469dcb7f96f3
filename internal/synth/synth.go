// Package synth is the deterministic parametric generator: the guaranteed
// last tier of the asset pipeline. It produces valid SVG for every catalog
// kind with no I/O and no randomness, so a replayed cache miss regenerates
// byte-identical content.
package synth

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/primitive"
)

// Generate renders the catalog layout for kind. Total over all kinds:
// KindUnknown renders the graph layout, so the pipeline always terminates
// with usable content. Unrecognized params are ignored.
func Generate(kind primitive.Kind, params map[string]any) string {
	switch kind {
	case primitive.KindResistor:
		return resistor(params)
	case primitive.KindBattery:
		return battery(params)
	case primitive.KindStethoscope:
		return stethoscope()
	case primitive.KindGraph:
		return graph(params)
	case primitive.KindUnknown:
		return graph(params)
	default:
		return graph(params)
	}
}

func resistor(params map[string]any) string {
	value := stringParam(params, "value", "10kΩ")
	const width, height = 400, 200

	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, width, height)
	b.WriteString(`
  <defs>
    <linearGradient id="resistorGrad" x1="0%" y1="0%" x2="100%" y2="0%">
      <stop offset="0%" style="stop-color:#8B4513;stop-opacity:1" />
      <stop offset="50%" style="stop-color:#A0522D;stop-opacity:1" />
      <stop offset="100%" style="stop-color:#8B4513;stop-opacity:1" />
    </linearGradient>
    <filter id="shadow">
      <feDropShadow dx="2" dy="2" stdDeviation="3" flood-opacity="0.3"/>
    </filter>
  </defs>
  <rect width="400" height="200" fill="#f5f5f5" rx="8"/>
  <rect x="20" y="20" width="360" height="60" fill="#fff" stroke="#3b82f6" stroke-width="2" rx="6" filter="url(#shadow)"/>
  <text x="200" y="45" font-family="Arial, sans-serif" font-size="16" font-weight="bold" fill="#1e40af" text-anchor="middle">Resistor Component</text>`)
	fmt.Fprintf(&b, `
  <text x="200" y="65" font-family="Arial, sans-serif" font-size="14" fill="#4b5563" text-anchor="middle">Resistance: %s</text>
  <g transform="translate(50, 120)">
    <line x1="0" y1="0" x2="60" y2="0" stroke="#333" stroke-width="4" stroke-linecap="round"/>
    <rect x="60" y="-25" width="140" height="50" fill="url(#resistorGrad)" stroke="#654321" stroke-width="3" rx="6"/>
    <rect x="75" y="-25" width="10" height="50" fill="#000"/>
    <rect x="95" y="-25" width="10" height="50" fill="#8B0000"/>
    <rect x="115" y="-25" width="10" height="50" fill="#FFD700"/>
    <rect x="135" y="-25" width="10" height="50" fill="#C0C0C0"/>
    <line x1="200" y1="0" x2="260" y2="0" stroke="#333" stroke-width="4" stroke-linecap="round"/>
    <text x="130" y="40" font-family="Arial, sans-serif" font-size="14" font-weight="bold" fill="#1e40af" text-anchor="middle">%s</text>
  </g>
  <rect x="20" y="140" width="360" height="40" fill="#e0e7ff" stroke="#6366f1" stroke-width="2" rx="6" filter="url(#shadow)"/>
  <text x="200" y="165" font-family="Arial, sans-serif" font-size="14" fill="#4338ca" text-anchor="middle">R = Resistance (Ω)</text>
</svg>`, value, value)
	return b.String()
}

func battery(params map[string]any) string {
	voltage := stringParam(params, "voltage", "9V")
	const width, height = 400, 250

	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, width, height)
	b.WriteString(`
  <defs>
    <linearGradient id="batteryGrad" x1="0%" y1="0%" x2="0%" y2="100%">
      <stop offset="0%" style="stop-color:#4CAF50;stop-opacity:1" />
      <stop offset="50%" style="stop-color:#2E7D32;stop-opacity:1" />
      <stop offset="100%" style="stop-color:#1B5E20;stop-opacity:1" />
    </linearGradient>
    <filter id="shadow">
      <feDropShadow dx="2" dy="2" stdDeviation="3" flood-opacity="0.3"/>
    </filter>
  </defs>
  <rect width="400" height="250" fill="#f5f5f5" rx="8"/>
  <rect x="20" y="20" width="360" height="70" fill="#fff" stroke="#10b981" stroke-width="2" rx="6" filter="url(#shadow)"/>
  <text x="200" y="45" font-family="Arial, sans-serif" font-size="18" font-weight="bold" fill="#065f46" text-anchor="middle">Battery Component</text>`)
	fmt.Fprintf(&b, `
  <text x="200" y="70" font-family="Arial, sans-serif" font-size="14" fill="#4b5563" text-anchor="middle">Voltage: %s</text>
  <g transform="translate(140, 120)">
    <rect x="0" y="0" width="80" height="100" fill="url(#batteryGrad)" stroke="#1B5E20" stroke-width="3" rx="5"/>
    <rect x="25" y="-15" width="30" height="15" fill="#1B5E20" stroke="#0D4A0F" stroke-width="2" rx="3"/>
    <rect x="30" y="100" width="20" height="15" fill="#1B5E20" stroke="#0D4A0F" stroke-width="2" rx="3"/>
    <text x="40" y="130" font-family="Arial, sans-serif" font-size="16" font-weight="bold" fill="#065f46" text-anchor="middle">%s</text>
    <text x="40" y="10" font-family="Arial, sans-serif" font-size="20" font-weight="bold" fill="#fff" text-anchor="middle">+</text>
    <text x="40" y="110" font-family="Arial, sans-serif" font-size="20" font-weight="bold" fill="#fff" text-anchor="middle">-</text>
  </g>
  <rect x="20" y="200" width="360" height="35" fill="#d1fae5" stroke="#10b981" stroke-width="2" rx="6" filter="url(#shadow)"/>
  <text x="200" y="222" font-family="Arial, sans-serif" font-size="13" fill="#065f46" text-anchor="middle">Provides electrical energy to the circuit</text>
</svg>`, voltage, voltage)
	return b.String()
}

func stethoscope() string {
	return `<svg width="450" height="500" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="tubeGrad" x1="0%" y1="0%" x2="100%" y2="0%">
      <stop offset="0%" style="stop-color:#4169E1;stop-opacity:1" />
      <stop offset="100%" style="stop-color:#1E90FF;stop-opacity:1" />
    </linearGradient>
    <filter id="shadow">
      <feDropShadow dx="2" dy="2" stdDeviation="3" flood-opacity="0.3"/>
    </filter>
  </defs>
  <rect width="450" height="500" fill="#f5f5f5" rx="8"/>
  <rect x="20" y="20" width="410" height="60" fill="#fff" stroke="#6366f1" stroke-width="2" rx="6" filter="url(#shadow)"/>
  <text x="225" y="45" font-family="Arial, sans-serif" font-size="18" font-weight="bold" fill="#4338ca" text-anchor="middle">Stethoscope</text>
  <text x="225" y="65" font-family="Arial, sans-serif" font-size="14" fill="#6b7280" text-anchor="middle">Medical diagnostic instrument</text>
  <g transform="translate(150, 100)">
    <circle cx="75" cy="0" r="35" fill="#C0C0C0" stroke="#808080" stroke-width="3"/>
    <circle cx="75" cy="0" r="25" fill="#E0E0E0" stroke="#A0A0A0" stroke-width="2"/>
    <path d="M 75 35 L 45 100 L 105 100 Z" fill="#4169E1" stroke="#1E3A8A" stroke-width="2"/>
    <path d="M 45 100 Q 15 170 -5 240" stroke="url(#tubeGrad)" stroke-width="8" fill="none" stroke-linecap="round"/>
    <path d="M 105 100 Q 135 170 155 240" stroke="url(#tubeGrad)" stroke-width="8" fill="none" stroke-linecap="round"/>
    <circle cx="-5" cy="240" r="15" fill="#4169E1" stroke="#1E3A8A" stroke-width="2"/>
    <circle cx="-5" cy="240" r="8" fill="#1E90FF"/>
    <circle cx="155" cy="240" r="15" fill="#4169E1" stroke="#1E3A8A" stroke-width="2"/>
    <circle cx="155" cy="240" r="8" fill="#1E90FF"/>
  </g>
  <rect x="20" y="360" width="200" height="60" fill="#e0e7ff" stroke="#6366f1" stroke-width="2" rx="6" filter="url(#shadow)"/>
  <text x="120" y="385" font-family="Arial, sans-serif" font-size="14" font-weight="bold" fill="#4338ca" text-anchor="middle">Chest Piece</text>
  <text x="120" y="405" font-family="Arial, sans-serif" font-size="12" fill="#4b5563" text-anchor="middle">Detects sounds</text>
  <rect x="230" y="360" width="200" height="60" fill="#e0e7ff" stroke="#6366f1" stroke-width="2" rx="6" filter="url(#shadow)"/>
  <text x="330" y="385" font-family="Arial, sans-serif" font-size="14" font-weight="bold" fill="#4338ca" text-anchor="middle">Earpieces</text>
  <text x="330" y="405" font-family="Arial, sans-serif" font-size="12" fill="#4b5563" text-anchor="middle">Amplify sounds</text>
  <rect x="20" y="430" width="410" height="55" fill="#dbeafe" stroke="#3b82f6" stroke-width="2" rx="6" filter="url(#shadow)"/>
  <text x="225" y="455" font-family="Arial, sans-serif" font-size="13" fill="#1e40af" text-anchor="middle">Used to listen to internal body sounds</text>
  <text x="225" y="475" font-family="Arial, sans-serif" font-size="12" fill="#4b5563" text-anchor="middle">Heart, lungs, and blood flow</text>
</svg>`
}

var defaultSeries = []float64{10, 30, 20, 40, 35, 50, 45}

// fixedDivisor normalizes series whose maximum is not positive (empty,
// all-zero or negative data), keeping coordinates finite.
const fixedDivisor = 50.0

func graph(params map[string]any) string {
	const width, height = 500, 400
	title := stringParam(params, "title", "Data Visualization")

	points, ok := seriesParam(params, "points")
	if !ok || len(points) == 0 {
		points = defaultSeries
	}

	maxVal := points[0]
	minVal := points[0]
	sum := 0.0
	for _, p := range points {
		if p > maxVal {
			maxVal = p
		}
		if p < minVal {
			minVal = p
		}
		sum += p
	}

	divisor := maxVal
	if divisor <= 0 {
		divisor = fixedDivisor
	}

	// Scale each point into the 0..200 display band above the x axis.
	normalized := make([]int, len(points))
	for i, p := range points {
		normalized[i] = int(p / divisor * 200)
	}

	var path strings.Builder
	fmt.Fprintf(&path, "M 80 %d", 250-normalized[0])
	for i := 1; i < len(normalized); i++ {
		fmt.Fprintf(&path, " L %d %d", 80+i*60, 250-normalized[i])
	}

	var marks strings.Builder
	for i, v := range normalized {
		fmt.Fprintf(&marks, "\n    <circle cx=\"%d\" cy=\"%d\" r=\"6\" fill=\"#3b82f6\"/>", 80+i*60, 250-v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, width, height)
	b.WriteString(`
  <defs>
    <pattern id="grid" width="60" height="60" patternUnits="userSpaceOnUse">
      <path d="M 60 0 L 0 0 0 60" fill="none" stroke="#e0e0e0" stroke-width="1"/>
    </pattern>
    <filter id="shadow">
      <feDropShadow dx="2" dy="2" stdDeviation="3" flood-opacity="0.3"/>
    </filter>
  </defs>
  <rect width="500" height="400" fill="#f5f5f5" rx="8"/>
  <rect x="20" y="20" width="460" height="50" fill="#fff" stroke="#3b82f6" stroke-width="2" rx="6" filter="url(#shadow)"/>`)
	fmt.Fprintf(&b, `
  <text x="250" y="45" font-family="Arial, sans-serif" font-size="18" font-weight="bold" fill="#1e40af" text-anchor="middle">%s</text>
  <text x="250" y="65" font-family="Arial, sans-serif" font-size="12" fill="#6b7280" text-anchor="middle">Visual representation of data over time</text>
  <g transform="translate(0, 90)">
    <rect x="60" y="0" width="420" height="250" fill="url(#grid)"/>
    <line x1="80" y1="250" x2="460" y2="250" stroke="#333" stroke-width="3"/>
    <line x1="80" y1="20" x2="80" y2="250" stroke="#333" stroke-width="3"/>
    <path d="%s" fill="none" stroke="#3b82f6" stroke-width="4" stroke-linecap="round" stroke-linejoin="round"/>%s
    <text x="250" y="290" font-family="Arial, sans-serif" font-size="14" font-weight="bold" fill="#374151" text-anchor="middle">Time</text>
    <text x="30" y="145" font-family="Arial, sans-serif" font-size="14" font-weight="bold" fill="#374151" text-anchor="middle" transform="rotate(-90 30 145)">Value</text>
  </g>
  <rect x="20" y="340" width="460" height="45" fill="#dbeafe" stroke="#3b82f6" stroke-width="2" rx="6" filter="url(#shadow)"/>
  <text x="250" y="360" font-family="Arial, sans-serif" font-size="12" fill="#1e40af" text-anchor="middle">Max: %s | Min: %s | Avg: %s</text>
</svg>`,
		escapeText(title), path.String(), marks.String(),
		formatStat(maxVal), formatStat(minVal), formatStat(sum/float64(len(points))))
	return b.String()
}

func stringParam(params map[string]any, name, def string) string {
	switch v := params[name].(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return escapeText(v)
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return def
}

// seriesParam accepts the shapes a numeric series arrives in after JSON
// decoding or direct construction.
func seriesParam(params map[string]any, name string) ([]float64, bool) {
	switch v := params[name].(type) {
	case []float64:
		return v, true
	case []int:
		out := make([]float64, len(v))
		for i, n := range v {
			out[i] = float64(n)
		}
		return out, true
	case []any:
		out := make([]float64, 0, len(v))
		for _, item := range v {
			switch n := item.(type) {
			case float64:
				out = append(out, n)
			case int:
				out = append(out, float64(n))
			}
		}
		return out, true
	}
	return nil, false
}

func formatStat(v float64) string {
	return strconv.Itoa(int(v))
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
