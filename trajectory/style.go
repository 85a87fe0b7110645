package trajectory

// Stroke is an outline colour and width in pixels.
type Stroke struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// Text styles a point label.
type Text struct {
	Font   string `json:"font"`
	Stroke Stroke `json:"stroke"`
}

// Icon styles an image marker. Anchor is the fraction of the image width
// and height that sits on the feature coordinate.
type Icon struct {
	Src            string     `json:"src"`
	Anchor         [2]float64 `json:"anchor"`
	RotateWithView bool       `json:"rotateWithView"`
}

// Style is the visual description attached to a rendered feature.
type Style struct {
	Radius float64 `json:"radius,omitempty"`
	Fill   string  `json:"fill,omitempty"`
	Stroke *Stroke `json:"stroke,omitempty"`
	Text   *Text   `json:"text,omitempty"`
	Icon   *Icon   `json:"icon,omitempty"`
}

// Styles holds the style for every feature kind.
type Styles struct {
	Point  Style
	Latest Style
	Line   Style
	Arrow  Style
	ZIndex int
}

const (
	pathColor      = "#49A8DE"
	highlightColor = "#E02F44"
	labelColor     = "#b7b7b7"
	labelFont      = "10px/1 sans-serif"
	pointFill      = "rgba(255, 255, 255, 0.2)"
)

// DefaultStyles returns translucent circles with passenger labels, a
// highlighted latest point, a solid line and arrow icons whose tip sits on
// the segment midpoint.
func DefaultStyles() Styles {
	label := &Text{Font: labelFont, Stroke: Stroke{Color: labelColor, Width: 1}}
	return Styles{
		Point: Style{
			Radius: 3,
			Fill:   pointFill,
			Stroke: &Stroke{Color: pathColor, Width: 2},
			Text:   label,
		},
		Latest: Style{
			Radius: 3,
			Fill:   pointFill,
			Stroke: &Stroke{Color: highlightColor, Width: 2},
			Text:   label,
		},
		Line: Style{
			Stroke: &Stroke{Color: pathColor, Width: 2},
		},
		Arrow: Style{
			Icon: &Icon{Src: "img/arrow.svg", Anchor: [2]float64{0.75, 0.5}, RotateWithView: true},
		},
		ZIndex: 2,
	}
}

// For picks the style for f.
func (s Styles) For(f Feature) Style {
	switch f := f.(type) {
	case PointFeature:
		if f.Latest {
			return s.Latest
		}
		return s.Point
	case LineFeature:
		return s.Line
	case ArrowFeature:
		return s.Arrow
	}
	return Style{}
}
