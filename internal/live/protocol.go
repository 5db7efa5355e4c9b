// Package live drives the slideshow, testimonial carousel and stats counters
// over a websocket so every visitor gets a server-owned, serialised state.
package live

// Carousel names.
const (
	CarouselSlides       = "slides"
	CarouselTestimonials = "testimonials"
)

// StatsSection is the visible element that starts every counter at once.
const StatsSection = "stats"

// Client event types.
const (
	EventHello   = "hello"
	EventResize  = "resize"
	EventSwipe   = "swipe"
	EventAdvance = "advance"
	EventJump    = "jump"
	EventVisible = "visible"
)

// Server message types.
const (
	MessageCarousel = "carousel"
	MessageStat     = "stat"
	MessageError    = "error"
)

// Inbound is an event sent by the browser.
type Inbound struct {
	Type      string  `json:"type" msgpack:"type"`
	Width     int     `json:"width,omitempty" msgpack:"width,omitempty"`
	UserAgent string  `json:"ua,omitempty" msgpack:"ua,omitempty"`
	Carousel  string  `json:"carousel,omitempty" msgpack:"carousel,omitempty"`
	StartX    float64 `json:"startX,omitempty" msgpack:"startX,omitempty"`
	EndX      float64 `json:"endX,omitempty" msgpack:"endX,omitempty"`
	Direction int     `json:"direction,omitempty" msgpack:"direction,omitempty"`
	Position  int     `json:"position,omitempty" msgpack:"position,omitempty"`
	Element   string  `json:"element,omitempty" msgpack:"element,omitempty"`
}

// Outbound is a state update pushed to the browser.
type Outbound struct {
	Type     string `json:"type" msgpack:"type"`
	Carousel string `json:"carousel,omitempty" msgpack:"carousel,omitempty"`
	Index    int    `json:"index" msgpack:"index"`
	Marks    []bool `json:"marks,omitempty" msgpack:"marks,omitempty"`
	Element  string `json:"element,omitempty" msgpack:"element,omitempty"`
	Value    int    `json:"value" msgpack:"value"`
	Done     bool   `json:"done,omitempty" msgpack:"done,omitempty"`
	Message  string `json:"message,omitempty" msgpack:"message,omitempty"`
}
