package ir

import "strings"

// Visualization is a fully resolved intent with a mark.
type Visualization struct {
	ID     string   `json:"id"`     // Content-addressed identity
	Intent []Clause `json:"intent"` // Inferred intent, resolved clauses only
	Mark   Mark     `json:"mark"`
	Title  string   `json:"title,omitempty"`
}

// Collection is an ordered, deduplicated sequence of visualizations.
type Collection []*Visualization

// NewVisualization builds a visualization and derives its title and ID.
func NewVisualization(intent []Clause, mark Mark) (*Visualization, error) {
	id, err := VisualizationID(intent)
	if err != nil {
		return nil, err
	}
	return &Visualization{
		ID:     id,
		Intent: intent,
		Mark:   mark,
		Title:  Title(intent),
	}, nil
}

// Title summarises the filter clauses, e.g. "origin = USA".
func Title(clauses []Clause) string {
	var parts []string
	for _, c := range clauses {
		v, ok := c.FilterValue()
		if !ok {
			continue
		}
		parts = append(parts, c.AttributeName()+" "+c.Op()+" "+v.String())
	}
	return strings.Join(parts, ", ")
}

// AttrsByChannel returns the clauses encoded on ch, in intent order.
func (v *Visualization) AttrsByChannel(ch Channel) []Clause {
	var out []Clause
	for _, c := range v.Intent {
		if c.Channel == ch && !c.IsFilter() {
			out = append(out, c)
		}
	}
	return out
}

// AttrByChannel returns the single clause on ch.
func (v *Visualization) AttrByChannel(ch Channel) (Clause, bool) {
	attrs := v.AttrsByChannel(ch)
	if len(attrs) == 0 {
		return Clause{}, false
	}
	return attrs[0], true
}

// Attributes returns the visual attribute clauses, including Record.
func (v *Visualization) Attributes() []Clause {
	return Intent(v.Intent).Attributes()
}

// Filters returns the value-bound clauses.
func (v *Visualization) Filters() []Clause {
	return Intent(v.Intent).Filters()
}

// AttributeNames returns the visual attribute names, excluding Record.
func (v *Visualization) AttributeNames() []string {
	var out []string
	for _, c := range v.Attributes() {
		if n := c.AttributeName(); n != RecordAttribute {
			out = append(out, n)
		}
	}
	return out
}

// Actionable reports whether the visualization has a known mark.
func (v *Visualization) Actionable() bool {
	return v.Mark != MarkUnknown
}

// Titles returns the title of every visualization in order.
func (c Collection) Titles() []string {
	out := make([]string, len(c))
	for i, v := range c {
		out[i] = v.Title
	}
	return out
}

// Actionable returns the visualizations with a known mark.
func (c Collection) Actionable() Collection {
	out := make(Collection, 0, len(c))
	for _, v := range c {
		if v.Actionable() {
			out = append(out, v)
		}
	}
	return out
}
