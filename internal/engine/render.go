package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// Upper bounds on drawn elements.
const (
	maxTicks = 101
	maxCount = 40
	maxGrid  = 20
)

var (
	filledStyle = lipgloss.NewStyle().Foreground(theme.Secondary)
	emptyStyle  = lipgloss.NewStyle().Foreground(theme.Border)
	minusStyle  = lipgloss.NewStyle().Foreground(theme.Error)
	plusStyle   = lipgloss.NewStyle().Foreground(theme.Success)
	labelStyle  = lipgloss.NewStyle().Foreground(theme.TextDim)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 2).
			Bold(true)
)

func decode(data json.RawMessage, v any) bool {
	if len(data) == 0 {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func clampCount(n, limit int) int {
	return min(max(n, 0), limit)
}

func fit(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

// numberLine draws a labelled axis and the jumps to make on it. Ticks are
// clickable.
type numberLine struct{}

type numberLinePayload struct {
	Start    float64   `json:"start"`
	End      *float64  `json:"end"`
	Max      *float64  `json:"max"`
	Step     float64   `json:"step"`
	Operands []float64 `json:"operands"`
	Jump     *float64  `json:"jump"`
	Jumps    []float64 `json:"jumps"`
}

func (p numberLinePayload) ticks() []float64 {
	var end float64
	switch {
	case p.End != nil:
		end = *p.End
	case p.Max != nil:
		end = *p.Max
	default:
		return nil
	}
	step := p.Step
	if step <= 0 {
		step = 1
	}
	if end < p.Start || math.IsInf(end-p.Start, 0) {
		return nil
	}
	var out []float64
	for i := 0; len(out) < maxTicks; i++ {
		v := p.Start + float64(i)*step
		if v > end+step/1e6 {
			break
		}
		out = append(out, v)
	}
	return out
}

func (p numberLinePayload) moves() []float64 {
	switch {
	case len(p.Operands) > 0:
		return p.Operands
	case len(p.Jumps) > 0:
		return p.Jumps
	case p.Jump != nil:
		return []float64{*p.Jump}
	}
	return nil
}

func (numberLine) Render(data json.RawMessage, width int) string {
	var p numberLinePayload
	if !decode(data, &p) {
		return ""
	}
	ticks := p.ticks()
	if len(ticks) == 0 {
		return ""
	}

	labels := make([]string, len(ticks))
	cell := 0
	for i, t := range ticks {
		labels[i] = formatNum(t)
		cell = max(cell, len(labels[i])+1)
	}
	every := 1
	if width > 0 && cell*len(ticks) > width {
		cell = max(width/len(ticks), 2)
		every = max((cell*len(ticks)+width-1)/width, 1)
		for every*cell <= len(labels[0]) && every < len(ticks) {
			every++
		}
	}

	var top, axis strings.Builder
	for i := 0; i < len(ticks); i += every {
		span := cell * min(every, len(ticks)-i)
		label := labels[i]
		if len(label) >= span {
			label = ""
		}
		top.WriteString(label + strings.Repeat(" ", span-len(label)))
	}
	for i := range ticks {
		axis.WriteString("┼")
		if i < len(ticks)-1 {
			axis.WriteString(strings.Repeat("─", cell-1))
		}
	}

	lines := []string{strings.TrimRight(top.String(), " "), filledStyle.Render(axis.String())}
	if moves := p.moves(); len(moves) > 0 {
		var parts []string
		parts = append(parts, "start at "+formatNum(moves[0]))
		for _, m := range moves[1:] {
			if m < 0 {
				parts = append(parts, "jump back "+formatNum(-m))
			} else {
				parts = append(parts, "jump "+formatNum(m))
			}
		}
		lines = append(lines, "", labelStyle.Render(strings.Join(parts, ", then ")))
	}
	return fit(strings.Join(lines, "\n"), width)
}

func (numberLine) Choices(data json.RawMessage) []Choice {
	var p numberLinePayload
	if !decode(data, &p) {
		return nil
	}
	var out []Choice
	for _, t := range p.ticks() {
		s := formatNum(t)
		out = append(out, Choice{Label: s, Value: s})
	}
	return out
}

// tenFrame draws two rows of five cells per frame.
type tenFrame struct{}

func (tenFrame) Render(data json.RawMessage, width int) string {
	var p struct {
		Frames []int `json:"frames"`
	}
	if !decode(data, &p) || len(p.Frames) == 0 {
		return ""
	}
	var frames []string
	for _, n := range p.Frames {
		n = clampCount(n, 10)
		var rows [2]strings.Builder
		for i := range 10 {
			r := &rows[i/5]
			if i < n {
				r.WriteString(filledStyle.Render("●"))
			} else {
				r.WriteString(emptyStyle.Render("○"))
			}
			if i%5 != 4 {
				r.WriteString(" ")
			}
		}
		frame := boxStyle.UnsetBold().Padding(0, 1).Render(rows[0].String() + "\n" + rows[1].String())
		frames = append(frames, frame, "  ")
	}
	return fit(lipgloss.JoinHorizontal(lipgloss.Top, frames[:len(frames)-1]...), width)
}

// fractionsArea draws each fraction as a bar of equal parts.
type fractionsArea struct{}

func (fractionsArea) Render(data json.RawMessage, width int) string {
	var p struct {
		Fractions []struct {
			Num int `json:"num"`
			Den int `json:"den"`
		} `json:"fractions"`
	}
	if !decode(data, &p) {
		return ""
	}
	var lines []string
	for _, f := range p.Fractions {
		if f.Den <= 0 {
			continue
		}
		den := clampCount(f.Den, maxCount)
		num := clampCount(f.Num, den)
		bar := filledStyle.Render(strings.Repeat("█ ", num)) + emptyStyle.Render(strings.Repeat("░ ", den-num))
		lines = append(lines, fmt.Sprintf("%s %s", bar, labelStyle.Render(fmt.Sprintf("%d/%d", f.Num, f.Den))))
	}
	return fit(strings.Join(lines, "\n"), width)
}

// cubes draws each addend as a stack of cubes.
type cubes struct{}

func (cubes) Render(data json.RawMessage, width int) string {
	var p struct {
		Addends []int `json:"addends"`
	}
	if !decode(data, &p) || len(p.Addends) == 0 {
		return ""
	}
	return fit(cubeStacks(p.Addends), width)
}

func cubeStacks(addends []int) string {
	var parts []string
	for _, n := range addends {
		parts = append(parts, filledStyle.Render(strings.Repeat("■", clampCount(n, maxCount))))
	}
	return strings.Join(parts, labelStyle.Render("  +  "))
}

// array draws rows x cols icons.
type array struct{}

func (array) Render(data json.RawMessage, width int) string {
	var p struct {
		Rows int    `json:"rows"`
		Cols int    `json:"cols"`
		Icon string `json:"icon"`
	}
	if !decode(data, &p) {
		return ""
	}
	rows, cols := clampCount(p.Rows, maxGrid), clampCount(p.Cols, maxGrid)
	if rows == 0 || cols == 0 {
		return ""
	}
	icon := p.Icon
	if icon == "" {
		icon = "●"
	}
	row := filledStyle.Render(strings.TrimSpace(strings.Repeat(icon+" ", cols)))
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = row
	}
	return fit(strings.Join(lines, "\n"), width)
}

// money lists coins and bills with their counts.
type money struct{}

func (money) Render(data json.RawMessage, width int) string {
	var p struct {
		Items []struct {
			Label string  `json:"label"`
			Value float64 `json:"value"`
			Count int     `json:"count"`
		} `json:"items"`
	}
	if !decode(data, &p) {
		return ""
	}
	var lines []string
	for _, it := range p.Items {
		if it.Count <= 0 {
			continue
		}
		name := it.Label
		if it.Count > 1 {
			name += "s"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			plusStyle.Render(strconv.Itoa(it.Count)), name,
			labelStyle.Render("("+formatNum(it.Value)+"¢ each)")))
	}
	return fit(strings.Join(lines, "\n"), width)
}

// vertical stacks the operands for column addition.
type vertical struct{}

func (vertical) Render(data json.RawMessage, width int) string {
	var p struct {
		Operands []float64 `json:"operands"`
	}
	if !decode(data, &p) || len(p.Operands) == 0 {
		return ""
	}
	return fit(columnSum(p.Operands), width)
}

func columnSum(operands []float64) string {
	nums := make([]string, len(operands))
	w := 0
	for i, f := range operands {
		nums[i] = formatNum(f)
		w = max(w, len(nums[i]))
	}
	lines := make([]string, 0, len(nums)+1)
	for i, n := range nums {
		sign := " "
		if i == len(nums)-1 && len(nums) > 1 {
			sign = "+"
		}
		lines = append(lines, fmt.Sprintf("%s %*s", sign, w, n))
	}
	lines = append(lines, strings.Repeat("─", w+2))
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// integerChips draws positive and negative counters for each addend.
type integerChips struct{}

func (integerChips) Render(data json.RawMessage, width int) string {
	var p struct {
		Addends []int `json:"addends"`
	}
	if !decode(data, &p) || len(p.Addends) == 0 {
		return ""
	}
	var groups []string
	for _, n := range p.Addends {
		switch {
		case n > 0:
			groups = append(groups, plusStyle.Render(strings.Repeat("(+)", clampCount(n, maxCount))))
		case n < 0:
			groups = append(groups, minusStyle.Render(strings.Repeat("(-)", clampCount(-n, maxCount))))
		default:
			groups = append(groups, labelStyle.Render("(none)"))
		}
	}
	return fit(strings.Join(groups, "   "), width)
}

// equation shows a number sentence with blanks.
type equation struct{}

func (equation) Render(data json.RawMessage, width int) string {
	var p struct {
		Equation string `json:"equation"`
	}
	if !decode(data, &p) || p.Equation == "" {
		return ""
	}
	return fit(boxStyle.Render(p.Equation), width)
}

// picture draws groups of icons to add together.
type picture struct{}

func (picture) Render(data json.RawMessage, width int) string {
	var p struct {
		Groups []int  `json:"groups"`
		Icon   string `json:"icon"`
	}
	if !decode(data, &p) || len(p.Groups) == 0 {
		return ""
	}
	return fit(iconGroups(p.Groups, p.Icon), width)
}

func iconGroups(groups []int, icon string) string {
	if icon == "" {
		icon = "★"
	}
	var parts []string
	for _, n := range groups {
		parts = append(parts, filledStyle.Render(strings.TrimSpace(strings.Repeat(icon+" ", clampCount(n, maxCount)))))
	}
	return strings.Join(parts, labelStyle.Render("   +   "))
}

// selection offers labelled options; the option value is the answer.
type selection struct{}

type selectionOption struct {
	Label   string      `json:"label"`
	Value   bank.Answer `json:"value"`
	Content string      `json:"content"`
}

func (selection) options(data json.RawMessage) []selectionOption {
	var p struct {
		Options []selectionOption `json:"options"`
	}
	if !decode(data, &p) {
		return nil
	}
	return p.Options
}

func (s selection) Render(data json.RawMessage, width int) string {
	n := len(s.options(data))
	if n == 0 {
		return ""
	}
	return fit(labelStyle.Render(fmt.Sprintf("Choose one of %d options.", n)), width)
}

func (s selection) Choices(data json.RawMessage) []Choice {
	var out []Choice
	for _, o := range s.options(data) {
		label := o.Content
		switch {
		case label == "":
			label = o.Label
		case o.Label != "":
			label = o.Label + ") " + o.Content
		}
		out = append(out, Choice{Label: label, Value: string(o.Value)})
	}
	return out
}

// fact shows a single fact with optional multiple-choice answers.
type fact struct{}

type factPayload struct {
	Expression string        `json:"expression"`
	Options    []bank.Answer `json:"options"`
	Timed      bool          `json:"timed"`
}

func (fact) Render(data json.RawMessage, width int) string {
	var p factPayload
	if !decode(data, &p) || p.Expression == "" {
		return ""
	}
	out := boxStyle.Render(p.Expression + " = ?")
	if p.Timed {
		out += "\n" + labelStyle.Render("Beat the clock!")
	}
	return fit(out, width)
}

func (fact) Choices(data json.RawMessage) []Choice {
	var p factPayload
	if !decode(data, &p) {
		return nil
	}
	return answerChoices(p.Options)
}

// answerChoices offers each option as both label and value.
func answerChoices(opts []bank.Answer) []Choice {
	var out []Choice
	for _, o := range opts {
		out = append(out, Choice{Label: string(o), Value: string(o)})
	}
	return out
}
