package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/bank"
)

func wrap(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func joinLines(lines ...string) string {
	var out []string
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func blanks(s string) string {
	return strings.ReplaceAll(s, "__", "___")
}

// equationCheck asks for the missing sign of a sentence, or whether a
// statement is true.
type equationCheck struct{}

type equationCheckPayload struct {
	Mode       string        `json:"mode"`
	Left       string        `json:"left"`
	Right      string        `json:"right"`
	Options    []bank.Answer `json:"options"`
	Statements []string      `json:"statements"`
}

func (p equationCheckPayload) trueFalse() bool { return p.Mode == "true_false" }

func (equationCheck) Render(data json.RawMessage, width int) string {
	var p equationCheckPayload
	if !decode(data, &p) {
		return ""
	}
	if p.trueFalse() {
		stmt := p.Left
		if len(p.Statements) > 0 && p.Statements[0] != "" {
			stmt = p.Statements[0]
		}
		if stmt == "" {
			return ""
		}
		return fit(joinLines(boxStyle.Render(stmt), labelStyle.Render("True or false?")), width)
	}
	if p.Left == "" {
		return ""
	}
	sentence := blanks(p.Left)
	if p.Right != "" {
		sentence += " = " + p.Right
	}
	return fit(boxStyle.Render(sentence), width)
}

func (equationCheck) Choices(data json.RawMessage) []Choice {
	var p equationCheckPayload
	if !decode(data, &p) {
		return nil
	}
	if p.trueFalse() {
		return []Choice{{Label: "True", Value: "true"}, {Label: "False", Value: "false"}}
	}
	return answerChoices(p.Options)
}

// numberPair is a way to make a number, written as [a, b], {"a", "b"} or
// {"left", "right"}.
type numberPair struct {
	A, B float64
}

func (n *numberPair) UnmarshalJSON(b []byte) error {
	var arr []float64
	if err := json.Unmarshal(b, &arr); err == nil {
		if len(arr) != 2 {
			return fmt.Errorf("number pair has %d parts", len(arr))
		}
		n.A, n.B = arr[0], arr[1]
		return nil
	}
	var obj struct {
		A     *float64 `json:"a"`
		B     *float64 `json:"b"`
		Left  *float64 `json:"left"`
		Right *float64 `json:"right"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	switch {
	case obj.A != nil && obj.B != nil:
		n.A, n.B = *obj.A, *obj.B
	case obj.Left != nil && obj.Right != nil:
		n.A, n.B = *obj.Left, *obj.Right
	default:
		return errors.New("number pair is missing a part")
	}
	return nil
}

// makeNumber asks which pair of addends makes the target.
type makeNumber struct{}

type makeNumberPayload struct {
	Target  *float64     `json:"target"`
	Options []numberPair `json:"options"`
	Prompt  string       `json:"prompt"`
}

func (p makeNumberPayload) target() float64 {
	if p.Target == nil {
		return 10
	}
	return *p.Target
}

func (makeNumber) Render(data json.RawMessage, width int) string {
	var p makeNumberPayload
	if !decode(data, &p) {
		return ""
	}
	prompt := p.Prompt
	if prompt == "" {
		prompt = "Which pair makes " + formatNum(p.target()) + "?"
	}
	return fit(joinLines(boxStyle.Render(formatNum(p.target())), labelStyle.Render(prompt)), width)
}

func (makeNumber) Choices(data json.RawMessage) []Choice {
	var p makeNumberPayload
	if !decode(data, &p) {
		return nil
	}
	var out []Choice
	for _, o := range p.Options {
		a, b := formatNum(o.A), formatNum(o.B)
		out = append(out, Choice{Label: a + " + " + b, Value: a + "+" + b})
	}
	return out
}

// factFamily asks for the sentence belonging to a family of three numbers.
type factFamily struct{}

type factFamilyPayload struct {
	Numbers []int         `json:"numbers"`
	Options []bank.Answer `json:"options"`
	Prompt  string        `json:"prompt"`
}

// family lists the four related sentences of three numbers.
func family(numbers []int) []string {
	if len(numbers) != 3 {
		return nil
	}
	n := slices.Sorted(slices.Values(numbers))
	a, b, c := strconv.Itoa(n[0]), strconv.Itoa(n[1]), strconv.Itoa(n[2])
	return []string{
		a + " + " + b + " = " + c,
		b + " + " + a + " = " + c,
		c + " - " + a + " = " + b,
		c + " - " + b + " = " + a,
	}
}

func (factFamily) Render(data json.RawMessage, width int) string {
	var p factFamilyPayload
	if !decode(data, &p) || len(p.Numbers) == 0 {
		return ""
	}
	nums := make([]string, len(p.Numbers))
	for i, n := range p.Numbers {
		nums[i] = strconv.Itoa(n)
	}
	prompt := p.Prompt
	if prompt == "" {
		prompt = "Select the fact family sentence that fits these numbers:"
	}
	return fit(joinLines(labelStyle.Render(prompt), boxStyle.Render(strings.Join(nums, "   "))), width)
}

func (factFamily) Choices(data json.RawMessage) []Choice {
	var p factFamilyPayload
	if !decode(data, &p) {
		return nil
	}
	if len(p.Options) > 0 {
		return answerChoices(p.Options)
	}
	var out []Choice
	for _, s := range family(p.Numbers) {
		out = append(out, Choice{Label: s, Value: s})
	}
	return out
}

// wordProblem tells a story and asks a question about it.
type wordProblem struct{}

type wordProblemPayload struct {
	Story    string        `json:"story"`
	Question string        `json:"question"`
	Options  []bank.Answer `json:"options"`
}

func (wordProblem) Render(data json.RawMessage, width int) string {
	var p wordProblemPayload
	if !decode(data, &p) || p.Story == "" {
		return ""
	}
	q := p.Question
	if q == "" {
		q = "What is the answer?"
	}
	return joinLines(wrap(p.Story, width), fit(labelStyle.Render(q), width))
}

func (wordProblem) Choices(data json.RawMessage) []Choice {
	var p wordProblemPayload
	if !decode(data, &p) {
		return nil
	}
	return answerChoices(p.Options)
}

// storyModel is the picture drawn under a word problem: cube trains for
// addends, or groups of icons.
type storyModel struct {
	Trains  []int  `json:"trains"`
	Addends []int  `json:"addends"`
	Groups  []int  `json:"groups"`
	Icon    string `json:"icon"`
}

func (m storyModel) draw() string {
	switch {
	case len(m.Trains) > 0:
		return cubeStacks(m.Trains)
	case len(m.Addends) > 0:
		return cubeStacks(m.Addends)
	case len(m.Groups) > 0:
		return iconGroups(m.Groups, m.Icon)
	}
	return ""
}

// wordProblemModel is a word problem with a drawn model.
type wordProblemModel struct{}

type wordProblemModelPayload struct {
	Story    string        `json:"story"`
	Model    storyModel    `json:"model"`
	Question string        `json:"question"`
	Options  []bank.Answer `json:"options"`
}

func (wordProblemModel) Render(data json.RawMessage, width int) string {
	var p wordProblemModelPayload
	if !decode(data, &p) || p.Story == "" {
		return ""
	}
	q := p.Question
	if q == "" {
		q = "Solve the problem."
	}
	return joinLines(wrap(p.Story, width), fit(p.Model.draw(), width), fit(labelStyle.Render(q), width))
}

func (wordProblemModel) Choices(data json.RawMessage) []Choice {
	var p wordProblemModelPayload
	if !decode(data, &p) {
		return nil
	}
	return answerChoices(p.Options)
}

// wordProblemSentence asks for the number sentence that matches a story.
type wordProblemSentence struct{}

type wordProblemSentencePayload struct {
	Story    string        `json:"story"`
	Template string        `json:"template"`
	Options  []bank.Answer `json:"options"`
}

func (wordProblemSentence) Render(data json.RawMessage, width int) string {
	var p wordProblemSentencePayload
	if !decode(data, &p) || p.Story == "" {
		return ""
	}
	tmpl := p.Template
	if tmpl == "" {
		tmpl = "__ + __ = __"
	}
	return joinLines(wrap(p.Story, width), fit(boxStyle.Render(blanks(tmpl)), width))
}

func (wordProblemSentence) Choices(data json.RawMessage) []Choice {
	var p wordProblemSentencePayload
	if !decode(data, &p) {
		return nil
	}
	return answerChoices(p.Options)
}

// addThree adds three numbers with a named strategy.
type addThree struct{}

type addThreePayload struct {
	Numbers  []float64     `json:"numbers"`
	Strategy string        `json:"strategy"`
	Options  []bank.Answer `json:"options"`
}

func (addThree) Render(data json.RawMessage, width int) string {
	var p addThreePayload
	if !decode(data, &p) || len(p.Numbers) == 0 {
		return ""
	}
	nums := make([]string, len(p.Numbers))
	for i, n := range p.Numbers {
		nums[i] = formatNum(n)
	}
	var strategy string
	if p.Strategy != "" {
		strategy = labelStyle.Render("Strategy: " + p.Strategy)
	}
	return fit(joinLines(boxStyle.Render(strings.Join(nums, " + ")), strategy), width)
}

func (addThree) Choices(data json.RawMessage) []Choice {
	var p addThreePayload
	if !decode(data, &p) {
		return nil
	}
	return answerChoices(p.Options)
}

// equationFill shows a sentence template to complete.
type equationFill struct{}

type equationFillPayload struct {
	Template string        `json:"template"`
	Options  []bank.Answer `json:"options"`
	Strategy string        `json:"strategy"`
	Hint     string        `json:"hint"`
}

func (equationFill) Render(data json.RawMessage, width int) string {
	var p equationFillPayload
	if !decode(data, &p) {
		return ""
	}
	tmpl := p.Template
	if tmpl == "" {
		tmpl = "__ + __ = __"
	}
	var strategy, hint string
	if p.Strategy != "" {
		strategy = labelStyle.Render("Strategy: " + p.Strategy)
	}
	if p.Hint != "" {
		hint = labelStyle.Render("Hint: " + p.Hint)
	}
	return fit(joinLines(boxStyle.Render(blanks(tmpl)), strategy, hint), width)
}

func (equationFill) Choices(data json.RawMessage) []Choice {
	var p equationFillPayload
	if !decode(data, &p) {
		return nil
	}
	return answerChoices(p.Options)
}

// modelMatch pairs a sentence with a model, in either direction.
type modelMatch struct{}

type modelMatchOption struct {
	Value *bank.Answer `json:"value"`
	Label string       `json:"label"`
	ID    *bank.Answer `json:"id"`
	Model storyModel   `json:"model"`
}

type modelMatchPayload struct {
	PromptType   string             `json:"promptType"`
	Sentence     string             `json:"sentence"`
	Model        storyModel         `json:"model"`
	Options      []modelMatchOption `json:"options"`
	QuestionText string             `json:"questionText"`
}

func (p modelMatchPayload) toModel() bool { return p.PromptType == "sentence_to_model" }

func (modelMatch) Render(data json.RawMessage, width int) string {
	var p modelMatchPayload
	if !decode(data, &p) {
		return ""
	}
	shown := p.Model.draw()
	if p.toModel() {
		shown = boxStyle.Render(p.Sentence)
		if p.Sentence == "" {
			shown = ""
		}
	}
	if shown == "" {
		return ""
	}
	q := p.QuestionText
	if q == "" {
		q = "Which sentence matches the model?"
		if p.toModel() {
			q = "Which model matches the sentence?"
		}
	}
	return fit(joinLines(shown, labelStyle.Render(q)), width)
}

func (modelMatch) Choices(data json.RawMessage) []Choice {
	var p modelMatchPayload
	if !decode(data, &p) {
		return nil
	}
	var out []Choice
	for i, o := range p.Options {
		var value string
		switch {
		case o.Value != nil:
			value = string(*o.Value)
		case o.Label != "":
			value = o.Label
		case o.ID != nil:
			value = string(*o.ID)
		default:
			value = strconv.Itoa(i)
		}
		label := o.Label
		if label == "" {
			label = value
		}
		out = append(out, Choice{Label: label, Value: value})
	}
	return out
}

// placeValueAdd adds two-digit numbers by tens and ones, on a hundred chart,
// or in columns.
type placeValueAdd struct{}

func (placeValueAdd) Render(data json.RawMessage, width int) string {
	var p struct {
		Mode       string    `json:"mode"`
		Numbers    []float64 `json:"numbers"`
		Regrouping bool      `json:"regrouping"`
		Highlight  []int     `json:"highlight"`
	}
	if !decode(data, &p) || len(p.Numbers) == 0 {
		return ""
	}
	var body string
	switch p.Mode {
	case "hundred_chart":
		body = hundredChart(p.Highlight)
	case "two_digit_vertical":
		body = columnSum(p.Numbers)
	default:
		lines := make([]string, len(p.Numbers))
		for i, f := range p.Numbers {
			n := int(f)
			lines[i] = fmt.Sprintf("%d = %s tens + %s ones", n,
				filledStyle.Render(strconv.Itoa(n/10)), plusStyle.Render(strconv.Itoa(n%10)))
		}
		body = strings.Join(lines, "\n")
	}
	var note string
	if p.Regrouping {
		note = labelStyle.Render("Remember to regroup!")
	}
	return fit(joinLines(body, note), width)
}

func hundredChart(highlight []int) string {
	rows := make([]string, 10)
	for r := range rows {
		cells := make([]string, 10)
		for c := range cells {
			n := r*10 + c + 1
			cell := fmt.Sprintf("%3d", n)
			if slices.Contains(highlight, n) {
				cells[c] = plusStyle.Render(cell)
			} else {
				cells[c] = emptyStyle.Render(cell)
			}
		}
		rows[r] = strings.Join(cells, "")
	}
	return strings.Join(rows, "\n")
}
