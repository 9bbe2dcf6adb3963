package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/cardspend/internal/datekey"
	"github.com/Veraticus/cardspend/internal/edit"
	"github.com/Veraticus/cardspend/internal/filter"
	"github.com/shopspring/decimal"
)

// Prompter asks for input on a terminal.
type Prompter struct {
	writer io.Writer
	reader *LineReader
}

// NewPrompter creates a prompter; nil arguments fall back to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// Confirm asks a yes/no question. Anything but y or yes is no.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt+" [y/N]")); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	answer, err := p.reader.ReadLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Ask prompts for a value. Empty input keeps current.
func (p *Prompter) Ask(ctx context.Context, label, current string) (string, error) {
	prompt := label
	if current != "" {
		prompt += " " + SubtleStyle.Render("["+current+"]")
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	answer, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

// AskChoice prompts until the answer is one of choices. A close misspelling
// is offered as a suggestion.
func (p *Prompter) AskChoice(ctx context.Context, label, current string, choices []string) (string, error) {
	for {
		answer, err := p.Ask(ctx, fmt.Sprintf("%s (%s)", label, strings.Join(choices, ", ")), current)
		if err != nil {
			return "", err
		}
		for _, c := range choices {
			if c == answer {
				return answer, nil
			}
		}
		msg := fmt.Sprintf("%q is not one of the choices.", answer)
		if s := filter.Suggest(answer, choices); s != "" {
			msg += fmt.Sprintf(" Did you mean %q?", s)
		}
		if _, err := fmt.Fprintln(p.writer, FormatWarning(msg)); err != nil {
			return "", fmt.Errorf("failed to write warning: %w", err)
		}
	}
}

// FillDraft walks through every field of d. who must come from people when
// any are given.
func (p *Prompter) FillDraft(ctx context.Context, d edit.DraftForm, people []string) (edit.DraftForm, error) {
	var err error
	ask := func(label string, field *string) {
		if err != nil {
			return
		}
		*field, err = p.Ask(ctx, label, *field)
	}

	ask("Date (YYYY-MM-DD or MM/DD/YYYY)", &d.Date)
	ask("Card", &d.Card)
	if err == nil {
		if len(people) > 0 {
			d.Who, err = p.AskChoice(ctx, "Who", d.Who, people)
		} else {
			ask("Who", &d.Who)
		}
	}
	ask("Category", &d.Category)
	ask("Merchant", &d.Merchant)
	ask("Amount", &d.Amount)
	ask("Cashback %", &d.CashbackPercent)
	ask("Notes", &d.Notes)
	if err != nil {
		return d, err
	}

	paid, err := p.Confirm(ctx, "Paid?")
	if err != nil {
		return d, err
	}
	d.Paid = paid

	if normalized := datekey.Normalize(d.Date); datekey.IsCanonical(normalized) {
		d.Date = normalized
	}
	return d, nil
}

// DescribeDraft renders a draft for review before it is sent.
func DescribeDraft(d edit.DraftForm) string {
	paid := "no"
	if d.Paid {
		paid = "yes"
	}
	lines := []string{
		"Date:     " + d.Date,
		"Card:     " + d.Card,
		"Who:      " + d.Who,
		"Category: " + d.Category,
		"Merchant: " + d.Merchant,
		"Amount:   " + d.Amount,
		"Cashback: " + percentText(d.CashbackPercent),
		"Paid:     " + paid,
	}
	if d.Notes != "" {
		lines = append(lines, "Notes:    "+d.Notes)
	}
	return strings.Join(lines, "\n")
}

func percentText(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return edit.RatioToPercent(decimal.NewNullDecimal(edit.PercentToRatio(s))) + "%"
}
