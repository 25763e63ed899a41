package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// SelectorAdapter handles interactive selection and confirmation
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectArtifact picks one of the stored artifact names
func (s *SelectorAdapter) SelectArtifact(ctx context.Context, names []string, prompt string) (string, error) {
	if s.config.NonInteractive {
		return "", fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(names) == 0 {
		return "", fmt.Errorf("no artifacts to choose from")
	}

	if len(names) == 1 {
		return names[0], nil
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             names,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(names),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}

	return names[index], nil
}

// Confirm asks a yes/no question, defaulting to no
func (s *SelectorAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return false, fmt.Errorf("confirmation not available in non-interactive mode")
	}

	p := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}

	result, err := p.Run()
	if err != nil {
		// promptui reports a "no" answer as ErrAbort
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return isYes(result), nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(options []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		matches := fuzzy.Find(strings.ToLower(input), []string{strings.ToLower(options[index])})
		return len(matches) > 0
	}
}

// Ensure SelectorAdapter implements the interactive ports
var (
	_ usecase.Confirmer        = (*SelectorAdapter)(nil)
	_ usecase.ArtifactSelector = (*SelectorAdapter)(nil)
)
